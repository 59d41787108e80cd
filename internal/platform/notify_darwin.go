//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// appleScript builds the osascript source for one notification.
// Notification Center controls the timeout and ignores icons from scripts.
func appleScript(title, body string) string {
	return fmt.Sprintf("display notification %q with title %q subtitle %q", body, title, AppName)
}

// Notify displays a desktop notification using macOS Notification Center.
func Notify(title, body string, opts Options) error {
	if err := exec.Command("osascript", "-e", appleScript(title, body)).Run(); err != nil {
		return fmt.Errorf("notify: osascript: %w", err)
	}
	return nil
}
