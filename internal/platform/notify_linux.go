//go:build linux

package platform

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod = notifyDest + ".Notify"
)

// hints maps opts onto freedesktop notification hints.
func hints(opts Options) map[string]dbus.Variant {
	h := map[string]dbus.Variant{}
	if opts.IconPath != "" {
		h["image-path"] = dbus.MakeVariant(opts.IconPath)
	}
	if opts.Category != "" {
		h["category"] = dbus.MakeVariant(opts.Category)
	}
	return h
}

// Notify sends a desktop notification over the session bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("notify: session bus: %w", err)
	}
	defer conn.Close()

	var id uint32
	timeout := int32(opts.timeout() / time.Millisecond)
	err = conn.Object(notifyDest, notifyPath).
		Call(notifyMethod, 0, AppName, uint32(0), opts.IconPath, title, body, []string{}, hints(opts), timeout).
		Store(&id)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}
