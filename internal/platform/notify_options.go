package platform

import "time"

// AppName identifies the program to the host notification service.
const AppName = "pinchcrop"

// DefaultTimeout is how long a notification stays up when Options.Timeout is
// zero.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout overrides DefaultTimeout where the platform lets the sender
	// choose.
	Timeout time.Duration
	// Category is a freedesktop notification category such as
	// "transfer.complete". Ignored elsewhere.
	Category string
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}
