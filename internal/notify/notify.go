package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/pinchcrop/internal/config"
	"github.com/example/pinchcrop/internal/platform"
	"github.com/kelseyhightower/envconfig"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCrop emits a notification when a crop is rendered.
	EventCrop Event = "crop"
	// EventSave emits a notification when an image is persisted to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when data is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Events: map[Event]EventPreference{
			EventCrop: {Template: "Cropped %s"},
			EventSave: {Template: "Saved %s"},
			EventCopy: {Template: "Copied %s to clipboard"},
		},
	}
}

// textOverrides are read from PINCHCROP_NOTIFY_TITLE and
// PINCHCROP_NOTIFY_<EVENT>_TEXT.
type textOverrides struct {
	Title    string
	CropText string `split_words:"true"`
	SaveText string `split_words:"true"`
	CopyText string `split_words:"true"`
}

// LoadPreferences reads template overrides from the environment.
func LoadPreferences() (Preferences, error) {
	prefs := DefaultPreferences()
	var env textOverrides
	if err := envconfig.Process(config.EnvPrefix+"_notify", &env); err != nil {
		return prefs, fmt.Errorf("notification environment: %w", err)
	}
	if v := strings.TrimSpace(env.Title); v != "" {
		prefs.Title = v
	}
	apply := func(v string, event Event) {
		if v = strings.TrimSpace(v); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	apply(env.CropText, EventCrop)
	apply(env.SaveText, EventSave)
	apply(env.CopyText, EventCopy)
	return prefs, nil
}

const transferComplete = "transfer.complete"

// Sender delivers one notification. platform.Notify is the default.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify}
}

// FromConfig creates a Notifier with the events enabled in cfg.
func FromConfig(prefs Preferences, cfg config.Notify) *Notifier {
	n := New(prefs)
	n.Enable(EventCrop, cfg.Crop)
	n.Enable(EventSave, cfg.Save)
	n.Enable(EventCopy, cfg.Copy)
	return n
}

// SetSender replaces how notifications are delivered.
func (n *Notifier) SetSender(s Sender) {
	if n != nil {
		n.send = s
	}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Crop sends a crop notification with an image preview.
func (n *Notifier) Crop(img image.Image) {
	if !n.enabledFor(EventCrop) {
		return
	}
	detail := "image"
	opts := platform.Options{}
	if img != nil {
		b := img.Bounds()
		detail = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCrop, detail, opts)
}

// Save sends a save notification including the written filename when available.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{Category: transferComplete}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "crop"
	}
	n.dispatch(EventCopy, detail, platform.Options{Category: transferComplete})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" || n.send == nil {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "pinchcrop-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
