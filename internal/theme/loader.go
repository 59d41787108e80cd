package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Ext is the file extension of theme files in the search directories.
const Ext = ".theme"

// Loader resolves theme names against the built-in themes and a list of
// directories searched in order.
type Loader struct {
	Dirs []string
}

// NewLoader searches $XDG_CONFIG_HOME/pinchcrop/themes (or
// ~/.config/pinchcrop/themes) and then /usr/share/pinchcrop/themes.
func NewLoader() *Loader {
	var dirs []string
	if base, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(base, "pinchcrop", "themes"))
	}
	dirs = append(dirs, "/usr/share/pinchcrop/themes")
	return &Loader{Dirs: dirs}
}

// Load resolves name as an existing file path, then a built-in theme, then
// <name>.theme in each search directory.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return loadFile(name)
	}
	if t, ok := Builtin(name); ok {
		return t, nil
	}
	if path, ok := l.find(name); ok {
		return loadFile(path)
	}
	return nil, fmt.Errorf("theme '%s' not found", name)
}

func (l *Loader) find(name string) (string, bool) {
	filename := name
	if !strings.HasSuffix(filename, Ext) {
		filename += Ext
	}
	for _, dir := range l.Dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Available lists the built-in theme names followed by the theme files found
// in the search directories, sorted and without duplicates.
func (l *Loader) Available() []string {
	names := []string{"default", "light"}
	var found []string
	for _, dir := range l.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if n, ok := strings.CutSuffix(e.Name(), Ext); ok && !e.IsDir() {
				found = append(found, n)
			}
		}
	}
	slices.Sort(found)
	for _, n := range slices.Compact(found) {
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return names
}

func loadFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
