package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Command identifies the kind of open action attached to an object.
type Command string

const (
	// CommandPath changes the current base directory.
	CommandPath Command = "path"
	// CommandPlugin invokes an external handler through the plugin host.
	// The descriptor files use the historical name "python".
	CommandPlugin Command = "python"
	// CommandShell runs a script as a detached process.
	CommandShell Command = "shell"
)

// OpenAction describes what happens when an object is activated.
// Arg0 is always interpreted relative to the base directory current at
// dispatch time, never resolved at load time.
type OpenAction struct {
	Command Command `json:"command"`
	Arg0    string  `json:"arg0"`
}

// Object is one entry in the launchable tree, parsed from a descriptor file.
// An object without an OpenAction is browsable only, never launchable.
// Objects are immutable once loaded; a base change discards and re-parses.
type Object struct {
	Title      string      `json:"title"`
	Icon       string      `json:"icon,omitempty"`
	Details    string      `json:"details,omitempty"`
	OpenAction *OpenAction `json:"openaction,omitempty"`

	// Source is the absolute path of the descriptor file this object was
	// parsed from. Not part of the file format.
	Source string `json:"-"`
}

// Launchable reports whether activating the object does anything.
func (o *Object) Launchable() bool {
	return o.OpenAction != nil && o.OpenAction.Arg0 != ""
}

// Load parses a single descriptor file. The top level must be a JSON
// object; unknown fields are ignored. A missing title falls back to the
// filename stem.
func Load(path string) (*Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	// json.Unmarshal accepts a bare "null" without complaint; only an
	// object top level is a valid descriptor.
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("descriptor %s: top level is not an object", filepath.Base(path))
	}

	var obj Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", filepath.Base(path), err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	obj.Source = abs

	if obj.Title == "" {
		obj.Title = stem(path)
	}
	return &obj, nil
}

// stem returns the filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
