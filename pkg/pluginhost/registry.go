package pluginhost

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// registryFile is the on-disk shape of the administrator's handler
// table: stable identifiers mapped to handler binaries. Descriptors may
// name a registered identifier instead of a path, which keeps handler
// locations under administrator control.
type registryFile struct {
	Handlers map[string]string `yaml:"handlers"`
}

// LoadRegistry reads a handlers.yaml manifest. A missing file is an
// empty registry, not an error.
func LoadRegistry(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read handler registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse handler registry: %w", err)
	}

	// Relative binary paths are relative to the manifest itself.
	dir := filepath.Dir(path)
	handlers := make(map[string]string, len(file.Handlers))
	for id, bin := range file.Handlers {
		if !filepath.IsAbs(bin) {
			bin = filepath.Join(dir, bin)
		}
		handlers[id] = bin
	}
	return handlers, nil
}
