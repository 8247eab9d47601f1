package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetKey writes a single dotted key into the YAML config file at path,
// preserving all other keys. The file and its parent directory are
// created when absent. The value should already be coerced to the
// key's type (see ConfigKeySchema.CoerceValue).
func SetKey(path, key string, value interface{}) error {
	raw := map[string]interface{}{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Fresh file.
	default:
		return fmt.Errorf("reading %s: %w", path, err)
	}

	setNestedKey(raw, key, value)

	out, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// setNestedKey descends the dotted key path, creating intermediate
// maps as needed, and sets the leaf value. A non-map intermediate
// value is replaced by a map.
func setNestedKey(m map[string]interface{}, key string, value interface{}) {
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := m[part].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			m[part] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
}
