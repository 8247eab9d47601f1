package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeEnum
)

var typeNames = [...]string{
	TypeBool:   "bool",
	TypeInt:    "int",
	TypeString: "string",
	TypeEnum:   "enum",
}

func (t ConfigValueType) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// ConfigKeySchema describes one known configuration key: the type its
// values must coerce to, the enum choices when applicable, and the help
// text and default surfaced by 'config show'.
type ConfigKeySchema struct {
	Path          string
	Type          ConfigValueType
	AllowedValues []string // Enum choices, empty for other types
	Description   string
	Default       interface{}
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"changelog.path": {
		Path:        "changelog.path",
		Type:        TypeString,
		Description: "Changelog file the commands operate on",
		Default:     "CHANGELOG.md",
	},
	"dedupe": {
		Path:        "dedupe",
		Type:        TypeBool,
		Description: "Skip entries already present verbatim when adding",
		Default:     false,
	},
	"output.color": {
		Path:          "output.color",
		Type:          TypeEnum,
		AllowedValues: []string{"auto", "always", "never"},
		Description:   "Colored output mode",
		Default:       "auto",
	},
	"output.unicode": {
		Path:        "output.unicode",
		Type:        TypeBool,
		Description: "Allow unicode symbols when the terminal supports them",
		Default:     true,
	},
	"watch.debounce_ms": {
		Path:        "watch.debounce_ms",
		Type:        TypeInt,
		Description: "Quiet window in milliseconds after a burst of file events",
		Default:     250,
	},
	"show.last": {
		Path:        "show.last",
		Type:        TypeInt,
		Description: "Entries shown by a bare 'chlog show'",
		Default:     5,
	},
}

// KeyOrder returns the known key paths in stable sorted order,
// used for deterministic 'config show' output.
func KeyOrder() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	if schema, ok := KnownKeys[path]; ok {
		return schema, nil
	}
	return ConfigKeySchema{}, ErrUnknownKey{Key: path}
}

// CoerceValue converts a raw string into the key's typed value,
// validating enums against their allowed values.
func (s ConfigKeySchema) CoerceValue(raw string) (interface{}, error) {
	switch s.Type {
	case TypeBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q for %s (use true or false)", raw, s.Path)
		}
		return v, nil
	case TypeInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q for %s", raw, s.Path)
		}
		return v, nil
	case TypeEnum:
		if slices.Contains(s.AllowedValues, raw) {
			return raw, nil
		}
		return nil, fmt.Errorf("invalid value %q for %s (valid options: %s)",
			raw, s.Path, strings.Join(s.AllowedValues, ", "))
	default:
		return raw, nil
	}
}
