package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError reports an invalid configuration file with as much
// position context as the failure carries.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// ValidateYAMLSyntax checks that a YAML config file parses. A missing
// or empty file is fine, the loader falls back to defaults. Syntax
// failures come back as a ValidationError carrying line and column when
// yaml.v3 reports them.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case os.IsNotExist(err):
		return nil
	case os.IsPermission(err):
		return &ValidationError{FilePath: filePath, Message: "permission denied"}
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	err = yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}

	// yaml.TypeError bundles several messages without positions.
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; ")}
	}

	line, column := yamlErrorPosition(err.Error())
	return &ValidationError{
		FilePath: filePath,
		Line:     line,
		Column:   column,
		Message:  stripYAMLPrefix(err.Error()),
	}
}

// ValidateConfigValues checks unmarshaled values against the struct
// constraints. The first violation is reported with its snake_case
// field name.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{
			FilePath: filePath,
			Field:    toSnakeCase(fe.Field()),
			Message:  constraintMessage(fe),
		}
	}

	return &ValidationError{FilePath: filePath, Message: err.Error()}
}

// yamlErrorPosition pulls line and column out of a yaml.v3 error
// message ("yaml: line 5: ..."). Zero values mean no position found.
func yamlErrorPosition(msg string) (int, int) {
	var line, col int
	if n, _ := fmt.Sscanf(msg, "yaml: line %d: column %d:", &line, &col); n == 2 {
		return line, col
	}
	if n, _ := fmt.Sscanf(msg, "yaml: line %d:", &line); n == 1 {
		return line, 1
	}
	return 0, 0
}

// stripYAMLPrefix drops the "yaml: line N:" prefix so the position is
// not repeated in the message.
func stripYAMLPrefix(msg string) string {
	if !strings.HasPrefix(msg, "yaml:") {
		return msg
	}
	if idx := strings.LastIndex(msg, ": "); idx > 0 {
		return msg[idx+2:]
	}
	return msg
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "failed validation: " + fe.Tag()
}

// toSnakeCase converts a CamelCase field name to snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
