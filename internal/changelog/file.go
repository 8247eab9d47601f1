package changelog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load reads and parses a changelog file from the given path.
// Returns the parsed Document or an error with context.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog file: %w", err)
	}

	return Parse(string(data))
}

// LoadFromReader reads and parses a changelog from an io.Reader.
// This is useful for testing and for loading from embedded content.
func LoadFromReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	return Parse(string(data))
}

// Save validates, renders, and writes the document to path. The write
// is atomic (temp file + rename), so the on-disk file is only ever
// replaced by a complete, structurally valid document. A document that
// fails validation is rejected with a ValidationError and the file is
// left untouched.
func Save(path string, doc *Document) error {
	if issues := Validate(doc); len(issues) > 0 {
		msg := issues[0].String()
		if len(issues) > 1 {
			msg = fmt.Sprintf("%s (and %d more issues)", msg, len(issues)-1)
		}
		return &ValidationError{Field: "document", Message: msg}
	}

	rendered, err := RenderMarkdownString(doc)
	if err != nil {
		return fmt.Errorf("rendering changelog: %w", err)
	}

	if err := atomicWriteFile(path, []byte(rendered)); err != nil {
		return fmt.Errorf("writing changelog file: %w", err)
	}

	return nil
}

// atomicWriteFile writes data to path using the temp file + rename
// pattern. Ensures no partial writes occur on crash.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Best effort cleanup
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
