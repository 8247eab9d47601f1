package changelog

import (
	_ "embed"
	"errors"
)

// chlog ships its own changelog inside the binary so 'chlog show --self'
// works from any directory.
//
//go:embed changelog.md
var selfChangelog []byte

// Embedded returns the raw changelog.md content compiled into the binary.
func Embedded() []byte {
	return selfChangelog
}

// LoadEmbedded parses the changelog compiled into the binary.
func LoadEmbedded() (*Document, error) {
	if len(selfChangelog) == 0 {
		return nil, errors.New("no changelog was embedded at build time")
	}
	return Parse(string(selfChangelog))
}
