// Package build carries the version stamp injected at link time. It
// imports nothing from the rest of the module so any package can read it.
package build

// Overridden via -ldflags "-X github.com/ariel-frischer/chlog/internal/build.Version=..."
// and friends; a plain 'go build' produces a dev binary.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild reports whether the binary was built without a version stamp.
func IsDevBuild() bool {
	return Version == "dev"
}
