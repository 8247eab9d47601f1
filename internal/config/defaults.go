package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# chlog Configuration
# See 'chlog config -h' for commands, 'chlog config show' for effective values

# Changelog settings
changelog:
  path: CHANGELOG.md     # Changelog file the commands operate on

# Mutation settings
dedupe: false            # Skip entries already present verbatim (add --dedupe default)

# Output settings
output:
  color: auto            # Colored output: auto | always | never
  unicode: true          # Allow unicode symbols when the terminal supports them

# Watch settings
watch:
  debounce_ms: 250       # Quiet window after a burst of file events (0-60000)

# Show settings
show:
  last: 5                # Entries shown by a bare 'chlog show'
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		// changelog.path: the document every command reads and rewrites.
		// Relative paths resolve against the working directory with a git-root fallback.
		"changelog.path": "CHANGELOG.md",
		// dedupe: whether 'chlog add' skips entries that already exist verbatim.
		// Off by default so repeated identical changes stay visible unless opted in.
		"dedupe": false,
		// output: terminal rendering choices.
		"output": map[string]interface{}{
			"color":   "auto", // Colored output only when stdout is a terminal
			"unicode": true,   // Unicode symbols with ASCII fallback
		},
		// watch.debounce_ms: editors save in bursts (temp file + rename), so the
		// watcher waits for a quiet window before re-checking the document.
		"watch": map[string]interface{}{
			"debounce_ms": 250,
		},
		// show.last: number of recent entries a bare 'chlog show' prints.
		"show": map[string]interface{}{
			"last": 5,
		},
	}
}
