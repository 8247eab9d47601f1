// Package changelog implements parsing, mutation, validation, and
// rendering of Keep a Changelog formatted Markdown documents.
//
// This package implements:
//   - CHANGELOG.md parsing into a structured document model
//   - Markdown generation following Keep a Changelog format
//   - Entry appension and release cutting with precondition checks
//   - Commit message classification into change categories
//   - Structural validation and version/entry querying for CLI display
//
// The document is an explicit value threaded through parse, mutate, and
// render steps; nothing in this package holds file or process state, so
// every operation is testable with text in and text out. File access is
// confined to Load and Save, and Save only replaces the target file with
// a fully rendered document that passed validation.
//
// Format reference: https://keepachangelog.com/en/1.1.0/
package changelog
