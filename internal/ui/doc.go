// Package ui holds the console palette shared by the bootstrap dialogue and
// the relay status lines.
//
// Styles are built against a specific writer through a Lipgloss renderer, so
// output piped to a file or captured in tests stays plain text while an
// interactive terminal gets colour.
package ui
