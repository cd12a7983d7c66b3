// Package ui holds the terminal styling used by the CLI.
//
// [Palette] wraps named lipgloss styles; [ProgressLine] renders engine progress updates as status lines
// while a summary or playlist run is in flight.
package ui
