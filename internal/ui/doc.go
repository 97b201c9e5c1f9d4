// Package ui renders the dashboard in the terminal.
//
// [RenderReport] produces a static report with lipgloss tables and horizontal feature bars.
//
// The interactive TUI is a bubbletea (Elm architecture) [Model] with two tabs:
//  1. [FeaturesView] : audio features of the top tracks plus per-feature mean and deviation
//  2. [RecommendationsView] : recommended tracks with artist, album and public URL
//
// Pressing r rebuilds the whole view; nothing is cached between builds. While a build runs, the
// [LoadingView] shows a spinner and the pipeline's progress updates, which flow through a channel
// from the builder exactly like any other message.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, r, q); ? expands the help displayed via charmbracelet/bubbles/help.
package ui
