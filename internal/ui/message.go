package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotdash/internal/dashboard"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgViewBuilt MsgKind = iota
	MsgProgressUpdate
)

type viewBuilt struct {
	view *dashboard.View
	err  error
}

// viewBuiltMsg is the constructor for [MsgViewBuilt]
func viewBuiltMsg(view *dashboard.View, err error) Msg {
	return Msg{kind: MsgViewBuilt, data: viewBuilt{view, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update dashboard.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}
