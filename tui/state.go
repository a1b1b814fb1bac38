package tui

type state int

const (
	monitorState state = iota
	errorState
)
