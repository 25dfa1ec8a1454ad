package tui

type mode int

const (
	modeNormal mode = iota
	modeAdding
	modeEditing
	modeHelp
)

// noticeClearedMsg is sent by the controller's notice timer.
type noticeClearedMsg struct{}

type flashDoneMsg struct{ seq int }

type flashKind int

const (
	flashInfo flashKind = iota
	flashError
)
