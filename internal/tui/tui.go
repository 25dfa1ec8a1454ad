package tui

import (
	"context"
	"time"

	"todolist/internal/logging"
	"todolist/internal/store"
	"todolist/internal/tasklist"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Options struct {
	Logger    *log.Logger
	NoticeTTL time.Duration
	// StateDir holds tui_state.json. Empty disables restoring the selection.
	StateDir string
}

// Run loads the task list from kv and runs the interactive UI until the user
// quits.
func Run(ctx context.Context, kv tasklist.KV, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	var p *tea.Program
	ctrl := tasklist.New(kv,
		tasklist.WithLogger(logger),
		tasklist.WithNoticeTTL(opts.NoticeTTL),
		// The timer only starts after a toggle, which needs a running program.
		tasklist.WithOnAsyncChange(func() { p.Send(noticeClearedMsg{}) }),
	)
	defer ctrl.Close()

	if err := ctrl.Load(ctx); err != nil {
		return err
	}

	uiStore := store.Store{Dir: opts.StateDir}
	uiState, err := uiStore.LoadTUIState()
	if err != nil {
		logger.Warn("tui state not restored", "err", err)
		uiState = &store.TUIState{}
	}

	applyColorProfilePreference()
	m := newAppModel(ctrl, logger)
	m.selectID(uiState.SelectedTaskID)

	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if am, ok := final.(appModel); ok {
		uiState.SelectedTaskID = am.selectedID()
		if serr := uiStore.SaveTUIState(uiState); serr != nil {
			logger.Warn("tui state not saved", "err", serr)
		}
	}
	return err
}
