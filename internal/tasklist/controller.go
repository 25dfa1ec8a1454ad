package tasklist

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"todolist/internal/model"

	"github.com/charmbracelet/log"
)

// DefaultNoticeTTL is how long the completion notice stays visible.
const DefaultNoticeTTL = 2000 * time.Millisecond

// KV is the persistence capability the controller writes through.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Controller owns the task list state and is the only writer of the persisted
// keys. Methods are safe for concurrent use; the notice timer is the only
// writer besides the caller.
type Controller struct {
	mu sync.Mutex

	kv        KV
	logger    *log.Logger
	scheduler Scheduler
	noticeTTL time.Duration
	newID     func() string
	onAsync   func()

	state State
	timer Timer
}

type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

func WithNoticeTTL(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.noticeTTL = d
		}
	}
}

func WithIDGenerator(f func() string) Option {
	return func(c *Controller) {
		if f != nil {
			c.newID = f
		}
	}
}

// WithOnAsyncChange registers f to run after the notice timer changes the state.
// f runs on the timer goroutine without the controller lock held.
func WithOnAsyncChange(f func()) Option {
	return func(c *Controller) { c.onAsync = f }
}

func New(kv KV, opts ...Option) *Controller {
	c := &Controller{
		kv:        kv,
		logger:    log.New(io.Discard),
		scheduler: realScheduler{},
		noticeTTL: DefaultNoticeTTL,
		newID:     NewTaskID,
		state:     NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the in-memory state with the persisted one. Invalid task data
// is logged and loads as an empty collection; only adapter read errors are
// returned. Tasks stored without ids are given ids and written back; a failed
// write back is logged and retried by the next mutation.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := NewState()
	next.Filter = c.state.Filter

	theme, ok, err := c.kv.Get(ctx, KeyTheme)
	if err != nil {
		return err
	}
	if ok {
		next.Dark = DecodeTheme(theme)
	}

	raw, ok, err := c.kv.Get(ctx, KeyTasks)
	if err != nil {
		return err
	}
	migrated := false
	if ok {
		tasks, err := DecodeTasks(raw)
		if err != nil {
			c.logger.Warn("ignoring stored tasks", "err", err)
		} else {
			migrated = assignMissingIDs(tasks, c.newID)
			next.Tasks = tasks
		}
	}

	c.state = next
	if migrated {
		c.logger.Info("assigned ids to stored tasks", "count", len(next.Tasks))
		if err := c.persistTasksLocked(ctx); err != nil {
			c.logger.Warn("task ids not saved", "err", err)
		}
	}
	return nil
}

// Dispatch applies a and persists what it changed. A *PersistError means the
// transition happened but could not be saved.
func (c *Controller) Dispatch(ctx context.Context, a Action) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if add, ok := a.(Add); ok && (add.ID == "" || idExists(c.state.Tasks, add.ID)) {
		add.ID = uniqueID(c.state.Tasks, c.newID)
		a = add
	}

	prev := c.state
	next, err := Reduce(prev, a)
	if err != nil {
		return prev.clone(), err
	}
	c.state = next

	switch a.(type) {
	case Add:
		if len(next.Tasks) != len(prev.Tasks) {
			err = c.persistTasksLocked(ctx)
		}
	case ToggleComplete:
		err = c.persistTasksLocked(ctx)
		c.scheduleNoticeClearLocked(next.Notice.Seq)
	case Delete, StartEditing, SaveTask:
		err = c.persistTasksLocked(ctx)
	case ToggleTheme, SetTheme:
		err = c.persistThemeLocked(ctx)
	}
	return next.clone(), err
}

func (c *Controller) persistTasksLocked(ctx context.Context) error {
	raw, err := EncodeTasks(c.state.Tasks)
	if err == nil {
		err = c.kv.Set(ctx, KeyTasks, raw)
	}
	if err != nil {
		c.logger.Error("persist tasks", "err", err)
		return &PersistError{Key: KeyTasks, Err: err}
	}
	return nil
}

func (c *Controller) persistThemeLocked(ctx context.Context) error {
	if err := c.kv.Set(ctx, KeyTheme, EncodeTheme(c.state.Dark)); err != nil {
		c.logger.Error("persist theme", "err", err)
		return &PersistError{Key: KeyTheme, Err: err}
	}
	return nil
}

// scheduleNoticeClearLocked keeps at most one pending clear.
func (c *Controller) scheduleNoticeClearLocked(seq int) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.scheduler.AfterFunc(c.noticeTTL, func() { c.expireNotice(seq) })
}

func (c *Controller) expireNotice(seq int) {
	c.mu.Lock()
	prev := c.state.Notice
	c.state, _ = Reduce(c.state, ClearNotice{Seq: seq})
	changed := c.state.Notice != prev
	hook := c.onAsync
	c.mu.Unlock()

	if changed {
		c.logger.Debug("notice cleared", "seq", seq)
		if hook != nil {
			hook()
		}
	}
}

// Close stops the pending notice timer, if any.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) Add(ctx context.Context, text string) (model.Task, bool, error) {
	before := c.Snapshot()
	st, err := c.Dispatch(ctx, Add{Text: text})
	if len(st.Tasks) == len(before.Tasks) {
		return model.Task{}, false, err
	}
	return st.Tasks[len(st.Tasks)-1], true, err
}

func (c *Controller) ToggleComplete(ctx context.Context, index int) error {
	_, err := c.Dispatch(ctx, ToggleComplete{Index: index})
	return err
}

func (c *Controller) Delete(ctx context.Context, index int) error {
	_, err := c.Dispatch(ctx, Delete{Index: index})
	return err
}

func (c *Controller) StartEditing(ctx context.Context, index int) error {
	_, err := c.Dispatch(ctx, StartEditing{Index: index})
	return err
}

func (c *Controller) SaveTask(ctx context.Context, index int, text string) error {
	_, err := c.Dispatch(ctx, SaveTask{Index: index, Text: text})
	return err
}

func (c *Controller) SetFilter(f model.Filter) error {
	_, err := c.Dispatch(context.Background(), SetFilter{Filter: f})
	return err
}

func (c *Controller) ToggleTheme(ctx context.Context) (bool, error) {
	st, err := c.Dispatch(ctx, ToggleTheme{})
	return st.Dark, err
}

func (c *Controller) SetTheme(ctx context.Context, dark bool) error {
	_, err := c.Dispatch(ctx, SetTheme{Dark: dark})
	return err
}

func (c *Controller) FilteredView(f model.Filter) []model.Task {
	return c.Snapshot().Filtered(f)
}

// Notice returns the current notice text, or "" when none is showing.
func (c *Controller) Notice() string {
	return c.Snapshot().Notice.Text
}

// Resolve maps a task reference to a position; see State.Resolve.
func (c *Controller) Resolve(ref string) (int, error) {
	return c.Snapshot().Resolve(ref)
}

// IsPersistError reports whether err only failed to save.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
