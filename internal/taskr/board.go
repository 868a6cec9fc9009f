package taskr

import (
	"context"
	"sync"
	"time"

	"github.com/colonyops/taskr/internal/core/date"
	"github.com/colonyops/taskr/internal/core/eventbus"
	"github.com/colonyops/taskr/internal/core/task"
)

// TaskView is one row as a renderer shows it.
type TaskView struct {
	ID               string     `json:"id"`
	Text             string     `json:"text"`
	Completed        bool       `json:"completed"`
	DueDate          *date.Date `json:"dueDate"`
	Overdue          bool       `json:"overdue"`
	FormattedDueDate string     `json:"formattedDueDate"`
}

// BoardView is everything a renderer needs for one frame. Summary always
// covers the whole collection regardless of Filter.
type BoardView struct {
	Tasks   []TaskView   `json:"tasks"`
	Summary task.Summary `json:"summary"`
	Filter  task.Filter  `json:"filter"`
}

// Board combines the store with the filter selection and a clock.
type Board struct {
	store *Store
	bus   *eventbus.EventBus
	now   func() time.Time

	mu  sync.Mutex
	sel task.Selection
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithClock sets the clock used to decide which tasks are overdue.
func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) { b.now = now }
}

// WithBoardBus sets the bus filter changes are published on.
func WithBoardBus(bus *eventbus.EventBus) BoardOption {
	return func(b *Board) { b.bus = bus }
}

// NewBoard creates a Board over store showing all tasks.
func NewBoard(store *Store, opts ...BoardOption) *Board {
	b := &Board{store: store, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Store returns the underlying store.
func (b *Board) Store() *Store {
	return b.store
}

// View derives the current frame.
func (b *Board) View() BoardView {
	tasks := b.store.Tasks()
	filter := b.Filter()
	return Render(tasks, filter, date.Today(b.now))
}

// Render derives a frame from tasks without touching any state.
func Render(tasks task.List, filter task.Filter, today date.Date) BoardView {
	visible := task.FilterTasks(tasks, filter)
	rows := make([]TaskView, 0, len(visible))
	for _, t := range visible {
		rows = append(rows, TaskView{
			ID:               t.ID,
			Text:             t.Text,
			Completed:        t.Completed,
			DueDate:          t.DueDate,
			Overdue:          task.IsOverdue(t.DueDate, t.Completed, today),
			FormattedDueDate: task.FormatDueDate(t.DueDate),
		})
	}

	return BoardView{
		Tasks:   rows,
		Summary: task.Summarize(tasks),
		Filter:  filter,
	}
}

// Add creates a task. See Store.Add.
func (b *Board) Add(ctx context.Context, text string, due *date.Date) (task.Task, bool, error) {
	return b.store.Add(ctx, text, due)
}

// Toggle flips a task. See Store.Toggle.
func (b *Board) Toggle(ctx context.Context, id string) (task.Task, bool, error) {
	return b.store.Toggle(ctx, id)
}

// Delete removes a task. See Store.Delete.
func (b *Board) Delete(ctx context.Context, id string) (bool, error) {
	return b.store.Delete(ctx, id)
}

// Filter returns the selected filter.
func (b *Board) Filter() task.Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sel.Current()
}

// SetFilter parses and selects a filter. Invalid input returns an error
// wrapping task.ErrInvalidFilter and keeps the previous selection.
func (b *Board) SetFilter(s string) error {
	f, err := task.ParseFilter(s)
	if err != nil {
		return err
	}
	return b.selectFilter(func(sel *task.Selection) error { return sel.Set(f) })
}

// CycleFilter advances to the next filter and returns it.
func (b *Board) CycleFilter() task.Filter {
	_ = b.selectFilter(func(sel *task.Selection) error {
		sel.Cycle()
		return nil
	})
	return b.Filter()
}

func (b *Board) selectFilter(fn func(*task.Selection) error) error {
	b.mu.Lock()
	before := b.sel.Current()
	if err := fn(&b.sel); err != nil {
		b.mu.Unlock()
		return err
	}
	after := b.sel.Current()
	b.mu.Unlock()

	if after != before {
		b.bus.PublishFilterChanged(eventbus.FilterChangedPayload{Filter: after})
	}
	return nil
}
