// Package taskr wires the task domain to persistence and renderers. Store owns
// the collection, Board derives what a renderer displays, and App bundles
// both for commands and the TUI.
package taskr

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskr/internal/core/date"
	"github.com/colonyops/taskr/internal/core/eventbus"
	"github.com/colonyops/taskr/internal/core/kv"
	"github.com/colonyops/taskr/internal/core/task"
)

// TasksKey is the storage key the collection is persisted under.
const TasksKey = "tasks"

// Store is the single owner of the task collection. Every mutation writes
// the whole collection through the slot before it becomes visible, then
// publishes the new collection on the bus.
type Store struct {
	mu    sync.Mutex
	slot  *kv.Slot[task.List]
	tasks task.List
	seed  task.List

	bus   *eventbus.EventBus
	log   zerolog.Logger
	newID func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSeed sets the collection used when nothing usable is stored. Defaults
// to task.Samples().
func WithSeed(seed task.List) StoreOption {
	return func(s *Store) { s.seed = seed.Clone() }
}

// WithBus sets the bus mutations are published on.
func WithBus(bus *eventbus.EventBus) StoreOption {
	return func(s *Store) { s.bus = bus }
}

// WithStoreLogger sets the store's logger.
func WithStoreLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// WithIDFunc overrides id generation.
func WithIDFunc(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// NewStore loads the collection from slot, falling back to the seed.
func NewStore(ctx context.Context, slot *kv.Slot[task.List], opts ...StoreOption) *Store {
	s := &Store{
		slot:  slot,
		seed:  task.Samples(),
		log:   zerolog.Nop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tasks = s.slot.Load(ctx, s.seed.Clone())
	s.warnDuplicates(s.tasks)
	s.log.Debug().Int("tasks", len(s.tasks)).Msg("store loaded")
	return s
}

// Tasks returns a snapshot of the collection.
func (s *Store) Tasks() task.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

// Resolve finds a task by id or unique id prefix. The count is the number of
// tasks ref could name; only a count of 1 yields a task.
func (s *Store) Resolve(ref string) (task.Task, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.ResolvePrefix(ref)
}

// Add appends a new active task. Text is trimmed; blank text is rejected
// with ok false and nothing is written.
func (s *Store) Add(ctx context.Context, text string, due *date.Date) (task.Task, bool, error) {
	t, ok := task.New("", text, due)
	if !ok {
		return task.Task{}, false, nil
	}

	added, err := s.mutate(ctx, eventbus.OpAdd, func(cur task.List) (task.List, *task.Task) {
		t.ID = s.newID()
		return append(cur, t), &t
	})
	if err != nil {
		return task.Task{}, false, fmt.Errorf("add task: %w", err)
	}

	s.log.Debug().Str("id", added.ID).Msg("task added")
	return *added, true, nil
}

// Toggle flips the completion state of the task with id. An unknown id leaves
// the collection unchanged but it is still persisted.
func (s *Store) Toggle(ctx context.Context, id string) (task.Task, bool, error) {
	toggled, err := s.mutate(ctx, eventbus.OpToggle, func(cur task.List) (task.List, *task.Task) {
		i := cur.Index(id)
		if i < 0 {
			return cur, nil
		}
		cur[i] = cur[i].Toggled()
		t := cur[i]
		return cur, &t
	})
	if err != nil {
		return task.Task{}, false, fmt.Errorf("toggle task: %w", err)
	}

	if toggled == nil {
		s.log.Debug().Str("id", id).Msg("toggle: unknown task id")
		return task.Task{}, false, nil
	}
	return *toggled, true, nil
}

// Delete removes the task with id. An unknown id leaves the collection
// unchanged but it is still persisted.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.mutate(ctx, eventbus.OpDelete, func(cur task.List) (task.List, *task.Task) {
		i := cur.Index(id)
		if i < 0 {
			return cur, nil
		}
		t := cur[i]
		return slices.Delete(cur, i, i+1), &t
	})
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}

	if removed == nil {
		s.log.Debug().Str("id", id).Msg("delete: unknown task id")
		return false, nil
	}
	return true, nil
}

// Reload re-reads the collection from storage. It publishes and reports true
// only when the stored collection differs from memory.
func (s *Store) Reload(ctx context.Context) bool {
	s.mu.Lock()
	loaded := s.slot.Load(ctx, s.seed.Clone())
	if loaded.Equal(s.tasks) {
		s.mu.Unlock()
		return false
	}
	s.tasks = loaded
	snapshot := loaded.Clone()
	s.mu.Unlock()

	s.warnDuplicates(snapshot)
	s.log.Debug().Int("tasks", len(snapshot)).Msg("store reloaded")
	s.publish(eventbus.OpReload, nil, snapshot)
	return true
}

// warnDuplicates logs ids that appear more than once in loaded data. The
// tasks are kept as stored; toggle and delete act on the first of them.
func (s *Store) warnDuplicates(l task.List) {
	if dups := l.DuplicateIDs(); len(dups) > 0 {
		s.log.Warn().Strs("ids", dups).Msg("stored tasks repeat ids")
	}
}

// mutate applies fn to a copy of the collection and saves the result. Memory
// is replaced only after the save succeeded. The event is published after
// the lock is released so subscribers may read the store.
func (s *Store) mutate(ctx context.Context, op eventbus.Op, fn func(task.List) (task.List, *task.Task)) (*task.Task, error) {
	s.mu.Lock()
	next, touched := fn(s.tasks.Clone())
	if next == nil {
		next = task.List{}
	}
	if err := s.slot.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.tasks = next
	snapshot := next.Clone()
	s.mu.Unlock()

	s.publish(op, touched, snapshot)
	return touched, nil
}

func (s *Store) publish(op eventbus.Op, t *task.Task, tasks task.List) {
	s.bus.PublishTasksChanged(eventbus.TasksChangedPayload{
		Op:    op,
		Task:  t,
		Tasks: tasks,
	})
}
