package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskr/internal/core/date"
	"github.com/colonyops/taskr/internal/core/eventbus"
	"github.com/colonyops/taskr/internal/core/kv"
	"github.com/colonyops/taskr/internal/core/task"
	"github.com/colonyops/taskr/internal/data/stores"
	"github.com/colonyops/taskr/internal/taskr"
	"github.com/colonyops/taskr/pkg/tuitest"
)

type flakyKV struct {
	kv.KV
	fail error
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.fail != nil {
		return f.fail
	}
	return f.KV.Set(ctx, key, value)
}

type fixture struct {
	backing *flakyKV
	board   *taskr.Board
	bus     *eventbus.EventBus
}

func newFixture(t *testing.T, storeOpts ...taskr.StoreOption) *fixture {
	t.Helper()

	backing := &flakyKV{KV: stores.NewMemoryKV()}
	bus := eventbus.New()
	slot := kv.NewSlot[task.List](backing, taskr.TasksKey)

	n := 0
	storeOpts = append([]taskr.StoreOption{
		taskr.WithBus(bus),
		taskr.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("tui-%d", n)
		}),
	}, storeOpts...)
	store := taskr.NewStore(context.Background(), slot, storeOpts...)

	d := date.MustParse("2026-02-20")
	clock := func() time.Time { return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.Local) }

	return &fixture{
		backing: backing,
		board:   taskr.NewBoard(store, taskr.WithClock(clock), taskr.WithBoardBus(bus)),
		bus:     bus,
	}
}

func (f *fixture) model(opts Opts) Model {
	return New(context.Background(), Deps{Board: f.board, Bus: f.bus}, opts)
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_InitialView(t *testing.T) {
	m := newFixture(t).model(Opts{ShowHelp: true})

	assert.Len(t, m.Board().Tasks, 8)
	assert.Equal(t, 0, m.Cursor())

	out := tuitest.StripANSI(m.View())
	assert.Contains(t, out, "Tasks")
	assert.Contains(t, out, "5 active · 3 completed · 8 total")
	assert.Contains(t, out, "1 All")
	assert.Contains(t, out, "Update disaster recovery runbook  Feb 15 !")
	assert.Contains(t, out, "Prepare CIO presentation slides  Feb 25")
	assert.Contains(t, out, "[✓] Review Q1 budget proposal")
	assert.Contains(t, out, "quit")
}

func TestModel_HelpHidden(t *testing.T) {
	m := newFixture(t).model(Opts{ShowHelp: false})
	assert.NotContains(t, tuitest.StripANSI(m.View()), "quit")
}

func TestModel_Navigation(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyUp())
	assert.Equal(t, 0, m.Cursor(), "cursor stops at the top")

	m = send(m, tuitest.KeyPress('j'), tuitest.KeyPress('j'))
	assert.Equal(t, 2, m.Cursor())

	m = send(m, tuitest.KeyPress('k'))
	assert.Equal(t, 1, m.Cursor())

	for range 20 {
		m = send(m, tuitest.KeyDown())
	}
	assert.Equal(t, 7, m.Cursor(), "cursor stops at the bottom")
}

func TestModel_Toggle(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyPress(' '))

	assert.False(t, m.Board().Tasks[0].Completed)
	assert.Equal(t, 6, m.Board().Summary.Active)
	assert.Equal(t, `reopened "Review Q1 budget proposal"`, m.Status().Message)

	m = send(m, tuitest.KeyPress('x'))
	assert.True(t, m.Board().Tasks[0].Completed)
	assert.Equal(t, `completed "Review Q1 budget proposal"`, m.Status().Message)
}

func TestModel_Delete(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyDown(), tuitest.KeyPress('d'))

	require.Len(t, m.Board().Tasks, 7)
	assert.Equal(t, "3", m.Board().Tasks[1].ID)
	assert.Equal(t, `deleted "Prepare CIO presentation slides"`, m.Status().Message)
}

func TestModel_DeleteLastRowMovesCursorUp(t *testing.T) {
	m := newFixture(t).model(Opts{})

	for range 7 {
		m = send(m, tuitest.KeyDown())
	}
	m = send(m, tuitest.KeyPress('d'))

	assert.Len(t, m.Board().Tasks, 7)
	assert.Equal(t, 6, m.Cursor())
}

func TestModel_AddTask(t *testing.T) {
	m := newFixture(t).model(Opts{ShowHelp: true})

	m = send(m, tuitest.KeyPress('a'))
	assert.Contains(t, tuitest.StripANSI(m.View()), "New task")

	m = send(m, tuitest.TypeString("Buy milk")...)
	m = send(m, tuitest.KeyEnter())
	assert.Contains(t, tuitest.StripANSI(m.View()), `Due date for "Buy milk"`)

	m = send(m, tuitest.TypeString("2026-03-05")...)
	m = send(m, tuitest.KeyEnter())

	require.Len(t, m.Board().Tasks, 9)
	added := m.Board().Tasks[8]
	assert.Equal(t, "Buy milk", added.Text)
	assert.False(t, added.Completed)
	assert.Equal(t, "Mar 5", added.FormattedDueDate)
	assert.Equal(t, 8, m.Cursor(), "cursor moves to the new task")
	assert.Equal(t, `added "Buy milk"`, m.Status().Message)
	assert.NotContains(t, tuitest.StripANSI(m.View()), "New task")
}

func TestModel_AddWithoutDueDate(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyPress('a'))
	m = send(m, tuitest.TypeString("Call mom")...)
	m = send(m, tuitest.KeyEnter(), tuitest.KeyEnter())

	require.Len(t, m.Board().Tasks, 9)
	assert.Nil(t, m.Board().Tasks[8].DueDate)
}

func TestModel_AddBlankIsNoOp(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyPress('a'))
	m = send(m, tuitest.TypeString("   ")...)
	m = send(m, tuitest.KeyEnter())

	assert.Len(t, m.Board().Tasks, 8)
	assert.Empty(t, m.Status().Message)
	assert.NotContains(t, tuitest.StripANSI(m.View()), "New task")
}

func TestModel_AddInvalidDueDate(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyPress('a'))
	m = send(m, tuitest.TypeString("Pay rent")...)
	m = send(m, tuitest.KeyEnter())
	m = send(m, tuitest.TypeString("tomorrow")...)
	m = send(m, tuitest.KeyEnter())

	assert.Equal(t, eventbus.LevelWarning, m.Status().Level)
	assert.Contains(t, tuitest.StripANSI(m.View()), `Due date for "Pay rent"`, "stays in the due date prompt")
	assert.Len(t, m.Board().Tasks, 8)

	m = send(m, tuitest.KeyEsc())
	assert.Len(t, m.Board().Tasks, 8)
	assert.NotContains(t, tuitest.StripANSI(m.View()), "Due date for")
}

func TestModel_KeysTypedWhileAddingAreText(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyPress('a'))
	m = send(m, tuitest.KeyPress('q'), tuitest.KeyPress('d'), tuitest.KeyEnter(), tuitest.KeyEnter())
	require.Len(t, m.Board().Tasks, 9)
	assert.Equal(t, "qd", m.Board().Tasks[8].Text)
}

func TestModel_Filters(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyTab())
	assert.Equal(t, task.FilterActive, m.Board().Filter)
	assert.Len(t, m.Board().Tasks, 5)
	assert.Equal(t, "showing active tasks", m.Status().Message)

	m = send(m, tuitest.KeyPress('3'))
	assert.Equal(t, task.FilterCompleted, m.Board().Filter)
	assert.Len(t, m.Board().Tasks, 3)
	assert.Equal(t, 8, m.Board().Summary.Total, "summary ignores the filter")

	m = send(m, tuitest.KeyPress('f'))
	assert.Equal(t, task.FilterAll, m.Board().Filter)

	m = send(m, tuitest.KeyPress('2'))
	assert.Equal(t, task.FilterActive, m.Board().Filter)
}

func TestModel_FilterClampsCursor(t *testing.T) {
	m := newFixture(t).model(Opts{})

	for range 7 {
		m = send(m, tuitest.KeyDown())
	}
	m = send(m, tuitest.KeyPress('3'))

	assert.Equal(t, 2, m.Cursor())
}

func TestModel_ToggleOutOfFilterView(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyPress('2'), tuitest.KeyPress(' '))

	assert.Len(t, m.Board().Tasks, 4, "completed task leaves the active view")
	assert.Equal(t, 4, m.Board().Summary.Completed)
}

func TestModel_EmptyStates(t *testing.T) {
	m := newFixture(t, taskr.WithSeed(task.List{})).model(Opts{})
	assert.Contains(t, tuitest.StripANSI(m.View()), "No tasks yet")

	// nothing to act on
	m = send(m, tuitest.KeyPress(' '), tuitest.KeyPress('d'))
	assert.Empty(t, m.Board().Tasks)

	m = send(m, tuitest.KeyPress('3'))
	assert.Contains(t, tuitest.StripANSI(m.View()), "No completed tasks.")
}

func TestModel_DiskChangeReloads(t *testing.T) {
	f := newFixture(t)
	m := f.model(Opts{})

	other := taskr.NewStore(context.Background(), kv.NewSlot[task.List](f.backing, taskr.TasksKey))
	_, _, err := other.Add(context.Background(), "Written elsewhere", nil)
	require.NoError(t, err)

	m = send(m, diskChangeMsg{key: taskr.TasksKey})

	require.Len(t, m.Board().Tasks, 9)
	assert.Equal(t, "Written elsewhere", m.Board().Tasks[8].Text)
	assert.Equal(t, "tasks reloaded from disk", m.Status().Message)
}

func TestModel_DiskChangeOtherKeyIgnored(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, diskChangeMsg{key: "unrelated"})

	assert.Len(t, m.Board().Tasks, 8)
	assert.Empty(t, m.Status().Message)
}

func TestModel_WaitForChange(t *testing.T) {
	assert.Nil(t, waitForChange(nil))

	ch := make(chan string, 1)
	ch <- taskr.TasksKey
	assert.Equal(t, diskChangeMsg{key: taskr.TasksKey}, waitForChange(ch)())

	close(ch)
	assert.Nil(t, waitForChange(ch)())
}

func TestModel_StatusExpires(t *testing.T) {
	m := newFixture(t).model(Opts{})

	m = send(m, tuitest.KeyPress(' '))
	first := m.statusSeq
	m = send(m, tuitest.KeyPress(' '))

	m = send(m, clearStatusMsg{seq: first})
	assert.NotEmpty(t, m.Status().Message, "a stale timer must not clear a newer status")

	m = send(m, clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.Status().Message)
}

func TestModel_SaveFailure(t *testing.T) {
	f := newFixture(t)
	m := f.model(Opts{})
	f.backing.fail = errors.New("disk full")

	m = send(m, tuitest.KeyPress(' '))

	assert.Equal(t, eventbus.LevelWarning, m.Status().Level)
	assert.Contains(t, m.Status().Message, "toggle failed")
	assert.True(t, m.Board().Tasks[0].Completed, "memory unchanged when the write fails")
}

func TestModel_Quit(t *testing.T) {
	m := newFixture(t).model(Opts{})

	_, cmd := m.Update(tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_WindowSize(t *testing.T) {
	m := newFixture(t).model(Opts{})
	m = send(m, tuitest.WindowSize(100, 40))

	assert.Equal(t, 100, m.width)
	assert.Equal(t, 100, m.help.Width)
}
