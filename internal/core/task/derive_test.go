package task

import (
	"testing"

	"github.com/colonyops/taskr/internal/core/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterTasks(t *testing.T) {
	tasks := Samples()

	tests := []struct {
		filter Filter
		want   []string
	}{
		{filter: FilterAll, want: []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{filter: FilterActive, want: []string{"2", "3", "5", "7", "8"}},
		{filter: FilterCompleted, want: []string{"1", "4", "6"}},
		{filter: Filter("done"), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := FilterTasks(tasks, tt.filter)
			assert.Equal(t, tt.want, got.IDs())
		})
	}
}

func TestFilterTasks_Pure(t *testing.T) {
	tasks := Samples()
	before := tasks.Clone()

	first := FilterTasks(tasks, FilterActive)
	second := FilterTasks(tasks, FilterActive)
	assert.True(t, first.Equal(second))
	assert.True(t, tasks.Equal(before), "input must not change")

	first[0].Completed = true
	assert.False(t, tasks[1].Completed, "result must not alias input")
}

func TestFilterTasks_Empty(t *testing.T) {
	got := FilterTasks(nil, FilterAll)
	assert.Empty(t, got)
}

func TestCounts(t *testing.T) {
	tests := []struct {
		name  string
		tasks List
		want  Summary
	}{
		{name: "empty", tasks: nil, want: Summary{}},
		{name: "samples", tasks: Samples(), want: Summary{Active: 5, Completed: 3, Total: 8}},
		{name: "all done", tasks: List{{ID: "a", Completed: true}, {ID: "b", Completed: true}}, want: Summary{Completed: 2, Total: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.tasks)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Total, got.Active+got.Completed)
			assert.Equal(t, tt.want.Active, CountActive(tt.tasks))
			assert.Equal(t, tt.want.Completed, CountCompleted(tt.tasks))
			assert.Equal(t, tt.want.Total, CountTotal(tt.tasks))
		})
	}
}

func TestSummary_String(t *testing.T) {
	assert.Equal(t, "5 active · 3 completed · 8 total", Summarize(Samples()).String())
}

func TestIsOverdue(t *testing.T) {
	due := date.MustParse("2026-02-15").Ptr()

	tests := []struct {
		name      string
		due       *date.Date
		completed bool
		today     string
		want      bool
	}{
		{name: "past and active", due: due, today: "2026-02-16", want: true},
		{name: "long past", due: due, today: "2026-10-18", want: true},
		{name: "past but completed", due: due, completed: true, today: "2026-10-18", want: false},
		{name: "due today", due: due, today: "2026-02-15", want: false},
		{name: "future", due: due, today: "2026-02-01", want: false},
		{name: "no due date", due: nil, today: "2026-10-18", want: false},
		{name: "no due date completed", due: nil, completed: true, today: "2026-10-18", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsOverdue(tt.due, tt.completed, date.MustParse(tt.today))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDueDate(t *testing.T) {
	assert.Equal(t, "", FormatDueDate(nil))
	assert.Equal(t, "Feb 25", FormatDueDate(date.MustParse("2026-02-25").Ptr()))
	assert.Equal(t, "Mar 10", FormatDueDate(date.MustParse("2026-03-10").Ptr()))
}

func TestFilter_Parse(t *testing.T) {
	tests := []struct {
		input   string
		want    Filter
		wantErr bool
	}{
		{input: "all", want: FilterAll},
		{input: "Active", want: FilterActive},
		{input: " COMPLETED ", want: FilterCompleted},
		{input: "done", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFilter(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_LabelAndNext(t *testing.T) {
	assert.Equal(t, "All", FilterAll.Label())
	assert.Equal(t, "Completed", FilterCompleted.Label())

	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterActive.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
	assert.Equal(t, FilterAll, Filter("bogus").Next())
}

func TestSelection(t *testing.T) {
	var s Selection
	assert.Equal(t, FilterAll, s.Current())

	require.NoError(t, s.Set(FilterCompleted))
	assert.Equal(t, FilterCompleted, s.Current())

	err := s.Set(Filter("done"))
	require.ErrorIs(t, err, ErrInvalidFilter)
	assert.Equal(t, FilterCompleted, s.Current(), "invalid value keeps previous selection")

	assert.Equal(t, FilterAll, s.Cycle())
	assert.Equal(t, FilterActive, s.Cycle())
}
