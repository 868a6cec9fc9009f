package task

import "github.com/colonyops/taskr/internal/core/date"

// Samples returns the collection a first run is seeded with: five active and
// three completed tasks.
func Samples() List {
	due := func(s string) *date.Date { return date.MustParse(s).Ptr() }

	return List{
		{ID: "1", Text: "Review Q1 budget proposal", Completed: true, DueDate: due("2026-02-20")},
		{ID: "2", Text: "Prepare CIO presentation slides", DueDate: due("2026-02-25")},
		{ID: "3", Text: "Migrate legacy auth service to OAuth 2.0", DueDate: due("2026-03-10")},
		{ID: "4", Text: "Schedule vendor security audit", Completed: true, DueDate: due("2026-02-18")},
		{ID: "5", Text: "Update disaster recovery runbook", DueDate: due("2026-02-15")},
		{ID: "6", Text: "Deploy monitoring dashboards to prod", Completed: true},
		{ID: "7", Text: "Draft API deprecation timeline", DueDate: due("2026-03-01")},
		{ID: "8", Text: "Onboard new DevOps engineer"},
	}
}
