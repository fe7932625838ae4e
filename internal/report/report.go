// Package report aggregates a group's entries over a reporting interval into
// the weekly summary that gets broadcast to the group.
package report

import (
	"fmt"
	"strings"

	"energy-accounting-bot/internal/model"
)

// contributorSummary is one user's aggregated line in the report.
type contributorSummary struct {
	displayName string
	tasks       []model.Task
	totalHours  float64
}

// Report groups a slice of entries by contributor. Entries are already
// scoped to a single group by the repository query.
type Report struct {
	contributors []contributorSummary
}

// FromEntries builds a report, preserving first-appearance order of
// contributors and entry order of their tasks.
func FromEntries(entries []model.Entry) Report {
	var r Report
	index := make(map[int64]int)
	for _, e := range entries {
		i, ok := index[e.OwnerID]
		if !ok {
			i = len(r.contributors)
			index[e.OwnerID] = i
			r.contributors = append(r.contributors, contributorSummary{displayName: e.OwnerDisplayName})
		}
		r.contributors[i].tasks = append(r.contributors[i].tasks, e.Tasks...)
		r.contributors[i].totalHours += e.Hours
	}
	return r
}

// Empty reports whether nothing was logged in the interval.
func (r Report) Empty() bool {
	return len(r.contributors) == 0
}

// Present renders the full weekly announcement.
func (r Report) Present() string {
	rows := make([]string, 0, len(r.contributors))
	for _, c := range r.contributors {
		taskLines := make([]string, 0, len(c.tasks))
		for _, task := range c.tasks {
			taskLines = append(taskLines, task.Present())
		}
		rows = append(rows, fmt.Sprintf("*Contributor*: %s\n*Contributions*\n%s\n*Hours*: %s hours",
			c.displayName, strings.Join(taskLines, "\n"), model.FormatHours(c.totalHours)))
	}

	return fmt.Sprintf(`It's been another week! Here's what all of us managed to get done:

%s

Congratulations on the good work all around!
`, strings.Join(rows, "\n\n"))
}
