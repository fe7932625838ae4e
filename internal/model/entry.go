package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Task is one immutable contribution line inside an entry. Descriptions are
// always non-empty after trimming; parsers discard blank ones before they
// reach this type.
type Task struct {
	Description string
}

// Present renders the task as a single bullet line.
func (t Task) Present() string {
	return "- " + t.Description
}

// DraftEntry is the in-progress record for one submission. It is owned
// exclusively by a single conversation session and mutated only by the state
// machine: hours backfill fills Hours, an accepted edit replaces Tasks and
// Hours wholesale.
type DraftEntry struct {
	OwnerID          int64
	OwnerDisplayName string
	GroupID          int64
	GroupLabel       string
	Hours            *float64 // nil until extracted or backfilled; > 0 once set
	Tasks            []Task
	CreatedAt        time.Time
}

// Complete reports whether the draft can be offered for confirmation.
func (d *DraftEntry) Complete() bool {
	return d != nil && d.Hours != nil && *d.Hours > 0 && len(d.Tasks) > 0
}

// Present renders the full confirmation / broadcast view of the draft.
func (d *DraftEntry) Present() string {
	return fmt.Sprintf("*Contributor:* %s\n*Date*: %s\n\n%s",
		d.OwnerDisplayName,
		d.CreatedAt.Format("2006-01-02 15:04:05"),
		d.PresentForEditing(),
	)
}

// PresentForEditing renders the user-reproducible edit template. The editor
// parser accepts exactly this block back.
func (d *DraftEntry) PresentForEditing() string {
	var sb strings.Builder
	sb.WriteString("*Contributions*\n")
	for _, task := range d.Tasks {
		sb.WriteString(task.Present())
		sb.WriteString("\n")
	}
	sb.WriteString("\n*Hours*: ")
	sb.WriteString(FormatHours(d.HoursValue()))
	sb.WriteString(" hours")
	return sb.String()
}

// HoursValue returns the hours or 0 when still unset.
func (d *DraftEntry) HoursValue() float64 {
	if d.Hours == nil {
		return 0
	}
	return *d.Hours
}

// Entry is a persisted energy accounting record.
type Entry struct {
	ID               string
	OwnerID          int64
	OwnerDisplayName string
	GroupID          int64
	GroupLabel       string
	Hours            float64
	Tasks            []Task
	CreatedAt        time.Time
}

// FormatHours renders an hours value the way the templates expect: no
// exponent, no trailing zeros beyond what the value carries.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
