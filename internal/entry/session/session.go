// Package session holds the per-chat conversation state between events.
package session

import "energy-accounting-bot/internal/model"

// State enumerates where in the entry-construction flow a conversation is.
// There is no stored "terminated" state: terminal transitions clear the
// session instead, so an absent session is the terminated state.
type State int

const (
	StateAwaitingGroupSelection State = iota
	StateAwaitingRawInput
	StateAwaitingHoursInput
	StateConfirmOrEdit
	StateEditingRaw
)

// String names states for logs.
func (s State) String() string {
	switch s {
	case StateAwaitingGroupSelection:
		return "awaiting_group_selection"
	case StateAwaitingRawInput:
		return "awaiting_raw_input"
	case StateAwaitingHoursInput:
		return "awaiting_hours_input"
	case StateConfirmOrEdit:
		return "confirm_or_edit"
	case StateEditingRaw:
		return "editing_raw"
	default:
		return "unknown"
	}
}

// Session is the scratch space for one chat's in-progress submission. Which
// fields are set depends on the state: Candidates only exists during group
// selection, Group is bound from selection onward, Draft from the first
// successful extraction onward. The state machine is the only writer.
type Session struct {
	State      State
	Group      model.Group
	GroupBound bool
	Draft      *model.DraftEntry
	Candidates model.SelectableGroups
}
