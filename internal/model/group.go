package model

import "sort"

// Group is one Telegram group the bot may broadcast completed entries to.
// ThreadID selects the supergroup topic for the broadcast; zero means the
// group has no topics.
type Group struct {
	ID       int64
	ThreadID int64
	Label    string
}

// SelectableGroups maps a human-readable group label to its group, built once
// when a user belongs to more than one eligible group and consulted to
// validate the selection step.
type SelectableGroups map[string]Group

// Labels returns the selectable labels sorted, so the selection keyboard is
// laid out the same way on every prompt.
func (s SelectableGroups) Labels() []string {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
