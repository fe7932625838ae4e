// Package editor re-parses a user's pasted edit of an entry back into
// structured data. The match is strict over the whole template block --
// header through hours line, contiguously -- while individual task lines are
// trimmed permissively. Copy-paste whitespace survives; a deleted or
// malformed hours line does not.
package editor

import (
	"errors"
	"regexp"
	"strings"

	"energy-accounting-bot/internal/entry/extraction"
	"energy-accounting-bot/internal/model"
)

// ErrTemplateMismatch means the edit text does not follow the template. The
// draft must not be mutated.
var ErrTemplateMismatch = errors.New("edit text does not match the template")

// templatePattern spans the whole editable block: the Contributions header,
// one or more bullet lines, a blank line, then the hours line.
var templatePattern = regexp.MustCompile(`\*Contributions\*\n(- .+\n)+\n\*Hours\*: (\d+(\.\d+)?) hours`)

// Parse matches the edit text against the entry template and extracts the
// task list and hours.
func Parse(text string) (extraction.Result, error) {
	match := templatePattern.FindStringSubmatch(text)
	if match == nil {
		return extraction.Result{}, ErrTemplateMismatch
	}

	hours, ok := extraction.ParseHoursText(match[2])
	if !ok {
		return extraction.Result{}, ErrTemplateMismatch
	}

	// Within the matched block: line 0 is the header, the last two lines are
	// the blank separator and the hours line. Everything between is bullets.
	lines := strings.Split(match[0], "\n")
	var tasks []model.Task
	for _, line := range lines[1 : len(lines)-2] {
		description := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if description == "" {
			continue
		}
		tasks = append(tasks, model.Task{Description: description})
	}
	if len(tasks) == 0 {
		return extraction.Result{}, ErrTemplateMismatch
	}

	return extraction.Result{Hours: &hours, Tasks: tasks}, nil
}
