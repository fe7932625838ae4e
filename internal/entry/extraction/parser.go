// Package extraction turns the LLM's raw text response into a structured
// hours + task list result. The payload is untrusted: fields are validated
// one by one, and a single bad task entry never invalidates an otherwise
// good extraction.
package extraction

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"energy-accounting-bot/internal/model"
)

// ErrMalformed means the model output could not be parsed as a single JSON
// object at all. Callers treat it the same as an extraction service failure.
var ErrMalformed = errors.New("extraction output is not a well-formed object")

// Result is the outcome of a successful parse. Absent hours and empty tasks
// are both valid outcomes, not parser failures.
type Result struct {
	Hours        *float64
	Tasks        []model.Task
	DroppedTasks int // task entries discarded for missing or blank descriptions
}

type rawPayload struct {
	Hours json.RawMessage `json:"hours"`
	Tasks []rawTask       `json:"tasks"`
}

type rawTask struct {
	Description json.RawMessage `json:"description"`
}

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// Parse validates the model's raw response against the extraction contract.
func Parse(raw string) (Result, error) {
	cleaned := sanitize(raw)
	if cleaned == "" || cleaned == "null" {
		return Result{}, ErrMalformed
	}

	var payload rawPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return Result{}, ErrMalformed
	}

	result := Result{
		Hours: coerceHours(payload.Hours),
	}
	for _, t := range payload.Tasks {
		description, ok := coerceDescription(t.Description)
		if !ok {
			result.DroppedTasks++
			continue
		}
		result.Tasks = append(result.Tasks, model.Task{Description: description})
	}
	return result, nil
}

// sanitize strips markdown code fences and surrounding prose that models
// often wrap JSON output in. Text that is already valid JSON is returned
// whole: slicing braces out of it could turn a non-object payload (a
// top-level array, say) into something that looks like the contracted
// object. Non-object JSON then fails the struct unmarshal in Parse.
func sanitize(text string) string {
	if matches := codeFencePattern.FindStringSubmatch(text); len(matches) > 1 {
		text = matches[1]
	}
	text = strings.TrimSpace(text)
	if json.Valid([]byte(text)) {
		return text
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}

// coerceHours returns a positive finite hours value, or nil when the field
// is missing, null, or not usable as one. A bad hours value degrades to
// "absent" rather than failing the extraction.
func coerceHours(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var hours float64
	if err := json.Unmarshal(raw, &hours); err != nil {
		// Some models quote the number.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		parsed, parseErr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if parseErr != nil {
			return nil
		}
		hours = parsed
	}

	if hours <= 0 || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return nil
	}
	return &hours
}

func coerceDescription(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var description string
	if err := json.Unmarshal(raw, &description); err != nil {
		return "", false
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return "", false
	}
	return description, true
}

var hoursOnlyPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ParseHoursText applies the numeric-only rule shared by the hours backfill
// step and the edit template: an optional run of digits, optionally followed
// by a single decimal point and more digits. No sign, no units, no
// separators. The value must be positive.
func ParseHoursText(s string) (float64, bool) {
	if !hoursOnlyPattern.MatchString(s) {
		return 0, false
	}
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil || hours <= 0 {
		return 0, false
	}
	return hours, true
}
