package editor_test

import (
	"errors"
	"testing"

	"energy-accounting-bot/internal/entry/editor"
	"energy-accounting-bot/internal/model"
)

func TestParse(t *testing.T) {
	t.Run("Valid edit", func(t *testing.T) {
		text := "*Contributions*\n- fixed the pump\n- wrote the manual\n\n*Hours*: 7.5 hours"
		result, err := editor.Parse(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Hours == nil || *result.Hours != 7.5 {
			t.Errorf("expected hours 7.5, got %v", result.Hours)
		}
		if len(result.Tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(result.Tasks))
		}
		if result.Tasks[1].Description != "wrote the manual" {
			t.Errorf("unexpected second task: %q", result.Tasks[1].Description)
		}
	})

	t.Run("Integer hours", func(t *testing.T) {
		result, err := editor.Parse("*Contributions*\n- standup\n\n*Hours*: 3 hours")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Hours == nil || *result.Hours != 3 {
			t.Errorf("expected hours 3, got %v", result.Hours)
		}
	})

	t.Run("Copy-paste whitespace in bullets survives", func(t *testing.T) {
		result, err := editor.Parse("*Contributions*\n-   cleaned the filters  \n\n*Hours*: 1 hours")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Tasks[0].Description != "cleaned the filters" {
			t.Errorf("expected trimmed description, got %q", result.Tasks[0].Description)
		}
	})

	t.Run("Template embedded in surrounding text", func(t *testing.T) {
		text := "here you go:\n*Contributions*\n- audits\n\n*Hours*: 2 hours\nthanks"
		result, err := editor.Parse(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Tasks) != 1 || result.Tasks[0].Description != "audits" {
			t.Errorf("unexpected tasks: %+v", result.Tasks)
		}
	})

	t.Run("Mismatches", func(t *testing.T) {
		for name, text := range map[string]string{
			"free prose":           "I actually spent 4 hours on the pump.",
			"no bullets":           "*Contributions*\n\n*Hours*: 3 hours",
			"missing hours line":   "*Contributions*\n- fixed the pump\n",
			"missing blank line":   "*Contributions*\n- fixed the pump\n*Hours*: 3 hours",
			"negative hours":       "*Contributions*\n- fixed the pump\n\n*Hours*: -3 hours",
			"hours with units":     "*Contributions*\n- fixed the pump\n\n*Hours*: 3h hours",
			"zero hours":           "*Contributions*\n- fixed the pump\n\n*Hours*: 0 hours",
			"blank-only bullets":   "*Contributions*\n-  \n\n*Hours*: 3 hours",
			"missing hours header": "*Contributions*\n- fixed the pump\n\n3 hours",
		} {
			if _, err := editor.Parse(text); !errors.Is(err, editor.ErrTemplateMismatch) {
				t.Errorf("%s: expected ErrTemplateMismatch, got %v", name, err)
			}
		}
	})
}

func TestParseRoundTrip(t *testing.T) {
	hours := 12.75
	draft := &model.DraftEntry{
		Hours: &hours,
		Tasks: []model.Task{
			{Description: "rebuilt the intake manifold"},
			{Description: "logged sensor calibrations"},
		},
	}

	result, err := editor.Parse(draft.PresentForEditing())
	if err != nil {
		t.Fatalf("template did not round-trip: %v", err)
	}
	if *result.Hours != hours {
		t.Errorf("expected hours %v, got %v", hours, *result.Hours)
	}
	if len(result.Tasks) != len(draft.Tasks) {
		t.Fatalf("expected %d tasks, got %d", len(draft.Tasks), len(result.Tasks))
	}
	for i := range draft.Tasks {
		if result.Tasks[i] != draft.Tasks[i] {
			t.Errorf("task %d: expected %+v, got %+v", i, draft.Tasks[i], result.Tasks[i])
		}
	}

	// Re-rendering the parsed result must parse identically.
	again := &model.DraftEntry{Hours: result.Hours, Tasks: result.Tasks}
	second, err := editor.Parse(again.PresentForEditing())
	if err != nil {
		t.Fatalf("second round-trip failed: %v", err)
	}
	if *second.Hours != hours || len(second.Tasks) != len(draft.Tasks) {
		t.Errorf("second round-trip diverged: %+v", second)
	}
}
