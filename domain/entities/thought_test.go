package entities

import (
	"strings"
	"testing"
)

func TestNewThought(t *testing.T) {
	thought := NewThought("A person is standing near the doorway", 0.2, RiskLevelLow, []string{"person", "door"})

	if thought.ID == "" {
		t.Error("Expected thought ID to be set")
	}

	if thought.Summary != "A person is standing near the doorway" {
		t.Errorf("Unexpected summary: %s", thought.Summary)
	}

	if thought.ReceivedAt.IsZero() {
		t.Error("Expected ReceivedAt to be set")
	}

	if err := thought.Validate(); err != nil {
		t.Errorf("Expected valid thought, got error: %v", err)
	}
}

func TestThoughtValidate(t *testing.T) {
	thought := NewThought("", 0.2, RiskLevelLow, nil)
	if err := thought.Validate(); err == nil {
		t.Error("Expected error for empty summary")
	}

	thought = NewThought("something", 1.5, RiskLevelLow, nil)
	if err := thought.Validate(); err == nil {
		t.Error("Expected error for uncertainty above 1")
	}

	thought = NewThought("something", -0.1, RiskLevelLow, nil)
	if err := thought.Validate(); err == nil {
		t.Error("Expected error for negative uncertainty")
	}

	thought = NewThought("something", 0.5, RiskLevel("weird"), nil)
	if err := thought.Validate(); err == nil {
		t.Error("Expected error for unknown risk level")
	}
}

func TestParseRiskLevel(t *testing.T) {
	cases := map[string]RiskLevel{
		"low":        RiskLevelLow,
		"moderate":   RiskLevelModerate,
		"HIGH":       RiskLevelHigh,
		" critical ": RiskLevelCritical,
		"unknown":    RiskLevelLow,
		"":           RiskLevelLow,
	}

	for label, expected := range cases {
		if got := ParseRiskLevel(label); got != expected {
			t.Errorf("ParseRiskLevel(%q): expected %s, got %s", label, expected, got)
		}
	}
}

func TestThoughtTone(t *testing.T) {
	cases := map[RiskLevel]Tone{
		RiskLevelLow:      ToneCalm,
		RiskLevelModerate: ToneCalm,
		RiskLevelHigh:     ToneAlert,
		RiskLevelCritical: ToneUrgent,
	}

	for level, expected := range cases {
		thought := NewThought("something", 0.1, level, nil)
		if got := thought.Tone(); got != expected {
			t.Errorf("Tone for %s: expected %s, got %s", level, expected, got)
		}
	}
}

func TestNarrationText(t *testing.T) {
	thought := NewThought("A person is reading at the desk", 0.1, RiskLevelLow, []string{"person", "desk", "laptop"})

	text := thought.NarrationText()
	if !strings.HasPrefix(text, "I can see a person, a desk and a laptop. ") {
		t.Errorf("Unexpected object phrase: %s", text)
	}

	if !strings.Contains(text, "A person is reading at the desk.") {
		t.Errorf("Expected summary in narration text, got: %s", text)
	}

	if strings.Contains(text, "not fully certain") {
		t.Errorf("Did not expect uncertainty qualifier for confident thought: %s", text)
	}
}

func TestNarrationTextUncertain(t *testing.T) {
	thought := NewThought("Something moved behind the shelf", 0.8, RiskLevelHigh, nil)

	text := thought.NarrationText()
	if !strings.HasPrefix(text, "Something moved behind the shelf.") {
		t.Errorf("Expected bare summary when no objects detected, got: %s", text)
	}

	if !strings.Contains(text, "not fully certain") {
		t.Errorf("Expected uncertainty qualifier, got: %s", text)
	}
}

func TestNarrationTextSingleObject(t *testing.T) {
	thought := NewThought("The room is empty", 0.1, RiskLevelLow, []string{"chair"})

	text := thought.NarrationText()
	if !strings.HasPrefix(text, "I can see a chair. ") {
		t.Errorf("Unexpected single-object phrase: %s", text)
	}
}

func TestNarrationTextKeepsTerminalPunctuation(t *testing.T) {
	cases := map[string]string{
		"Watch out!":           "Watch out!",
		"Is someone there?":    "Is someone there?",
		"All clear.":           "All clear.",
		"A dog entered the ro": "A dog entered the ro.",
	}

	for summary, expected := range cases {
		thought := NewThought(summary, 0.1, RiskLevelLow, nil)
		if got := thought.NarrationText(); got != expected {
			t.Errorf("NarrationText for %q: expected %q, got %q", summary, expected, got)
		}
	}
}
