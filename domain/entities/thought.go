package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RiskLevel represents the severity label attached to a thought
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Tone represents the narration tone derived from a thought's risk level
type Tone string

const (
	ToneCalm   Tone = "calm"
	ToneAlert  Tone = "alert"
	ToneUrgent Tone = "urgent"
)

// ParseRiskLevel normalizes a severity label from the pipeline.
// Unknown labels fall back to low rather than failing the whole poll.
func ParseRiskLevel(label string) RiskLevel {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(label))) {
	case RiskLevelModerate:
		return RiskLevelModerate
	case RiskLevelHigh:
		return RiskLevelHigh
	case RiskLevelCritical:
		return RiskLevelCritical
	default:
		return RiskLevelLow
	}
}

// Thought represents one snapshot of the pipeline's
// perception/interpretation/uncertainty/risk result
type Thought struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Uncertainty float64   `json:"uncertainty"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Objects     []string  `json:"objects"`
	ReceivedAt  time.Time `json:"received_at"`
}

// NewThought creates a thought as received from the pipeline endpoint
func NewThought(summary string, uncertainty float64, riskLevel RiskLevel, objects []string) *Thought {
	return &Thought{
		ID:          uuid.New().String(),
		Summary:     summary,
		Uncertainty: uncertainty,
		RiskLevel:   riskLevel,
		Objects:     objects,
		ReceivedAt:  time.Now(),
	}
}

// Validate validates the thought data
func (t *Thought) Validate() error {
	if t.Summary == "" {
		return errors.New("summary is required")
	}
	if t.Uncertainty < 0 || t.Uncertainty > 1 {
		return fmt.Errorf("uncertainty must be between 0 and 1, got %f", t.Uncertainty)
	}
	switch t.RiskLevel {
	case RiskLevelLow, RiskLevelModerate, RiskLevelHigh, RiskLevelCritical:
	default:
		return fmt.Errorf("invalid risk level %q", t.RiskLevel)
	}
	return nil
}

// Tone maps the thought's risk level to the narration tone
func (t *Thought) Tone() Tone {
	switch t.RiskLevel {
	case RiskLevelCritical:
		return ToneUrgent
	case RiskLevelHigh:
		return ToneAlert
	default:
		return ToneCalm
	}
}

// NarrationText builds the spoken summary: a canned phrase for the
// detected objects, the interpretation summary, and an uncertainty
// qualifier when confidence is poor.
func (t *Thought) NarrationText() string {
	var b strings.Builder

	switch len(t.Objects) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "I can see a %s. ", t.Objects[0])
	default:
		fmt.Fprintf(&b, "I can see a %s and a %s. ",
			strings.Join(t.Objects[:len(t.Objects)-1], ", a "),
			t.Objects[len(t.Objects)-1])
	}

	b.WriteString(strings.TrimSpace(t.Summary))
	if s := b.String(); !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		b.WriteString(".")
	}

	if t.Uncertainty > 0.6 {
		b.WriteString(" I am not fully certain about this.")
	}

	return b.String()
}
