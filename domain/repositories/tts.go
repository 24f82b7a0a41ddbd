package repositories

import (
	"context"

	"github.com/sightline/server/domain/entities"
)

// TextToSpeech abstracts the speech synthesis engine
type TextToSpeech interface {
	// ConvertTextToSpeech streams synthesized audio for the given text.
	// The tone selects per-utterance voice settings. Cancelling the
	// context aborts the stream and closes the channel.
	ConvertTextToSpeech(ctx context.Context, text string, tone entities.Tone) (<-chan []byte, error)

	// ListVoices enumerates the voices the engine can speak with
	ListVoices(ctx context.Context) ([]Voice, error)
}

// Voice describes one voice offered by the speech engine
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
}
