package tts

import (
	"context"

	"go.uber.org/zap"

	"github.com/sightline/server/domain/entities"
	"github.com/sightline/server/domain/repositories"
)

// MockTextToSpeech is a placeholder synthesizer for development without
// an Eleven Labs API key. It emits patterned bytes sized by text length.
type MockTextToSpeech struct {
	logger *zap.Logger
}

// Ensure MockTextToSpeech implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*MockTextToSpeech)(nil)

// NewMockTextToSpeech creates a new mock text-to-speech service
func NewMockTextToSpeech(logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{
		logger: logger,
	}
}

// ConvertTextToSpeech implements repositories.TextToSpeech
func (m *MockTextToSpeech) ConvertTextToSpeech(ctx context.Context, text string, tone entities.Tone) (<-chan []byte, error) {
	m.logger.Info("Processing mock text-to-speech",
		zap.String("text", text),
		zap.String("tone", string(tone)))

	audioChan := make(chan []byte, 4)

	go func() {
		defer close(audioChan)

		// Simulate audio size from text length
		remaining := len(text) * 100
		for remaining > 0 {
			size := defaultChunkSize
			if remaining < size {
				size = remaining
			}

			chunk := make([]byte, size)
			for i := range chunk {
				chunk[i] = byte(i % 256)
			}

			select {
			case audioChan <- chunk:
				remaining -= size
			case <-ctx.Done():
				return
			}
		}
	}()

	return audioChan, nil
}

// ListVoices implements repositories.TextToSpeech
func (m *MockTextToSpeech) ListVoices(ctx context.Context) ([]repositories.Voice, error) {
	return []repositories.Voice{
		{ID: "mock-1", Name: "Mock Narrator", Language: "en"},
	}, nil
}
