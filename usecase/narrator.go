package usecase

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/sightline/server/domain/entities"
	"github.com/sightline/server/domain/repositories"
)

// ErrNarrationDisabled is returned by Speak while narration has not
// been enabled by a viewer.
var ErrNarrationDisabled = errors.New("narration is disabled")

// NarrationSink receives the narration lifecycle: one speaking_start,
// the audio chunks, then one speaking_end per utterance.
type NarrationSink interface {
	SpeakingStart(text string, tone entities.Tone)
	AudioChunk(chunk []byte)
	SpeakingEnd()
}

// NarrationStatus describes the narrator for the viewer API
type NarrationStatus struct {
	Enabled  bool          `json:"enabled"`
	LastText string        `json:"last_text,omitempty"`
	LastTone entities.Tone `json:"last_tone,omitempty"`
}

// Narrator speaks narration text through the speech engine. It is
// disabled until a viewer explicitly enables it, and it keeps at most
// one utterance in flight: starting a new utterance cancels the
// previous one first.
//
// The narrator does not de-duplicate text; that is the caller's job.
type Narrator struct {
	tts    repositories.TextToSpeech
	sink   NarrationSink
	logger *zap.Logger

	mu       sync.Mutex
	enabled  bool
	cancel   context.CancelFunc
	drained  chan struct{}
	lastText string
	lastTone entities.Tone
}

// NewNarrator creates a narrator. The sink may be nil, in which case
// synthesized audio is drained and discarded.
func NewNarrator(tts repositories.TextToSpeech, sink NarrationSink, logger *zap.Logger) *Narrator {
	return &Narrator{
		tts:    tts,
		sink:   sink,
		logger: logger,
	}
}

// SetEnabled toggles narration. Disabling cancels any in-flight utterance.
func (n *Narrator) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.enabled = enabled
	if !enabled && n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}

	n.logger.Info("Narration toggled", zap.Bool("enabled", enabled))
}

// Enabled reports whether narration has been enabled by a viewer
func (n *Narrator) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// Status returns the narrator state for the viewer API
func (n *Narrator) Status() NarrationStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return NarrationStatus{
		Enabled:  n.enabled,
		LastText: n.lastText,
		LastTone: n.lastTone,
	}
}

// Speak begins speaking the given text, cancelling any utterance that
// is still playing. Returns ErrNarrationDisabled while narration is
// disabled and the synthesis error if the utterance could not start.
func (n *Narrator) Speak(ctx context.Context, text string, tone entities.Tone) error {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return ErrNarrationDisabled
	}

	// At most one utterance in flight
	if n.cancel != nil {
		n.cancel()
	}
	previousDrained := n.drained
	utteranceCtx, cancel := context.WithCancel(ctx)
	drained := make(chan struct{})
	n.cancel = cancel
	n.drained = drained
	n.mu.Unlock()

	// Wait for the cancelled utterance to flush its speaking_end so
	// the sink never sees frames of two utterances interleaved.
	if previousDrained != nil {
		<-previousDrained
	}

	audioChan, err := n.tts.ConvertTextToSpeech(utteranceCtx, text, tone)
	if err != nil {
		n.logger.Warn("Failed to start utterance", zap.Error(err))
		cancel()
		close(drained)
		return err
	}

	n.mu.Lock()
	n.lastText = text
	n.lastTone = tone
	n.mu.Unlock()

	n.logger.Info("Utterance started",
		zap.String("text", text),
		zap.String("tone", string(tone)))

	if n.sink != nil {
		n.sink.SpeakingStart(text, tone)
	}

	go func() {
		defer close(drained)
		defer cancel()

		for chunk := range audioChan {
			if n.sink != nil {
				n.sink.AudioChunk(chunk)
			}
		}

		if n.sink != nil {
			n.sink.SpeakingEnd()
		}
	}()

	return nil
}

// Stop cancels any in-flight utterance, for teardown
func (n *Narrator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}
