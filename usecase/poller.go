package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sightline/server/domain/entities"
	"github.com/sightline/server/domain/repositories"
)

// DefaultPollInterval is the cadence of pipeline polls.
const DefaultPollInterval = 3 * time.Second

// Poller fetches thought snapshots from the pipeline on a fixed cadence
// and fans them out: current display state, bounded history, viewer
// broadcast, and narration for summaries not spoken already.
//
// Polling is best effort. A failed tick keeps the previous state and is
// simply followed by the next scheduled tick; there is no retry. Ticks
// are not coalesced either: a slow response does not hold back the next
// tick, and whichever response is processed last wins as current.
type Poller struct {
	source   repositories.ThoughtSource
	narrator *Narrator
	history  *entities.ThoughtHistory
	interval time.Duration
	logger   *zap.Logger

	onThought func(*entities.Thought)

	mu         sync.Mutex
	current    *entities.Thought
	lastSpoken string
	cancel     context.CancelFunc
}

// NewPoller creates a poller. A non-positive interval falls back to
// DefaultPollInterval.
func NewPoller(
	source repositories.ThoughtSource,
	narrator *Narrator,
	history *entities.ThoughtHistory,
	interval time.Duration,
	logger *zap.Logger,
) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		source:   source,
		narrator: narrator,
		history:  history,
		interval: interval,
		logger:   logger,
	}
}

// SetOnThought registers a callback invoked for every successful poll.
// Must be called before Start.
func (p *Poller) SetOnThought(fn func(*entities.Thought)) {
	p.onThought = fn
}

// Start begins the polling loop. Calling Start on a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	go p.run(ctx)

	p.logger.Info("Poller started", zap.Duration("interval", p.interval))
}

// Stop tears down the polling timer and cancels any in-progress utterance
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.narrator.Stop()
	p.logger.Info("Poller stopped")
}

// CurrentThought returns the thought currently on display, or nil
func (p *Poller) CurrentThought() *entities.Thought {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// History returns the retained thoughts, newest first
func (p *Poller) History() []*entities.Thought {
	return p.history.Snapshot()
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// First poll fires immediately rather than one interval in
	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go p.pollOnce(ctx)
		}
	}
}

// pollOnce performs one poll tick. Any failure is swallowed: the
// previous display state is retained and the next tick tries again.
func (p *Poller) pollOnce(ctx context.Context) {
	thought, err := p.source.FetchThought(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("Poll failed, keeping previous state", zap.Error(err))
		}
		return
	}

	p.mu.Lock()
	p.current = thought
	p.history.Push(thought)

	// De-duplication guard: an unchanged summary across consecutive
	// polls must not be narrated again.
	speak := p.narrator.Enabled() && thought.Summary != p.lastSpoken
	previousSpoken := p.lastSpoken
	if speak {
		p.lastSpoken = thought.Summary
	}
	p.mu.Unlock()

	p.logger.Debug("Thought received",
		zap.String("thoughtID", thought.ID),
		zap.String("riskLevel", string(thought.RiskLevel)),
		zap.Bool("narrating", speak))

	if p.onThought != nil {
		p.onThought(thought)
	}

	if speak {
		if err := p.narrator.Speak(ctx, thought.NarrationText(), thought.Tone()); err != nil {
			// Nothing was spoken, so the summary stays eligible
			// for narration on a later poll.
			p.mu.Lock()
			if p.lastSpoken == thought.Summary {
				p.lastSpoken = previousSpoken
			}
			p.mu.Unlock()
		}
	}
}
