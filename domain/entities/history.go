package entities

import "sync"

// HistoryCapacity is the number of thoughts retained for timeline display.
const HistoryCapacity = 7

// ThoughtHistory retains the most recent thoughts, newest first.
// It never persists anything; the timeline is volatile by design.
type ThoughtHistory struct {
	mu       sync.RWMutex
	capacity int
	thoughts []*Thought
}

// NewThoughtHistory creates a history buffer with the given capacity.
// A non-positive capacity falls back to HistoryCapacity.
func NewThoughtHistory(capacity int) *ThoughtHistory {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	return &ThoughtHistory{
		capacity: capacity,
		thoughts: make([]*Thought, 0, capacity),
	}
}

// Push prepends a thought, evicting the oldest entry on overflow.
func (h *ThoughtHistory) Push(t *Thought) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.thoughts = append([]*Thought{t}, h.thoughts...)
	if len(h.thoughts) > h.capacity {
		h.thoughts = h.thoughts[:h.capacity]
	}
}

// Snapshot returns a copy of the retained thoughts, newest first.
func (h *ThoughtHistory) Snapshot() []*Thought {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*Thought, len(h.thoughts))
	copy(out, h.thoughts)
	return out
}

// Len returns the number of retained thoughts.
func (h *ThoughtHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.thoughts)
}
