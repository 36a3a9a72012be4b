package core

import "sync"

// HeightSource supplies the externally sequenced block height. Implementations
// must be monotonically non-decreasing.
type HeightSource interface {
	Height() uint64
}

// ManualHeight is a settable height source for daemons that simulate block
// progression and for deterministic tests. Attempts to move the height
// backwards are ignored.
type ManualHeight struct {
	mu     sync.RWMutex
	height uint64
}

// NewManualHeight creates a source positioned at the supplied genesis height.
func NewManualHeight(height uint64) *ManualHeight {
	return &ManualHeight{height: height}
}

// Height returns the current height.
func (h *ManualHeight) Height() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.height
}

// Set moves the height forward to the supplied value. Lower values are
// dropped so the source never decreases.
func (h *ManualHeight) Set(height uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if height > h.height {
		h.height = height
	}
}

// Advance increments the height by delta and returns the new value.
func (h *ManualHeight) Advance(delta uint64) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.height += delta
	return h.height
}
