package service

import "WiccRecorderwebserver/internal/domain"

// history keeps a bounded stack of series snapshots for undo. Pushing
// past capacity drops the oldest entry.
type history struct {
	entries []domain.Series
	cap     int
}

func newHistory(cap int) *history {
	if cap <= 0 {
		cap = 10
	}
	return &history{cap: cap}
}

func (h *history) Push(s domain.Series) {
	h.entries = append(h.entries, s.Clone())
	if len(h.entries) > h.cap {
		h.entries = h.entries[1:]
	}
}

func (h *history) Pop() (domain.Series, bool) {
	if len(h.entries) == 0 {
		return domain.Series{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h *history) Len() int { return len(h.entries) }

func (h *history) Reset() { h.entries = nil }
