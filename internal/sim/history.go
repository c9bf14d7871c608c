package sim

import "github.com/fchimpan/gh-kusa-svg/internal/unit"

// Point is a recorded ball position.
type Point struct {
	X, Y unit.Grid
}

// Hit is one unit of damage dealt to a block.
type Hit struct {
	Frame  int
	ID     string
	Health int // after the hit
}

// History is the append-only record of a run.
type History struct {
	Path        []Point        // one entry per frame
	DeathFrames map[string]int // block id -> frame it was first seen dead
	Hits        []Hit
}

func NewHistory() *History {
	return &History{DeathFrames: map[string]int{}}
}

func (h *History) Record(p Point) {
	h.Path = append(h.Path, p)
}

func (h *History) RecordHit(frame int, id string, health int) {
	h.Hits = append(h.Hits, Hit{Frame: frame, ID: id, Health: health})
}

// MarkDead stores the death frame for id. Later calls for the same id are
// ignored. Returns true when the frame was stored.
func (h *History) MarkDead(id string, frame int) bool {
	if _, ok := h.DeathFrames[id]; ok {
		return false
	}
	h.DeathFrames[id] = frame
	return true
}

// DeathFrame returns the frame id died on, or -1 if it never did.
func (h *History) DeathFrame(id string) int {
	f, ok := h.DeathFrames[id]
	if !ok {
		return -1
	}
	return f
}
