// Package sim runs the ball-vs-blocks simulation that drives the animation.
//
// A run is synchronous and deterministic for a given ball and block set. The
// Simulation owns the ball and blocks until Run returns.
package sim

import "fmt"

// Simulation steps one ball across a board of blocks.
type Simulation struct {
	cfg    Config
	ball   *Ball
	blocks []*Block

	// pending holds blocks that started alive and have not been seen dead.
	pending []*Block

	frame int
	hist  *History
}

func New(cfg Config, ball *Ball, blocks []*Block) *Simulation {
	var pending []*Block
	for _, b := range blocks {
		if b.Alive() {
			pending = append(pending, b)
		}
	}
	return &Simulation{
		cfg:     cfg,
		ball:    ball,
		blocks:  blocks,
		pending: pending,
		hist:    NewHistory(),
	}
}

func (s *Simulation) Ball() *Ball       { return s.ball }
func (s *Simulation) Frame() int        { return s.frame }
func (s *Simulation) Live() int         { return len(s.pending) }
func (s *Simulation) History() *History { return s.hist }
func (s *Simulation) Done() bool        { return len(s.pending) == 0 }

// Step advances one frame: wall reflection, block collisions, integration,
// recording, and death bookkeeping.
func (s *Simulation) Step() {
	s.ball.Reflect(s.cfg.BoardWidth(), s.cfg.BoardHeight())

	for _, b := range s.blocks {
		if !b.Alive() {
			continue
		}
		r := b.Bounds(s.cfg.BlockSize)
		if !Collides(s.ball, r) {
			continue
		}
		s.respond(b, r)
	}

	s.ball.Move()
	s.hist.Record(Point{X: s.ball.X, Y: s.ball.Y})

	alive := s.pending[:0]
	for _, b := range s.pending {
		if b.Alive() {
			alive = append(alive, b)
			continue
		}
		if !s.hist.MarkDead(b.ID(), s.frame) {
			panic(fmt.Sprintf("sim: %s died twice", b.ID()))
		}
	}
	s.pending = alive
	s.frame++
}

// respond applies one unit of damage and flips one velocity component.
// A later block in the same frame may flip the ball back.
func (s *Simulation) respond(b *Block, r Rect) {
	b.SetHealth(b.Health() - 1)
	s.hist.RecordHit(s.frame, b.ID(), b.Health())

	switch BounceAxisFor(s.ball, r) {
	case AxisX:
		s.ball.BounceX()
	default:
		s.ball.BounceY()
	}
}

// Run steps until no block is alive. With a frame ceiling configured, a run
// that reaches it returns the partial result and a *FrameLimitError.
func (s *Simulation) Run() (Result, error) {
	for !s.Done() {
		if s.cfg.MaxFrames > 0 && s.frame >= s.cfg.MaxFrames {
			return s.result(), &FrameLimitError{Frames: s.frame, Remaining: len(s.pending)}
		}
		s.Step()
	}
	return s.result(), nil
}

func (s *Simulation) result() Result {
	infos := make([]BlockInfo, len(s.blocks))
	for i, b := range s.blocks {
		infos[i] = b.Info()
	}
	return Result{
		History: s.hist,
		Frames:  s.frame,
		Blocks:  infos,
		FPS:     s.cfg.FPS,
	}
}

// Result is everything a renderer needs from a finished run.
type Result struct {
	History *History
	Frames  int
	Blocks  []BlockInfo
	FPS     float64
}

// Duration is the animation length in seconds.
func (r Result) Duration() float64 {
	if r.FPS <= 0 {
		return 0
	}
	return float64(r.Frames) / r.FPS
}

// FrameLimitError reports a run stopped by Config.MaxFrames.
type FrameLimitError struct {
	Frames    int
	Remaining int
}

func (e *FrameLimitError) Error() string {
	return fmt.Sprintf("simulation stopped after %d frames with %d blocks remaining", e.Frames, e.Remaining)
}
