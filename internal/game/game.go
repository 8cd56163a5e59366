package game

import (
	"errors"
	"fmt"
	"time"

	"psych-academy/internal/domain"
)

// Mode selects which sub-game is mounted.
type Mode string

const (
	ModeSelect   Mode = "select"
	ModeMatching Mode = "matching"
	ModeQuickQA  Mode = "quick-qa"
)

// ErrUnknownMode is returned by SetMode for anything but the three modes.
var ErrUnknownMode = errors.New("unknown game mode")

// Options tune a Game. Zero values fall back to production defaults.
type Options struct {
	Countdown int
	Seed      func() int64
	Now       func() time.Time
}

// Game is the lecture game of one lecture: a mode selector over the matching
// and quick-QA sub-games. Changing mode or resetting discards all progress.
type Game struct {
	content   domain.LectureGame
	countdown int
	seed      func() int64
	now       func() time.Time

	mode     Mode
	matching *Matching
	quick    *QuickQA
}

func New(content domain.LectureGame, opts Options) *Game {
	if opts.Seed == nil {
		opts.Seed = func() int64 { return time.Now().UnixNano() }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	g := &Game{
		content:   content,
		countdown: opts.Countdown,
		seed:      opts.Seed,
		now:       opts.Now,
		mode:      ModeSelect,
	}
	g.Reset()
	return g
}

// SetMode switches sub-game and resets state.
func (g *Game) SetMode(mode Mode) error {
	switch mode {
	case ModeSelect, ModeMatching, ModeQuickQA:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	g.mode = mode
	g.Reset()
	return nil
}

// Reset reshuffles the matching columns and clears both sub-games.
func (g *Game) Reset() {
	g.matching = NewMatching(g.content.Pairs, g.seed(), g.now)
	g.quick = NewQuickQA(g.content.QuickQA, g.countdown)
}

func (g *Game) Mode() Mode { return g.mode }
func (g *Game) Matching() *Matching { return g.matching }
func (g *Game) QuickQA() *QuickQA { return g.quick }

func (g *Game) Tick() {
	switch g.mode {
	case ModeMatching:
		g.matching.Tick()
	case ModeQuickQA:
		g.quick.Tick()
	}
}

// Running reports whether the one-second clock should be ticking.
func (g *Game) Running() bool {
	switch g.mode {
	case ModeMatching:
		return g.matching.Active() && !g.matching.Finished()
	case ModeQuickQA:
		return g.quick.Active() && !g.quick.Finished()
	}
	return false
}

func (g *Game) Finished() bool {
	switch g.mode {
	case ModeMatching:
		return g.matching.Finished()
	case ModeQuickQA:
		return g.quick.Finished()
	}
	return false
}

// Score of the mounted sub-game.
func (g *Game) Score() int {
	switch g.mode {
	case ModeMatching:
		return g.matching.Score()
	case ModeQuickQA:
		return g.quick.Score()
	}
	return 0
}

// State is the serializable snapshot streamed to the client.
type State struct {
	Mode        Mode          `json:"mode"`
	Title       string        `json:"title"`
	Instruction string        `json:"instruction"`
	HasQuickQA  bool          `json:"hasQuickQA"`
	Running     bool          `json:"running"`
	Finished    bool          `json:"finished"`
	Score       int           `json:"score"`
	Matching    *MatchingView `json:"matching,omitempty"`
	QuickQA     *QuickQAView  `json:"quickQA,omitempty"`
}

func (g *Game) Snapshot() State {
	s := State{
		Mode:        g.mode,
		Title:       g.content.Title,
		Instruction: g.content.Instruction,
		HasQuickQA:  len(g.content.QuickQA) > 0,
		Running:     g.Running(),
		Finished:    g.Finished(),
		Score:       g.Score(),
	}
	switch g.mode {
	case ModeMatching:
		v := g.matching.View()
		s.Matching = &v
	case ModeQuickQA:
		v := g.quick.View()
		s.QuickQA = &v
	}
	return s
}
