package game

import (
	"sync"
	"time"
)

// Ticker is the one-second clock driving a running game.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop() { t.t.Stop() }

// NewTimeTicker is the production TickerFactory.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// FinishFunc is called once each time a game transitions to finished.
type FinishFunc func(mode Mode, score int)

// Runner serializes access to a Game and owns its clock. At most one ticker
// is live per runner; it runs only while the game reports Running.
type Runner struct {
	mu        sync.Mutex
	game      *Game
	newTicker TickerFactory
	interval  time.Duration
	onFinish  FinishFunc

	ticker Ticker
	stop   chan struct{}
	closed bool

	subscribers map[chan State]struct{}
}

func NewRunner(g *Game, newTicker TickerFactory, onFinish FinishFunc) *Runner {
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	return &Runner{
		game:        g,
		newTicker:   newTicker,
		interval:    time.Second,
		onFinish:    onFinish,
		subscribers: make(map[chan State]struct{}),
	}
}

// Do applies fn to the game, starts or stops the clock to match the new state
// and broadcasts the resulting snapshot.
func (r *Runner) Do(fn func(g *Game) error) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.game.Snapshot(), nil
	}
	wasFinished := r.game.Finished()
	if err := fn(r.game); err != nil {
		return r.game.Snapshot(), err
	}
	r.afterChangeLocked(wasFinished)
	return r.broadcastLocked(), nil
}

// Snapshot returns the current state without side effects.
func (r *Runner) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// Ticking reports whether a ticker is currently live.
func (r *Runner) Ticking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticker != nil
}

// Close stops the clock and releases subscribers. The runner ignores further events.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.stopLocked()
	for ch := range r.subscribers {
		delete(r.subscribers, ch)
		close(ch)
	}
}

// Subscribe returns a channel of snapshots, primed with the current one.
// The caller must invoke cancel to avoid leaks.
func (r *Runner) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 8)

	r.mu.Lock()
	// primed under the lock so no broadcast can overtake the initial snapshot
	ch <- r.game.Snapshot()
	if r.closed {
		r.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	r.subscribers[ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Runner) afterChangeLocked(wasFinished bool) {
	running := r.game.Running()
	switch {
	case running && r.ticker == nil:
		r.startLocked()
	case !running && r.ticker != nil:
		r.stopLocked()
	}
	if !wasFinished && r.game.Finished() && r.onFinish != nil {
		r.onFinish(r.game.Mode(), r.game.Score())
	}
}

func (r *Runner) startLocked() {
	t := r.newTicker(r.interval)
	stop := make(chan struct{})
	r.ticker = t
	r.stop = stop
	go r.loop(t, stop)
}

func (r *Runner) stopLocked() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	close(r.stop)
	r.ticker = nil
	r.stop = nil
}

func (r *Runner) loop(t Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			r.tick(stop)
		}
	}
}

func (r *Runner) tick(stop chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A tick that raced with stopLocked belongs to a dead clock.
	select {
	case <-stop:
		return
	default:
	}

	wasFinished := r.game.Finished()
	r.game.Tick()
	r.afterChangeLocked(wasFinished)
	r.broadcastLocked()
}

func (r *Runner) broadcastLocked() State {
	state := r.game.Snapshot()
	for ch := range r.subscribers {
		select {
		case ch <- state:
		default:
			// drop the stale snapshot so slow readers never block the clock
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
	return state
}
