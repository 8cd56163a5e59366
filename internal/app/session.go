package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"psych-academy/internal/content"
	"psych-academy/internal/domain"
	"psych-academy/internal/game"
	"psych-academy/internal/navigator"
	"psych-academy/internal/quiz"
	"psych-academy/internal/tutor"
)

// Session is one learner's in-memory state: where they are, their quiz
// attempt, the mounted lecture game and the tutor transcript.
type Session struct {
	id        string
	createdAt time.Time
	catalog   *content.Catalog

	gameOpts  game.Options
	newTicker game.TickerFactory
	onFinish  game.FinishFunc

	mu     sync.Mutex
	nav    *navigator.Navigator
	quiz   *quiz.Engine
	runner *game.Runner
	chat   *tutor.Chat
	closed bool

	subMu       sync.Mutex
	generation  int
	subscribers map[chan game.State]struct{}
}

type sessionDeps struct {
	gameOpts  game.Options
	newTicker game.TickerFactory
	onFinish  game.FinishFunc
	replier   tutor.Replier
}

func newSession(id string, catalog *content.Catalog, now func() time.Time, deps sessionDeps) *Session {
	return &Session{
		id:          id,
		createdAt:   now(),
		catalog:     catalog,
		gameOpts:    deps.gameOpts,
		newTicker:   deps.newTicker,
		onFinish:    deps.onFinish,
		nav:         navigator.New(catalog),
		chat:        tutor.NewChat(deps.replier),
		subscribers: make(map[chan game.State]struct{}),
	}
}

func (s *Session) ID() string { return s.id }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) CourseID() string { return s.catalog.ID() }
func (s *Session) Catalog() *content.Catalog { return s.catalog }

// NavAction names a navigator operation.
type NavAction string

const (
	NavOpenLecture NavAction = "openLecture"
	NavHome        NavAction = "home"
	NavQuiz        NavAction = "quiz"
	NavPrev        NavAction = "prev"
	NavNext        NavAction = "next"
)

// ViewState describes the current screen.
type ViewState struct {
	View          navigator.View  `json:"view"`
	Lecture       *domain.Lecture `json:"lecture,omitempty"`
	Progress      float64         `json:"progress,omitempty"`
	PrevLectureID int             `json:"prevLectureId,omitempty"`
	NextLectureID int             `json:"nextLectureId,omitempty"`
	IsLastLecture bool            `json:"isLastLecture,omitempty"`
	QuizActive    bool            `json:"quizActive"`
	GameMounted   bool            `json:"gameMounted"`
}

func (s *Session) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Navigate applies action. Entering the quiz view starts a fresh attempt and
// leaving it discards the attempt; opening a different lecture remounts its game.
func (s *Session) Navigate(action NavAction, lectureID int) (ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ViewState{}, domain.ErrSessionNotFound
	}

	prevView, prevLecture := s.nav.View(), s.nav.LectureID()
	var err error
	switch action {
	case NavOpenLecture:
		err = s.nav.OpenLecture(lectureID)
	case NavHome:
		err = s.nav.Home()
	case NavQuiz:
		err = s.nav.OpenQuiz()
	case NavPrev:
		err = s.nav.PrevLecture()
	case NavNext:
		err = s.nav.NextLecture()
	default:
		err = fmt.Errorf("%w: unknown action %q", domain.ErrIllegalTransition, action)
	}
	if err != nil {
		return s.viewLocked(), err
	}

	view := s.nav.View()
	switch {
	case view == navigator.ViewQuiz && prevView != navigator.ViewQuiz:
		s.quiz = quiz.New(s.catalog.Questions())
	case view != navigator.ViewQuiz:
		s.quiz = nil
	}
	switch {
	case view == navigator.ViewLecture && (prevView != navigator.ViewLecture || prevLecture != s.nav.LectureID()):
		s.mountGameLocked(s.nav.LectureID())
	case view != navigator.ViewLecture:
		s.unmountGameLocked()
	}
	return s.viewLocked(), nil
}

func (s *Session) viewLocked() ViewState {
	v := ViewState{
		View:        s.nav.View(),
		QuizActive:  s.quiz != nil,
		GameMounted: s.runner != nil,
	}
	if v.View != navigator.ViewLecture {
		return v
	}
	id := s.nav.LectureID()
	lecture, err := s.catalog.Lecture(id)
	if err != nil {
		return v
	}
	v.Lecture = &lecture
	v.Progress = s.catalog.Progress(id)
	prev, next, _ := s.catalog.Neighbors(id)
	if prev != nil {
		v.PrevLectureID = prev.ID
	}
	if next != nil {
		v.NextLectureID = next.ID
	} else {
		v.IsLastLecture = true
	}
	return v
}

// WithQuiz runs fn against the active attempt and returns its snapshot.
func (s *Session) WithQuiz(fn func(e *quiz.Engine)) (quiz.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return quiz.View{}, domain.ErrNoQuizActive
	}
	if fn != nil {
		fn(s.quiz)
	}
	return s.quiz.Snapshot(), nil
}

// WithGame runs fn on the mounted lecture game through its runner.
func (s *Session) WithGame(fn func(g *game.Game) error) (game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runner == nil {
		return game.State{}, domain.ErrNoGameActive
	}
	if fn == nil {
		return s.runner.Snapshot(), nil
	}
	return s.runner.Do(fn)
}

// GameTicking reports whether the mounted game's clock is live.
func (s *Session) GameTicking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runner != nil && s.runner.Ticking()
}

func (s *Session) Chat() *tutor.Chat { return s.chat }

// SubscribeGame streams game snapshots across lecture changes, primed with the
// current one when a game is mounted. The caller must invoke cancel.
func (s *Session) SubscribeGame() (<-chan game.State, func()) {
	ch := make(chan game.State, 8)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	if s.runner != nil {
		ch <- s.runner.Snapshot()
	}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// Close stops the game clock and releases subscribers.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.unmountGameLocked()
	s.quiz = nil

	s.subMu.Lock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

func (s *Session) mountGameLocked(lectureID int) {
	s.unmountGameLocked()
	lecture, err := s.catalog.Lecture(lectureID)
	if err != nil {
		return
	}
	runner := game.NewRunner(game.New(lecture.Game, s.gameOpts), s.newTicker, s.onFinish)
	s.runner = runner

	s.subMu.Lock()
	s.generation++
	gen := s.generation
	s.subMu.Unlock()

	updates, cancel := runner.Subscribe()
	go func() {
		defer cancel()
		for state := range updates {
			s.publish(gen, state)
		}
	}()
}

func (s *Session) unmountGameLocked() {
	if s.runner == nil {
		return
	}
	s.runner.Close()
	s.runner = nil
	s.subMu.Lock()
	s.generation++
	s.subMu.Unlock()
}

// publish fans a snapshot out unless it belongs to an unmounted game.
func (s *Session) publish(gen int, state game.State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if gen != s.generation {
		return
	}
	for ch := range s.subscribers {
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
}

// sendChat asks the tutor with a deadline detached from the caller, so a
// reply still lands in the transcript when the client goes away.
func (s *Session) sendChat(ctx context.Context, text string, timeout time.Duration) (tutor.Result, bool) {
	ctx = context.WithoutCancel(ctx)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.chat.Send(ctx, text)
}
