package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"psych-academy/internal/content"
	"psych-academy/internal/domain"
	"psych-academy/internal/game"
	"psych-academy/internal/quiz"
	"psych-academy/internal/tutor"
)

// SessionRepository abstracts how learner sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, bool)
	Delete(ctx context.Context, id string)
}

// CourseRepository loads validated course content (from cache/backing store).
type CourseRepository interface {
	GetCourse(ctx context.Context, courseID string) (*content.Catalog, error)
}

// Recorder receives domain events worth counting.
type Recorder interface {
	TutorReply(kind tutor.ReplyKind)
	GameFinished(mode game.Mode, score int)
	QuizSubmitted(grade quiz.Grade, percentage float64)
	SessionOpened()
	SessionClosed()
}

type nopRecorder struct{}

func (nopRecorder) TutorReply(tutor.ReplyKind) {}
func (nopRecorder) GameFinished(game.Mode, int) {}
func (nopRecorder) QuizSubmitted(quiz.Grade, float64) {}
func (nopRecorder) SessionOpened() {}
func (nopRecorder) SessionClosed() {}

// Options wires collaborators into the service. Zero values are usable.
type Options struct {
	DefaultCourseID string
	Countdown       int
	ChatTimeout     time.Duration
	Generator       tutor.Generator
	Recorder        Recorder
	NewTicker       game.TickerFactory
	Now             func() time.Time
	Seed            func() int64
	NewID           func() string
}

// AcademyService contains the learner-facing use cases.
type AcademyService struct {
	sessions SessionRepository
	courses  CourseRepository
	opts     Options
	replier  *tutor.Boundary
}

func NewAcademyService(store SessionRepository, courses CourseRepository, opts Options) *AcademyService {
	if opts.DefaultCourseID == "" {
		opts.DefaultCourseID = content.BundledCourseID
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	if opts.ChatTimeout <= 0 {
		opts.ChatTimeout = 30 * time.Second
	}
	return &AcademyService{
		sessions: store,
		courses:  courses,
		opts:     opts,
		replier:  tutor.NewBoundary(opts.Generator, opts.Recorder.TutorReply),
	}
}

// Course returns the catalog for courseID, or the default course when empty.
func (s *AcademyService) Course(ctx context.Context, courseID string) (*content.Catalog, error) {
	if courseID == "" {
		courseID = s.opts.DefaultCourseID
	}
	return s.courses.GetCourse(ctx, courseID)
}

// StartSession opens a learner session on the home view.
func (s *AcademyService) StartSession(ctx context.Context, courseID string) (*Session, error) {
	catalog, err := s.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}

	rec := s.opts.Recorder
	session := newSession(s.opts.NewID(), catalog, s.opts.Now, sessionDeps{
		gameOpts: game.Options{
			Countdown: s.opts.Countdown,
			Seed:      s.opts.Seed,
			Now:       s.opts.Now,
		},
		newTicker: s.opts.NewTicker,
		onFinish:  rec.GameFinished,
		replier:   s.replier,
	})
	if err := s.sessions.Save(ctx, session); err != nil {
		session.Close()
		return nil, fmt.Errorf("save session: %w", err)
	}
	rec.SessionOpened()
	log.WithFields(log.Fields{"session": session.ID(), "course": catalog.ID()}).Info("session started")
	return session, nil
}

// EndSession stops the session's game clock and forgets it.
func (s *AcademyService) EndSession(ctx context.Context, sessionID string) error {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Close()
	s.sessions.Delete(ctx, sessionID)
	s.opts.Recorder.SessionClosed()
	log.WithField("session", sessionID).Info("session ended")
	return nil
}

func (s *AcademyService) Session(ctx context.Context, sessionID string) (*Session, error) {
	return s.session(ctx, sessionID)
}

func (s *AcademyService) View(ctx context.Context, sessionID string) (ViewState, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}
	return session.View(), nil
}

func (s *AcademyService) Navigate(ctx context.Context, sessionID string, action NavAction, lectureID int) (ViewState, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}
	return session.Navigate(action, lectureID)
}

func (s *AcademyService) QuizState(ctx context.Context, sessionID string) (quiz.View, error) {
	return s.withQuiz(ctx, sessionID, nil)
}

func (s *AcademyService) SelectAnswer(ctx context.Context, sessionID string, questionIndex, optionIndex int) (quiz.View, error) {
	return s.withQuiz(ctx, sessionID, func(e *quiz.Engine) { e.SelectAnswer(questionIndex, optionIndex) })
}

func (s *AcademyService) AdvanceQuiz(ctx context.Context, sessionID string) (quiz.View, error) {
	return s.withQuiz(ctx, sessionID, (*quiz.Engine).Advance)
}

func (s *AcademyService) RetreatQuiz(ctx context.Context, sessionID string) (quiz.View, error) {
	return s.withQuiz(ctx, sessionID, (*quiz.Engine).Retreat)
}

// SubmitQuiz scores the attempt; the submission is recorded once per attempt.
func (s *AcademyService) SubmitQuiz(ctx context.Context, sessionID string) (quiz.View, error) {
	return s.withQuiz(ctx, sessionID, func(e *quiz.Engine) {
		if e.Phase() != quiz.PhaseAnswering {
			return
		}
		e.Submit()
		if e.Phase() == quiz.PhaseSubmitted {
			s.opts.Recorder.QuizSubmitted(e.Grade(), e.Percentage())
		}
	})
}

func (s *AcademyService) ReviewQuiz(ctx context.Context, sessionID string) (quiz.View, error) {
	return s.withQuiz(ctx, sessionID, (*quiz.Engine).EnterReview)
}

func (s *AcademyService) RetryQuiz(ctx context.Context, sessionID string) (quiz.View, error) {
	return s.withQuiz(ctx, sessionID, (*quiz.Engine).Retry)
}

func (s *AcademyService) withQuiz(ctx context.Context, sessionID string, fn func(*quiz.Engine)) (quiz.View, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return quiz.View{}, err
	}
	return session.WithQuiz(fn)
}

func (s *AcademyService) GameState(ctx context.Context, sessionID string) (game.State, error) {
	return s.withGame(ctx, sessionID, nil)
}

// SetGameMode mounts a sub-game; any mode change discards progress and stops the clock.
func (s *AcademyService) SetGameMode(ctx context.Context, sessionID string, mode game.Mode) (game.State, error) {
	return s.withGame(ctx, sessionID, func(g *game.Game) error { return g.SetMode(mode) })
}

func (s *AcademyService) ResetGame(ctx context.Context, sessionID string) (game.State, error) {
	return s.withGame(ctx, sessionID, func(g *game.Game) error {
		g.Reset()
		return nil
	})
}

func (s *AcademyService) SelectTerm(ctx context.Context, sessionID, pairID string) (game.State, error) {
	return s.withMatching(ctx, sessionID, func(m *game.Matching) { m.SelectTerm(pairID) })
}

func (s *AcademyService) SelectDescription(ctx context.Context, sessionID, pairID string) (game.State, error) {
	return s.withMatching(ctx, sessionID, func(m *game.Matching) { m.SelectDescription(pairID) })
}

func (s *AcademyService) StartQuickQA(ctx context.Context, sessionID string) (game.State, error) {
	return s.withQuickQA(ctx, sessionID, (*game.QuickQA).Start)
}

func (s *AcademyService) AnswerQuickQA(ctx context.Context, sessionID string, optionIndex int) (game.State, error) {
	return s.withQuickQA(ctx, sessionID, func(q *game.QuickQA) { q.Answer(optionIndex) })
}

func (s *AcademyService) NextQuickQA(ctx context.Context, sessionID string) (game.State, error) {
	return s.withQuickQA(ctx, sessionID, (*game.QuickQA).Next)
}

// SubscribeGame returns a channel of game snapshots for the session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *AcademyService) SubscribeGame(ctx context.Context, sessionID string) (<-chan game.State, func(), error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.SubscribeGame()
	return ch, cancel, nil
}

func (s *AcademyService) withGame(ctx context.Context, sessionID string, fn func(*game.Game) error) (game.State, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return game.State{}, err
	}
	return session.WithGame(fn)
}

func (s *AcademyService) withMatching(ctx context.Context, sessionID string, fn func(*game.Matching)) (game.State, error) {
	return s.withGame(ctx, sessionID, func(g *game.Game) error {
		if g.Mode() != game.ModeMatching {
			return fmt.Errorf("%w: matching game not selected", domain.ErrNoGameActive)
		}
		fn(g.Matching())
		return nil
	})
}

func (s *AcademyService) withQuickQA(ctx context.Context, sessionID string, fn func(*game.QuickQA)) (game.State, error) {
	return s.withGame(ctx, sessionID, func(g *game.Game) error {
		if g.Mode() != game.ModeQuickQA {
			return fmt.Errorf("%w: quick questions not selected", domain.ErrNoGameActive)
		}
		fn(g.QuickQA())
		return nil
	})
}

// ChatState is the tutor transcript as shown to the learner.
type ChatState struct {
	Messages []domain.ChatMessage `json:"messages"`
	Loading  bool                 `json:"loading"`
}

func (s *AcademyService) Chat(ctx context.Context, sessionID string) (ChatState, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return ChatState{}, err
	}
	return chatState(session.Chat()), nil
}

// SendChat forwards text to the tutor. accepted is false for blank text or
// while a previous message is still awaiting its reply.
func (s *AcademyService) SendChat(ctx context.Context, sessionID, text string) (state ChatState, accepted bool, err error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return ChatState{}, false, err
	}
	res, accepted := session.sendChat(ctx, text, s.opts.ChatTimeout)
	if accepted && res.Kind != tutor.ReplyOK {
		log.WithFields(log.Fields{"session": sessionID, "kind": res.Kind}).Warn("tutor replied with apology")
	}
	return chatState(session.Chat()), accepted, nil
}

func chatState(c *tutor.Chat) ChatState {
	return ChatState{Messages: c.Messages(), Loading: c.Loading()}
}

func (s *AcademyService) session(ctx context.Context, sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
