package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"psych-academy/internal/game"
	"psych-academy/internal/quiz"
	"psych-academy/internal/tutor"
)

var (
	tutorReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_tutor_replies_total",
			Help: "Tutor replies by outcome",
		},
		[]string{"kind"}, // ok, not_configured, transport_failure
	)

	gamesFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_games_finished_total",
			Help: "Lecture games played to completion",
		},
		[]string{"mode"},
	)

	gameScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "academy_game_score",
			Help:    "Final score of finished lecture games",
			Buckets: prometheus.LinearBuckets(0, 50, 10),
		},
		[]string{"mode"},
	)

	quizSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_quiz_submissions_total",
			Help: "Final quiz submissions by grade",
		},
		[]string{"grade"},
	)

	quizPercentages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "academy_quiz_percentage",
			Help:    "Percentage achieved on submitted quizzes",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "academy_sessions_current",
			Help: "Learner sessions currently held in memory",
		},
	)
)

// Recorder feeds domain events into the process-wide registry.
type Recorder struct{}

func (Recorder) TutorReply(kind tutor.ReplyKind) {
	tutorReplies.WithLabelValues(string(kind)).Inc()
}

func (Recorder) GameFinished(mode game.Mode, score int) {
	gamesFinished.WithLabelValues(string(mode)).Inc()
	gameScores.WithLabelValues(string(mode)).Observe(float64(score))
}

func (Recorder) QuizSubmitted(grade quiz.Grade, percentage float64) {
	quizSubmissions.WithLabelValues(string(grade)).Inc()
	quizPercentages.Observe(percentage)
}

func (Recorder) SessionOpened() { activeSessions.Inc() }
func (Recorder) SessionClosed() { activeSessions.Dec() }

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
