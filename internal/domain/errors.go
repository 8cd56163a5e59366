package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a learner session does not exist or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrCourseNotFound indicates the course content could not be loaded.
	ErrCourseNotFound = errors.New("course not found")
	// ErrLectureNotFound indicates a lecture id outside the catalog.
	ErrLectureNotFound = errors.New("lecture not found")
	// ErrInvalidContent is returned when course content violates catalog invariants.
	ErrInvalidContent = errors.New("invalid course content")
	// ErrIllegalTransition is returned by the navigator for a disallowed view change.
	ErrIllegalTransition = errors.New("illegal view transition")
	// ErrNoQuizActive is returned when quiz operations are used outside the quiz view.
	ErrNoQuizActive = errors.New("no quiz attempt in progress")
	// ErrNoGameActive is returned when game operations are used outside a lecture.
	ErrNoGameActive = errors.New("no lecture game mounted")
	// ErrTutorNotConfigured means the answer-generation backend has no credentials.
	ErrTutorNotConfigured = errors.New("tutor backend not configured")
	// ErrTutorUnavailable wraps transport or remote failures of the tutor backend.
	ErrTutorUnavailable = errors.New("tutor backend unavailable")
)
