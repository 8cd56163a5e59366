package game

import "psych-academy/internal/domain"

const (
	DefaultCountdown = 10
	SpeedBonusFactor = 10
	WrongPenalty     = 20
	urgentBelow      = 4
)

// Feedback is the verdict shown after a quick question is answered.
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackCorrect Feedback = "correct"
	FeedbackWrong   Feedback = "wrong"
)

// QuickQA is the timed multiple-choice sub-game. While an explanation is
// visible the countdown does not move.
type QuickQA struct {
	questions []domain.QuickQuestion
	start     int

	index       int
	countdown   int
	score       int
	elapsed     int
	feedback    Feedback
	explanation bool
	active      bool
	finished    bool
}

func NewQuickQA(questions []domain.QuickQuestion, countdown int) *QuickQA {
	if countdown <= 0 {
		countdown = DefaultCountdown
	}
	return &QuickQA{questions: questions, start: countdown, countdown: countdown}
}

func (q *QuickQA) Start() {
	if q.active || q.finished || len(q.questions) == 0 {
		return
	}
	q.active = true
	q.index = 0
	q.countdown = q.start
}

// Tick advances the per-question countdown; reaching zero counts as a wrong answer.
func (q *QuickQA) Tick() {
	if !q.active || q.finished {
		return
	}
	q.elapsed++
	if q.explanation {
		return
	}
	q.countdown--
	if q.countdown <= 0 {
		q.countdown = 0
		q.AnswerCorrect(false)
	}
}

// Answer resolves optionIndex against the current question.
func (q *QuickQA) Answer(optionIndex int) {
	if !q.active || q.finished || q.explanation {
		return
	}
	cur := q.questions[q.index]
	if optionIndex < 0 || optionIndex >= len(cur.Options) {
		return
	}
	q.AnswerCorrect(optionIndex == cur.CorrectAnswer)
}

// AnswerCorrect applies the scoring rule for a correct or wrong answer.
func (q *QuickQA) AnswerCorrect(correct bool) {
	if !q.active || q.finished || q.explanation {
		return
	}
	if correct {
		q.score += q.countdown * SpeedBonusFactor
		q.feedback = FeedbackCorrect
	} else {
		q.score = max(0, q.score-WrongPenalty)
		q.feedback = FeedbackWrong
	}
	q.explanation = true
}

// Next leaves the explanation and moves on, finishing after the last question.
func (q *QuickQA) Next() {
	if !q.explanation {
		return
	}
	q.explanation = false
	q.feedback = FeedbackNone
	if q.index < len(q.questions)-1 {
		q.index++
		q.countdown = q.start
		return
	}
	q.finished = true
	q.active = false
}

func (q *QuickQA) Score() int { return q.score }
func (q *QuickQA) Elapsed() int { return q.elapsed }
func (q *QuickQA) Index() int { return q.index }
func (q *QuickQA) Countdown() int { return q.countdown }
func (q *QuickQA) Feedback() Feedback { return q.feedback }
func (q *QuickQA) ShowingExplanation() bool { return q.explanation }
func (q *QuickQA) Active() bool { return q.active }
func (q *QuickQA) Finished() bool { return q.finished }

// Urgent reports the last seconds of a countdown.
func (q *QuickQA) Urgent() bool {
	return q.active && !q.explanation && q.countdown < urgentBelow
}

// QuickQAView is the serializable state of the quick-QA sub-game.
type QuickQAView struct {
	Index       int                   `json:"index"`
	Total       int                   `json:"total"`
	Question    *domain.QuickQuestion `json:"question,omitempty"`
	Countdown   int                   `json:"countdown"`
	Urgent      bool                  `json:"urgent"`
	Score       int                   `json:"score"`
	Elapsed     int                   `json:"elapsed"`
	Feedback    Feedback              `json:"feedback,omitempty"`
	Explanation bool                  `json:"showExplanation"`
	Active      bool                  `json:"active"`
	Finished    bool                  `json:"finished"`
}

// View hides the answer and explanation until the question has been answered.
func (q *QuickQA) View() QuickQAView {
	v := QuickQAView{
		Index:       q.index,
		Total:       len(q.questions),
		Countdown:   q.countdown,
		Urgent:      q.Urgent(),
		Score:       q.score,
		Elapsed:     q.elapsed,
		Feedback:    q.feedback,
		Explanation: q.explanation,
		Active:      q.active,
		Finished:    q.finished,
	}
	if q.active {
		cur := q.questions[q.index]
		cur.Options = append([]string(nil), cur.Options...)
		if !q.explanation {
			cur.CorrectAnswer = -1
			cur.Explanation = ""
		}
		v.Question = &cur
	}
	return v
}
