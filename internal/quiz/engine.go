package quiz

import "psych-academy/internal/domain"

// Phase is the coarse state of a quiz attempt.
type Phase string

const (
	PhaseAnswering Phase = "answering"
	PhaseSubmitted Phase = "submitted"
	PhaseReviewing Phase = "reviewing"
)

// Grade buckets a percentage into the result message tiers.
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeReview    Grade = "review"
)

// Engine holds one attempt at the final quiz. It is not safe for concurrent
// use; the session layer serializes access.
type Engine struct {
	questions []domain.Question
	current   int
	selected  map[int]int
	submitted bool
	review    bool
}

func New(questions []domain.Question) *Engine {
	return &Engine{
		questions: questions,
		selected:  make(map[int]int),
	}
}

// SelectAnswer records optionIndex for questionIndex. Ignored once submitted
// or when either index is out of range.
func (e *Engine) SelectAnswer(questionIndex, optionIndex int) {
	if e.submitted {
		return
	}
	if questionIndex < 0 || questionIndex >= len(e.questions) {
		return
	}
	if optionIndex < 0 || optionIndex >= len(e.questions[questionIndex].Options) {
		return
	}
	e.selected[questionIndex] = optionIndex
}

// Advance moves to the next question once the current one is answered.
func (e *Engine) Advance() {
	if e.submitted || e.current >= len(e.questions)-1 {
		return
	}
	if _, ok := e.selected[e.current]; !ok {
		return
	}
	e.current++
}

func (e *Engine) Retreat() {
	if e.submitted || e.current == 0 {
		return
	}
	e.current--
}

// Submit scores the attempt. It requires the last question to be current and answered.
func (e *Engine) Submit() {
	if e.submitted || len(e.questions) == 0 || e.current != len(e.questions)-1 {
		return
	}
	if _, ok := e.selected[e.current]; !ok {
		return
	}
	e.submitted = true
}

func (e *Engine) EnterReview() {
	if e.submitted {
		e.review = true
	}
}

// Retry discards every selection and returns to the first question.
func (e *Engine) Retry() {
	e.current = 0
	e.selected = make(map[int]int)
	e.submitted = false
	e.review = false
}

func (e *Engine) Score() int {
	score := 0
	for i, q := range e.questions {
		if choice, ok := e.selected[i]; ok && choice == q.CorrectAnswer {
			score++
		}
	}
	return score
}

func (e *Engine) Percentage() float64 {
	if len(e.questions) == 0 {
		return 0
	}
	return float64(e.Score()) / float64(len(e.questions)) * 100
}

func (e *Engine) Grade() Grade {
	switch p := e.Percentage(); {
	case p >= 80:
		return GradeExcellent
	case p >= 50:
		return GradeGood
	default:
		return GradeReview
	}
}

func (e *Engine) Phase() Phase {
	switch {
	case e.review:
		return PhaseReviewing
	case e.submitted:
		return PhaseSubmitted
	default:
		return PhaseAnswering
	}
}

func (e *Engine) Current() int { return e.current }

// Selected returns the chosen option for questionIndex.
func (e *Engine) Selected(questionIndex int) (int, bool) {
	choice, ok := e.selected[questionIndex]
	return choice, ok
}

// ReviewCard is the per-question breakdown shown after submission.
type ReviewCard struct {
	Index            int      `json:"index"`
	Text             string   `json:"text"`
	Options          []string `json:"options"`
	Selected         *int     `json:"selected"`
	CorrectAnswer    int      `json:"correctAnswer"`
	Correct          bool     `json:"correct"`
	SelectionDiffers bool     `json:"selectionDiffers"`
	Explanation      string   `json:"explanation"`
	Hint             string   `json:"hint,omitempty"`
}

// Review lists one card per question. It is empty until the attempt is submitted.
func (e *Engine) Review() []ReviewCard {
	if !e.submitted {
		return nil
	}
	cards := make([]ReviewCard, 0, len(e.questions))
	for i, q := range e.questions {
		card := ReviewCard{
			Index:         i,
			Text:          q.Text,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
		if choice, ok := e.selected[i]; ok {
			c := choice
			card.Selected = &c
			card.Correct = choice == q.CorrectAnswer
			card.SelectionDiffers = !card.Correct
		}
		if !card.Correct {
			card.Hint = q.Options[q.CorrectAnswer]
		}
		cards = append(cards, card)
	}
	return cards
}

// View is a serializable snapshot of the attempt.
type View struct {
	Phase      Phase           `json:"phase"`
	Index      int             `json:"currentQuestionIndex"`
	Total      int             `json:"total"`
	Question   domain.Question `json:"question"`
	Selected   map[int]int     `json:"selectedAnswers"`
	CanAdvance bool            `json:"canAdvance"`
	CanSubmit  bool            `json:"canSubmit"`
	Score      *int            `json:"score,omitempty"`
	Percentage *float64        `json:"percentage,omitempty"`
	Grade      Grade           `json:"grade,omitempty"`
	Review     []ReviewCard    `json:"review,omitempty"`
}

// Snapshot renders the attempt. The correct answer of the current question is
// hidden while answering.
func (e *Engine) Snapshot() View {
	v := View{
		Phase:    e.Phase(),
		Index:    e.current,
		Total:    len(e.questions),
		Selected: make(map[int]int, len(e.selected)),
	}
	for k, val := range e.selected {
		v.Selected[k] = val
	}
	if len(e.questions) > 0 {
		q := e.questions[e.current]
		q.Options = append([]string(nil), q.Options...)
		if !e.submitted {
			q.CorrectAnswer = -1
			q.Explanation = ""
		}
		v.Question = q
	}
	_, answered := e.selected[e.current]
	last := e.current == len(e.questions)-1
	v.CanAdvance = !e.submitted && answered && !last
	v.CanSubmit = !e.submitted && answered && last
	if e.submitted {
		score := e.Score()
		pct := e.Percentage()
		v.Score = &score
		v.Percentage = &pct
		v.Grade = e.Grade()
	}
	if e.review {
		v.Review = e.Review()
	}
	return v
}
