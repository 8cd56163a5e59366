package quiz_test

import (
	"testing"

	"psych-academy/internal/domain"
	"psych-academy/internal/quiz"
)

func TestAllCorrectScenario(t *testing.T) {
	engine := quiz.New(tenQuestions())

	for i := 0; i < 10; i++ {
		engine.SelectAnswer(i, 0)
		if i < 9 {
			engine.Advance()
		}
	}
	engine.Submit()

	if engine.Phase() != quiz.PhaseSubmitted {
		t.Fatalf("expected submitted, got %s", engine.Phase())
	}
	if engine.Score() != 10 || engine.Percentage() != 100 {
		t.Fatalf("expected 10/100%%, got %d/%v", engine.Score(), engine.Percentage())
	}
	if engine.Grade() != quiz.GradeExcellent {
		t.Fatalf("expected excellent grade, got %s", engine.Grade())
	}

	engine.EnterReview()
	cards := engine.Review()
	if len(cards) != 10 {
		t.Fatalf("expected 10 review cards, got %d", len(cards))
	}
	for _, card := range cards {
		if !card.Correct || card.SelectionDiffers || card.Hint != "" {
			t.Fatalf("expected clean correct card, got %+v", card)
		}
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	engine := quiz.New(tenQuestions())

	engine.Advance()
	if engine.Current() != 0 {
		t.Fatalf("advance without answer moved to %d", engine.Current())
	}

	engine.Retreat()
	if engine.Current() != 0 {
		t.Fatalf("retreat below zero moved to %d", engine.Current())
	}

	engine.SelectAnswer(0, 1)
	engine.Advance()
	if engine.Current() != 1 {
		t.Fatalf("expected index 1, got %d", engine.Current())
	}
	engine.Retreat()
	if engine.Current() != 0 {
		t.Fatalf("expected index 0, got %d", engine.Current())
	}
}

func TestSelectionsFrozenAfterSubmit(t *testing.T) {
	questions := tenQuestions()[:2]
	engine := quiz.New(questions)

	engine.SelectAnswer(0, 1)
	engine.SelectAnswer(0, 0) // selections can change freely before submit
	engine.Advance()
	engine.Submit() // not answered yet
	if engine.Phase() != quiz.PhaseAnswering {
		t.Fatalf("submit without answer should be ignored")
	}
	engine.SelectAnswer(1, 2)
	engine.Submit()

	if engine.Score() != 1 {
		t.Fatalf("expected score 1, got %d", engine.Score())
	}
	engine.SelectAnswer(1, 0)
	if engine.Score() != 1 {
		t.Fatalf("selection after submit changed score to %d", engine.Score())
	}

	engine.EnterReview()
	cards := engine.Review()
	if !cards[1].SelectionDiffers || cards[1].Hint != "a" {
		t.Fatalf("expected wrong card with hint, got %+v", cards[1])
	}
}

func TestRetryIsIdempotent(t *testing.T) {
	engine := quiz.New(tenQuestions())
	for i := 0; i < 10; i++ {
		engine.SelectAnswer(i, 3)
		engine.Advance()
	}
	engine.Submit()
	engine.EnterReview()

	for i := 0; i < 2; i++ {
		engine.Retry()
		view := engine.Snapshot()
		if view.Index != 0 || len(view.Selected) != 0 || view.Phase != quiz.PhaseAnswering {
			t.Fatalf("retry %d left state %+v", i, view)
		}
	}
}

func TestSnapshotHidesAnswerWhileAnswering(t *testing.T) {
	engine := quiz.New(tenQuestions())
	view := engine.Snapshot()
	if view.Question.CorrectAnswer != -1 || view.Question.Explanation != "" {
		t.Fatalf("answer leaked while answering: %+v", view.Question)
	}
	if view.Score != nil {
		t.Fatalf("score exposed before submit")
	}
}

func tenQuestions() []domain.Question {
	questions := make([]domain.Question, 10)
	for i := range questions {
		questions[i] = domain.Question{
			ID:            i + 1,
			Text:          "question",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
			Explanation:   "because",
		}
	}
	return questions
}
