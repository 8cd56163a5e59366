package navigator

import (
	"fmt"

	"psych-academy/internal/domain"
)

// View is the top-level screen a learner is on.
type View string

const (
	ViewHome    View = "home"
	ViewLecture View = "lecture"
	ViewQuiz    View = "quiz"
)

// transitions lists every allowed view change; lecture→lecture covers prev/next.
var transitions = map[View]map[View]bool{
	ViewHome:    {ViewLecture: true, ViewQuiz: true},
	ViewLecture: {ViewHome: true, ViewLecture: true, ViewQuiz: true},
	ViewQuiz:    {ViewHome: true},
}

// Allowed reports whether from→to is in the transition table.
func Allowed(from, to View) bool {
	return transitions[from][to]
}

// Lectures is the slice of the catalog the navigator needs.
type Lectures interface {
	Lecture(id int) (domain.Lecture, error)
	Neighbors(id int) (prev, next *domain.Lecture, err error)
}

// Navigator holds the current view and the selected lecture.
type Navigator struct {
	lectures Lectures
	view     View
	lecture  int
}

func New(lectures Lectures) *Navigator {
	return &Navigator{lectures: lectures, view: ViewHome}
}

func (n *Navigator) View() View { return n.view }

// LectureID is the selected lecture, 0 when none.
func (n *Navigator) LectureID() int { return n.lecture }

func (n *Navigator) OpenLecture(id int) error {
	if _, err := n.lectures.Lecture(id); err != nil {
		return err
	}
	if err := n.move(ViewLecture); err != nil {
		return err
	}
	n.lecture = id
	return nil
}

func (n *Navigator) Home() error {
	if err := n.move(ViewHome); err != nil {
		return err
	}
	n.lecture = 0
	return nil
}

func (n *Navigator) OpenQuiz() error {
	if err := n.move(ViewQuiz); err != nil {
		return err
	}
	n.lecture = 0
	return nil
}

func (n *Navigator) PrevLecture() error {
	prev, _, err := n.neighbors()
	if err != nil {
		return err
	}
	if prev == nil {
		return fmt.Errorf("%w: no lecture before %d", domain.ErrIllegalTransition, n.lecture)
	}
	return n.OpenLecture(prev.ID)
}

func (n *Navigator) NextLecture() error {
	_, next, err := n.neighbors()
	if err != nil {
		return err
	}
	if next == nil {
		return fmt.Errorf("%w: no lecture after %d", domain.ErrIllegalTransition, n.lecture)
	}
	return n.OpenLecture(next.ID)
}

func (n *Navigator) neighbors() (*domain.Lecture, *domain.Lecture, error) {
	if n.view != ViewLecture {
		return nil, nil, fmt.Errorf("%w: not on a lecture", domain.ErrIllegalTransition)
	}
	return n.lectures.Neighbors(n.lecture)
}

func (n *Navigator) move(to View) error {
	if !Allowed(n.view, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, n.view, to)
	}
	n.view = to
	return nil
}
