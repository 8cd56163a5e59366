package content

import (
	"fmt"

	"psych-academy/internal/domain"
)

// Catalog is a read-only view over a validated course.
type Catalog struct {
	course domain.Course
	index  map[int]int
}

// NewCatalog validates course and wraps it. The course is deep-copied so later
// mutation of the argument cannot leak into the catalog.
func NewCatalog(course domain.Course) (*Catalog, error) {
	if err := Validate(course); err != nil {
		return nil, err
	}
	c := &Catalog{
		course: cloneCourse(course),
		index:  make(map[int]int, len(course.Lectures)),
	}
	for i, l := range c.course.Lectures {
		c.index[l.ID] = i
	}
	return c, nil
}

// Validate checks the content invariants: unique positive lecture ids, unique
// pair ids per game and in-range correct answers.
func Validate(course domain.Course) error {
	seen := make(map[int]bool, len(course.Lectures))
	for _, l := range course.Lectures {
		if l.ID <= 0 || seen[l.ID] {
			return fmt.Errorf("%w: lecture id %d", domain.ErrInvalidContent, l.ID)
		}
		seen[l.ID] = true

		pairs := make(map[string]bool, len(l.Game.Pairs))
		for _, p := range l.Game.Pairs {
			if p.ID == "" || pairs[p.ID] {
				return fmt.Errorf("%w: lecture %d pair %q", domain.ErrInvalidContent, l.ID, p.ID)
			}
			pairs[p.ID] = true
		}
		for _, q := range l.Game.QuickQA {
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return fmt.Errorf("%w: quick question %q answer %d", domain.ErrInvalidContent, q.ID, q.CorrectAnswer)
			}
		}
	}
	for _, q := range course.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%w: question %d answer %d", domain.ErrInvalidContent, q.ID, q.CorrectAnswer)
		}
	}
	return nil
}

func (c *Catalog) ID() string    { return c.course.ID }
func (c *Catalog) Title() string { return c.course.Title }

// Course returns a copy of the full course.
func (c *Catalog) Course() domain.Course {
	return cloneCourse(c.course)
}

func (c *Catalog) Lectures() []domain.Lecture {
	out := make([]domain.Lecture, len(c.course.Lectures))
	for i, l := range c.course.Lectures {
		out[i] = cloneLecture(l)
	}
	return out
}

func (c *Catalog) Lecture(id int) (domain.Lecture, error) {
	i, ok := c.index[id]
	if !ok {
		return domain.Lecture{}, domain.ErrLectureNotFound
	}
	return cloneLecture(c.course.Lectures[i]), nil
}

func (c *Catalog) Questions() []domain.Question {
	out := make([]domain.Question, len(c.course.Questions))
	for i, q := range c.course.Questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

// Glossary flattens every lecture glossary in catalog order.
func (c *Catalog) Glossary() []domain.GlossaryTerm {
	var out []domain.GlossaryTerm
	for _, l := range c.course.Lectures {
		out = append(out, l.Glossary...)
	}
	return out
}

// Neighbors returns the lectures before and after id; either may be nil.
func (c *Catalog) Neighbors(id int) (prev, next *domain.Lecture, err error) {
	i, ok := c.index[id]
	if !ok {
		return nil, nil, domain.ErrLectureNotFound
	}
	if i > 0 {
		l := cloneLecture(c.course.Lectures[i-1])
		prev = &l
	}
	if i < len(c.course.Lectures)-1 {
		l := cloneLecture(c.course.Lectures[i+1])
		next = &l
	}
	return prev, next, nil
}

// Progress is the course progress bar percentage for a lecture.
func (c *Catalog) Progress(id int) float64 {
	if len(c.course.Lectures) == 0 {
		return 0
	}
	return float64(id) / float64(len(c.course.Lectures)) * 100
}

func cloneCourse(c domain.Course) domain.Course {
	out := domain.Course{ID: c.ID, Title: c.Title}
	out.Lectures = make([]domain.Lecture, len(c.Lectures))
	for i, l := range c.Lectures {
		out.Lectures[i] = cloneLecture(l)
	}
	out.Questions = make([]domain.Question, len(c.Questions))
	for i, q := range c.Questions {
		out.Questions[i] = cloneQuestion(q)
	}
	return out
}

func cloneLecture(l domain.Lecture) domain.Lecture {
	l.Objectives = append([]string(nil), l.Objectives...)
	l.Glossary = append([]domain.GlossaryTerm(nil), l.Glossary...)
	l.Game.Pairs = append([]domain.GamePair(nil), l.Game.Pairs...)
	qa := make([]domain.QuickQuestion, len(l.Game.QuickQA))
	for i, q := range l.Game.QuickQA {
		q.Options = append([]string(nil), q.Options...)
		qa[i] = q
	}
	l.Game.QuickQA = qa
	return l
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
