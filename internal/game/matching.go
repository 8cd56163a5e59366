package game

import (
	"fmt"
	"time"

	"psych-academy/internal/domain"
)

const (
	MatchReward     = 50
	MismatchPenalty = 15
	// ErrorFlash is how long a wrongly chosen description stays flagged.
	ErrorFlash = 500 * time.Millisecond
)

// Matching is the click-to-match sub-game.
type Matching struct {
	pairs    []domain.GamePair
	terms    []domain.GamePair
	descs    []domain.GamePair
	known    map[string]bool
	matched  map[string]bool
	order    []string
	selected string

	errored   string
	erroredAt time.Time
	now       func() time.Time

	score    int
	elapsed  int
	active   bool
	finished bool
}

// NewMatching shuffles pairs twice, once for the term column and once for the
// description column.
func NewMatching(pairs []domain.GamePair, seed int64, now func() time.Time) *Matching {
	known := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		known[p.ID] = true
	}
	return &Matching{
		pairs:   pairs,
		terms:   Shuffle(pairs, seed),
		descs:   Shuffle(pairs, seed+1),
		known:   known,
		matched: make(map[string]bool, len(pairs)),
		now:     now,
	}
}

// SelectTerm activates a term. The first call starts the clock.
func (m *Matching) SelectTerm(id string) {
	if m.finished || !m.known[id] || m.matched[id] {
		return
	}
	m.active = true
	m.selected = id
	m.errored = ""
}

// SelectDescription tries to match the active term with description id.
func (m *Matching) SelectDescription(id string) {
	if m.finished || m.selected == "" || !m.known[id] || m.matched[id] {
		return
	}
	if id != m.selected {
		m.errored = id
		m.erroredAt = m.now()
		m.score = max(0, m.score-MismatchPenalty)
		return
	}

	m.matched[id] = true
	m.order = append(m.order, id)
	m.selected = ""
	m.score += MatchReward
	if len(m.matched) == len(m.pairs) {
		m.finished = true
		m.active = false
	}
}

func (m *Matching) Tick() {
	if m.active && !m.finished {
		m.elapsed++
	}
}

// ErroredID is the description currently flagged as a wrong match, or "".
func (m *Matching) ErroredID() string {
	if m.errored == "" || m.now().Sub(m.erroredAt) >= ErrorFlash {
		return ""
	}
	return m.errored
}

func (m *Matching) Score() int { return m.score }
func (m *Matching) Elapsed() int { return m.elapsed }
func (m *Matching) Active() bool { return m.active }
func (m *Matching) Finished() bool { return m.finished }
func (m *Matching) SelectedID() string { return m.selected }
func (m *Matching) IsMatched(id string) bool {
	return m.matched[id]
}

// FormatElapsed renders elapsed seconds as m:ss.
func (m *Matching) FormatElapsed() string {
	return fmt.Sprintf("%d:%02d", m.elapsed/60, m.elapsed%60)
}

// MatchingView is the serializable state of the matching sub-game.
type MatchingView struct {
	Terms        []Card   `json:"terms"`
	Descriptions []Card   `json:"descriptions"`
	Matched      []string `json:"matched"`
	SelectedTerm string   `json:"selectedTerm,omitempty"`
	ErroredID    string   `json:"erroredId,omitempty"`
	Score        int      `json:"score"`
	Elapsed      int      `json:"elapsed"`
	ElapsedText  string   `json:"elapsedText"`
	Active       bool     `json:"active"`
	Finished     bool     `json:"finished"`
}

// Card is one clickable cell of a matching column.
type Card struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (m *Matching) View() MatchingView {
	v := MatchingView{
		Terms:        make([]Card, len(m.terms)),
		Descriptions: make([]Card, len(m.descs)),
		Matched:      append([]string{}, m.order...),
		SelectedTerm: m.selected,
		ErroredID:    m.ErroredID(),
		Score:        m.score,
		Elapsed:      m.elapsed,
		ElapsedText:  m.FormatElapsed(),
		Active:       m.active,
		Finished:     m.finished,
	}
	for i, p := range m.terms {
		v.Terms[i] = Card{ID: p.ID, Text: p.Term}
	}
	for i, p := range m.descs {
		v.Descriptions[i] = Card{ID: p.ID, Text: p.Description}
	}
	return v
}
