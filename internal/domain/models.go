package domain

// GlossaryTerm is a single term/definition pair shown alongside a lecture.
type GlossaryTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// GamePair links a term to exactly one description in the matching game.
type GamePair struct {
	ID          string `json:"id"`
	Term        string `json:"term"`
	Description string `json:"description"`
}

// QuickQuestion is a timed multiple-choice question of a lecture game.
type QuickQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// LectureGame bundles the mini-games attached to a lecture.
type LectureGame struct {
	Title       string          `json:"title"`
	Instruction string          `json:"instruction"`
	Pairs       []GamePair      `json:"pairs"`
	QuickQA     []QuickQuestion `json:"quickQA,omitempty"`
}

// Lecture is one unit of the course. ID is its 1-based ordinal.
type Lecture struct {
	ID         int            `json:"id"`
	Title      string         `json:"title"`
	Objectives []string       `json:"objectives"`
	Content    string         `json:"content"`
	Icon       string         `json:"icon"`
	Glossary   []GlossaryTerm `json:"glossary"`
	Game       LectureGame    `json:"game"`
}

// Question is a final-quiz question.
type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Course is the whole catalog: ordered lectures plus the final quiz.
type Course struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Lectures  []Lecture  `json:"lectures"`
	Questions []Question `json:"questions"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one entry of a tutor transcript.
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
