package entities

// Difficulty is an advisory, display-only question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is one of the known difficulties.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

type Question struct {
	Text             string     `json:"question" yaml:"question"`
	Options          []string   `json:"options" yaml:"options"`
	Answer           string     `json:"answer" yaml:"answer"` // text of the correct option
	Difficulty       Difficulty `json:"difficulty" yaml:"difficulty"`
	Explanation      string     `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	SectionReference string     `json:"section_reference,omitempty" yaml:"section_reference,omitempty"`
}

// IsCorrect reports whether option is the correct answer.
// Options are compared by exact text.
func (q Question) IsCorrect(option string) bool {
	return option == q.Answer
}
