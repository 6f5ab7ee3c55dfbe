package session

import "github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"

// OptionState classifies an option once the attempt is submitted.
type OptionState int

const (
	// OptionNeutral is neither the correct answer nor a wrong choice.
	OptionNeutral OptionState = iota
	// OptionCorrect is the correct answer.
	OptionCorrect
	// OptionSelectedIncorrect is the user's choice and is wrong.
	OptionSelectedIncorrect
)

// Band is a qualitative score category.
type Band string

const (
	BandPerfect        Band = "perfect"
	BandGreat          Band = "great"
	BandGood           Band = "good"
	BandKeepPracticing Band = "keepPracticing"
)

// Message is the encouragement shown with the score.
func (b Band) Message() string {
	switch b {
	case BandPerfect:
		return "Perfect score! Excellent work! 🌟"
	case BandGreat:
		return "Great job! 👏"
	case BandGood:
		return "Good effort! 👍"
	default:
		return "Keep practicing! 💪"
	}
}

// Progress counts answered questions.
type Progress struct {
	Answered int
	Total    int
}

// OptionView is a single option as displayed.
type OptionView struct {
	Label    string // "A", "B", ...
	Text     string
	Selected bool
	State    OptionState // always OptionNeutral before submission
}

// QuestionView is the displayed question.
type QuestionView struct {
	Index       int
	Text        string
	Difficulty  entities.Difficulty
	Explanation string // revealed only after submission
	Options     []OptionView
	Answered    bool
}

// ScoreSummary is the result of a submitted attempt.
type ScoreSummary struct {
	Score      int
	Total      int
	Percentage int
	Band       Band
}

// View is a read-only projection of a session for a presentation layer.
type View struct {
	Title     string
	Progress  Progress
	Current   QuestionView
	Answered  []bool // per question, for jump navigation
	IsFirst   bool
	IsLast    bool
	CanSubmit bool
	Submitted bool
	Summary   *ScoreSummary // nil until submitted
}

// View projects the session. It never mutates the session.
func (s *Session) View() View {
	n := len(s.doc.Questions)

	answered := make([]bool, n)
	for i := range answered {
		_, answered[i] = s.selections[i]
	}

	v := View{
		Title:     s.doc.Title,
		Progress:  Progress{Answered: len(s.selections), Total: n},
		Current:   s.questionView(s.current),
		Answered:  answered,
		IsFirst:   s.current == 0,
		IsLast:    s.current == n-1,
		CanSubmit: len(s.selections) == n && !s.submitted,
		Submitted: s.submitted,
	}

	if s.submitted {
		summary := Summarize(s.score, n)
		v.Summary = &summary
	}

	return v
}

// IsAnswered reports whether question i has a selection.
func (s *Session) IsAnswered(i int) bool {
	_, ok := s.selections[i]
	return ok
}

// CanSubmit reports whether every question is answered and the attempt is still open.
func (s *Session) CanSubmit() bool {
	return len(s.selections) == len(s.doc.Questions) && !s.submitted
}

func (s *Session) questionView(i int) QuestionView {
	q := s.doc.Questions[i]
	selected, answered := s.selections[i]

	qv := QuestionView{
		Index:      i,
		Text:       q.Text,
		Difficulty: q.Difficulty,
		Answered:   answered,
		Options:    make([]OptionView, 0, len(q.Options)),
	}
	if s.submitted {
		qv.Explanation = q.Explanation
	}

	for j, option := range q.Options {
		ov := OptionView{
			Label:    OptionLabel(j),
			Text:     option,
			Selected: answered && option == selected,
		}
		if s.submitted {
			ov.State = ClassifyOption(q, option, selected)
		}
		qv.Options = append(qv.Options, ov)
	}

	return qv
}

// ClassifyOption classifies option against the correct answer and the user's selection.
func ClassifyOption(q entities.Question, option, selected string) OptionState {
	switch {
	case q.IsCorrect(option):
		return OptionCorrect
	case option == selected:
		return OptionSelectedIncorrect
	default:
		return OptionNeutral
	}
}

// Summarize builds the score summary for score out of total.
func Summarize(score, total int) ScoreSummary {
	return ScoreSummary{
		Score:      score,
		Total:      total,
		Percentage: Percentage(score, total),
		Band:       ClassifyBand(score, total),
	}
}

// Percentage returns round(100*score/total), halves rounded up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}

// ClassifyBand maps a score to its band. Thresholds are compared in integers
// so that exactly 80% and 60% land in the higher band.
func ClassifyBand(score, total int) Band {
	switch {
	case score >= total:
		return BandPerfect
	case 10*score >= 8*total:
		return BandGreat
	case 10*score >= 6*total:
		return BandGood
	default:
		return BandKeepPracticing
	}
}

// OptionLabel returns the letter shown next to option i.
func OptionLabel(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}
