package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
)

type styles struct {
	title     lipgloss.Style
	muted     lipgloss.Style
	question  lipgloss.Style
	heading   lipgloss.Style
	selected  lipgloss.Style
	correct   lipgloss.Style
	incorrect lipgloss.Style
	current   lipgloss.Style
	results   lipgloss.Style
	status    lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			title: plain, muted: plain, question: plain, heading: plain, selected: plain, correct: plain,
			incorrect: plain, current: plain, results: plain, status: plain,
		}
	}

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		question:  lipgloss.NewStyle().Bold(true).MarginTop(1),
		heading:   lipgloss.NewStyle().Bold(true),
		selected:  lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		correct:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		incorrect: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		current:   lipgloss.NewStyle().Bold(true).Underline(true),
		results:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("42")),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// renderHeader renders the title and progress lines.
func renderHeader(v session.View, st styles) string {
	title := st.title.Render(v.Title)
	progress := fmt.Sprintf("Question %d of %d · Answered: %d/%d",
		v.Current.Index+1, v.Progress.Total, v.Progress.Answered, v.Progress.Total)
	return title + "\n" + st.muted.Render(progress)
}

// renderDots renders one marker per question: the current one underlined, answered ones filled.
func renderDots(v session.View, st styles) string {
	dots := make([]string, 0, len(v.Answered))
	for i, answered := range v.Answered {
		dot := "○"
		if answered {
			dot = "●"
		}
		if i == v.Current.Index {
			dot = st.current.Render(dot)
		}
		dots = append(dots, dot)
	}
	return strings.Join(dots, " ")
}

// renderResults renders the score card shown after submission.
func renderResults(s session.ScoreSummary, st styles) string {
	body := fmt.Sprintf("🎉 Quiz Complete!\nScore: %d/%d (%d%%)\n%s", s.Score, s.Total, s.Percentage, s.Band.Message())
	return st.results.Render(body)
}

// renderQuestion renders the current question with its options.
func renderQuestion(q session.QuestionView, st styles) string {
	var sb strings.Builder

	heading := fmt.Sprintf("Q%d. %s", q.Index+1, q.Text)
	if label := DifficultyLabel(q.Difficulty); label != "" {
		heading += " " + st.muted.Render("["+label+"]")
	}
	sb.WriteString(st.question.Render(heading))
	sb.WriteString("\n")

	for _, o := range q.Options {
		sb.WriteString(renderOption(o, st))
		sb.WriteString("\n")
	}

	if q.Explanation != "" {
		sb.WriteString("\n")
		sb.WriteString(st.muted.Render("💡 Explanation: " + q.Explanation))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderOption(o session.OptionView, st styles) string {
	line := fmt.Sprintf("%s. %s", strings.ToLower(o.Label), o.Text)

	switch o.State {
	case session.OptionCorrect:
		return st.correct.Render("✓ " + line)
	case session.OptionSelectedIncorrect:
		return st.incorrect.Render("✗ " + line)
	}
	if o.Selected {
		return st.selected.Render("▸ " + line)
	}
	return "  " + line
}

// DifficultyLabel returns a short label for d, empty when d is unset.
func DifficultyLabel(d entities.Difficulty) string {
	switch d {
	case entities.DifficultyEasy:
		return "easy"
	case entities.DifficultyMedium:
		return "medium"
	case entities.DifficultyHard:
		return "hard"
	default:
		return ""
	}
}
