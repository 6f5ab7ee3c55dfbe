package terminal

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/wikiquiz-bot/internal/client/quizapi"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
)

// RenderQuiz renders the full quiz with answers revealed, for reading rather than taking.
func RenderQuiz(q *entities.Quiz, noColor bool) string {
	st := newStyles(noColor)
	var blocks []string

	header := st.title.Render(q.Title)
	if q.ID != 0 {
		header += st.muted.Render(fmt.Sprintf(" #%d", q.ID))
	}
	if q.URL != "" {
		header += "\n" + st.muted.Render(q.URL)
	}
	blocks = append(blocks, header)

	if q.Summary != "" {
		blocks = append(blocks, st.title.Render("Summary")+"\n"+q.Summary)
	}

	if !q.KeyEntities.IsEmpty() {
		lines := []string{st.title.Render("Key Entities")}
		if len(q.KeyEntities.People) > 0 {
			lines = append(lines, "👤 People: "+strings.Join(q.KeyEntities.People, ", "))
		}
		if len(q.KeyEntities.Organizations) > 0 {
			lines = append(lines, "🏢 Organizations: "+strings.Join(q.KeyEntities.Organizations, ", "))
		}
		if len(q.KeyEntities.Locations) > 0 {
			lines = append(lines, "📍 Locations: "+strings.Join(q.KeyEntities.Locations, ", "))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if len(q.Sections) > 0 {
		blocks = append(blocks, st.title.Render("Article Sections")+"\n"+strings.Join(q.Sections, " · "))
	}

	blocks = append(blocks, st.title.Render(fmt.Sprintf("Quiz Questions (%d)", len(q.Questions))))
	for i, question := range q.Questions {
		blocks = append(blocks, renderStaticQuestion(i, question, st))
	}

	if len(q.RelatedTopics) > 0 {
		lines := []string{st.title.Render("Related Topics to Explore")}
		for _, topic := range q.RelatedTopics {
			lines = append(lines, "📚 "+topic+" "+st.muted.Render(quizapi.ArticleURL(topic)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n\n") + "\n"
}

func renderStaticQuestion(i int, q entities.Question, st styles) string {
	heading := fmt.Sprintf("Q%d. %s", i+1, q.Text)
	if label := DifficultyLabel(q.Difficulty); label != "" {
		heading += " " + st.muted.Render("["+label+"]")
	}

	lines := []string{st.heading.Render(heading)}
	for j, option := range q.Options {
		line := fmt.Sprintf("  %s. %s", strings.ToLower(session.OptionLabel(j)), option)
		if q.IsCorrect(option) {
			line = st.correct.Render(line + "  ✓ Correct")
		}
		lines = append(lines, line)
	}
	if q.Explanation != "" {
		lines = append(lines, st.muted.Render("  💡 Explanation: "+q.Explanation))
	}
	if q.SectionReference != "" {
		lines = append(lines, st.muted.Render("  📎 Section: "+q.SectionReference))
	}

	return strings.Join(lines, "\n")
}
