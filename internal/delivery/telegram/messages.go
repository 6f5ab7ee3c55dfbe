// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/aliskhannn/wikiquiz-bot/internal/client/quizapi"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
	"github.com/aliskhannn/wikiquiz-bot/internal/service"
)

// Plain messages and toasts.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgGenerating      = "⏳ Generating a quiz from the article. This can take up to a minute…"
	msgAttemptExpired  = "This quiz attempt has expired"
	msgNoAttempt       = "There is no quiz in progress."
	msgAttemptCanceled = "Quiz attempt stopped."
	msgConcurrentEdit  = "The quiz changed meanwhile, please try again"
	msgAnswerAll       = "Answer all questions before submitting"
	msgQuizUsage       = "Usage: /quiz <id>, for example /quiz 12"
	msgNotAURL         = "Send me a Wikipedia article link, for example https://en.wikipedia.org/wiki/Alan_Turing"
	msgHistoryEmpty    = "No quizzes yet. Send a Wikipedia link to generate the first one."
	msgQuizDeleted     = "Quiz deleted"
	msgDeleteCanceled  = "Deletion canceled"
	msgReviewLocked    = "The attempt is submitted, press Try again to answer again"
)

// maxMessageLen is Telegram's limit on message text, in UTF-16 code units.
const maxMessageLen = 4096

// Caps on free text inside single-message layouts. The full text is shown by View quiz.
const (
	maxTitleLen       = 150
	maxCardSummary    = 1000
	maxExplanationLen = 500
	maxQuestionLen    = 400
	maxOptionLen      = 120
)

// exampleArticles are suggested on /start.
var exampleArticles = []string{"Artificial intelligence", "Python (programming language)", "Albert Einstein"}

func msgWelcome() string {
	var sb strings.Builder

	sb.WriteString(bold("WikiQuiz Bot"))
	sb.WriteString(md(" turns any Wikipedia article into a multiple-choice quiz."))
	sb.WriteString("\n\n")

	sb.WriteString(md("Send me a link to an article and I will generate a quiz with a summary, key entities and related topics. Then you can read it or take it right here."))
	sb.WriteString("\n\n")

	sb.WriteString(md("Try one of these:"))
	sb.WriteString("\n")
	for _, title := range exampleArticles {
		sb.WriteString(md("• "))
		sb.WriteString(link(title, quizapi.ArticleURL(title)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(md("Use /history to browse earlier quizzes and /help for all commands."))

	return sb.String()
}

func msgHelp() string {
	lines := []string{
		bold("Commands"),
		"",
		md("<link> - generate a quiz from a Wikipedia article"),
		md("/history - browse generated quizzes"),
		md("/quiz <id> - open a quiz from history"),
		md("/cancel - stop the current attempt"),
		md("/help - this message"),
		"",
		bold("Taking a quiz"),
		md("Tap an option to answer, use the numbered buttons to jump between questions and submit once every question is answered. After submitting, correct answers are marked with ✓ and your wrong choices with ✗."),
	}
	return strings.Join(lines, "\n")
}

func msgUnknownCommand() string {
	return md("Unknown command.") + "\n\n" + msgHelp()
}

// difficultyBadge returns a coloured label for a question difficulty.
func difficultyBadge(d entities.Difficulty) string {
	switch d {
	case entities.DifficultyEasy:
		return "🟢 easy"
	case entities.DifficultyMedium:
		return "🟡 medium"
	case entities.DifficultyHard:
		return "🔴 hard"
	default:
		return ""
	}
}

// buildProgressBar creates an ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := current * length / total
	filled = min(filled, length)

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

// formatQuizCard summarizes a freshly generated or opened quiz.
func formatQuizCard(q *entities.Quiz) string {
	var sb strings.Builder

	sb.WriteString(bold("📝 " + clipText(q.Title, maxTitleLen)))
	if q.ID != 0 {
		sb.WriteString(md(fmt.Sprintf(" (#%d)", q.ID)))
	}
	sb.WriteString("\n")
	if q.URL != "" {
		sb.WriteString(link("🔗 Read on Wikipedia", q.URL))
		sb.WriteString("\n")
	}
	if q.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(md(clipText(q.Summary, maxCardSummary)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("%d questions", len(q.Questions))))
	mix := q.DifficultyMix()
	var parts []string
	for _, d := range []entities.Difficulty{entities.DifficultyEasy, entities.DifficultyMedium, entities.DifficultyHard} {
		if mix[d] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", mix[d], d))
		}
	}
	if len(parts) > 0 {
		sb.WriteString(md(" · " + strings.Join(parts, ", ")))
	}

	return sb.String()
}

// formatQuizBlocks renders the full static quiz as blocks that can be split across messages.
func formatQuizBlocks(q *entities.Quiz) []string {
	var blocks []string

	header := bold(q.Title)
	if q.URL != "" {
		header += "\n" + link("🔗 Read on Wikipedia", q.URL)
	}
	blocks = append(blocks, header)

	if q.Summary != "" {
		blocks = append(blocks, bold("Summary")+"\n"+md(q.Summary))
	}

	if !q.KeyEntities.IsEmpty() {
		var lines []string
		lines = append(lines, bold("Key Entities"))
		for _, group := range []struct {
			label string
			items []string
		}{
			{"👤 People", q.KeyEntities.People},
			{"🏢 Organizations", q.KeyEntities.Organizations},
			{"📍 Locations", q.KeyEntities.Locations},
		} {
			if len(group.items) > 0 {
				lines = append(lines, md(group.label+": "+strings.Join(group.items, ", ")))
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if len(q.Sections) > 0 {
		blocks = append(blocks, bold("Article Sections")+"\n"+md(strings.Join(q.Sections, " · ")))
	}

	blocks = append(blocks, bold(fmt.Sprintf("Quiz Questions (%d)", len(q.Questions))))
	for i, question := range q.Questions {
		blocks = append(blocks, formatStaticQuestion(i, question))
	}

	if len(q.RelatedTopics) > 0 {
		lines := []string{bold("Related Topics to Explore")}
		for _, topic := range q.RelatedTopics {
			lines = append(lines, md("📚 ")+link(topic, quizapi.ArticleURL(topic)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return blocks
}

func formatStaticQuestion(i int, q entities.Question) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("Q%d.", i+1)))
	if badge := difficultyBadge(q.Difficulty); badge != "" {
		sb.WriteString(md(" " + badge))
	}
	sb.WriteString("\n")
	sb.WriteString(md(q.Text))
	sb.WriteString("\n")

	for j, option := range q.Options {
		line := session.OptionLabel(j) + ". " + option
		if q.IsCorrect(option) {
			sb.WriteString(bold(line + "  ✓ Correct"))
		} else {
			sb.WriteString(md(line))
		}
		sb.WriteString("\n")
	}

	if q.Explanation != "" {
		sb.WriteString(md("💡 Explanation: ") + italic(q.Explanation))
		sb.WriteString("\n")
	}
	if q.SectionReference != "" {
		sb.WriteString(md("📎 Section: " + q.SectionReference))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatAttempt renders the text part of an attempt message from its view.
func formatAttempt(v session.View) string {
	var sb strings.Builder

	sb.WriteString(bold(clipText(v.Title, maxTitleLen) + " - Interactive Quiz"))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Question %d of %d · Answered %d/%d",
		v.Current.Index+1, v.Progress.Total, v.Progress.Answered, v.Progress.Total)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(v.Progress.Answered, v.Progress.Total, 10)))
	sb.WriteString("\n\n")

	if s := v.Summary; s != nil {
		sb.WriteString(bold("🎉 Quiz Complete!"))
		sb.WriteString("\n")
		sb.WriteString(md("Score: "))
		sb.WriteString(bold(fmt.Sprintf("%d/%d (%d%%)", s.Score, s.Total, s.Percentage)))
		sb.WriteString("\n")
		sb.WriteString(md(s.Band.Message()))
		sb.WriteString("\n\n")
	}

	q := v.Current
	sb.WriteString(bold(fmt.Sprintf("Q%d", q.Index+1)))
	if badge := difficultyBadge(q.Difficulty); badge != "" {
		sb.WriteString(md(" · " + badge))
	}
	sb.WriteString("\n")
	sb.WriteString(bold(clipText(q.Text, maxQuestionLen)))
	sb.WriteString("\n\n")

	for _, o := range q.Options {
		line := o.Label + ". " + clipText(o.Text, maxOptionLen)
		switch o.State {
		case session.OptionCorrect:
			sb.WriteString(bold(line + " ✓"))
		case session.OptionSelectedIncorrect:
			sb.WriteString("~" + md(line) + "~" + md(" ✗"))
		default:
			if o.Selected {
				sb.WriteString(md("▶ ") + bold(line))
			} else {
				sb.WriteString(md(line))
			}
		}
		sb.WriteString("\n")
	}

	if q.Explanation != "" {
		sb.WriteString("\n")
		sb.WriteString(md("💡 Explanation: ") + italic(clipText(q.Explanation, maxExplanationLen)))
		sb.WriteString("\n")
	}

	text := strings.TrimRight(sb.String(), "\n")
	if textLen(text) > maxMessageLen {
		// Only questions with very many options get here.
		text = splitMessage([]string{text}, maxMessageLen)[0]
	}
	return text
}

// formatHistoryPage renders one page of the quiz history.
func formatHistoryPage(rows []entities.QuizSummary, page, totalPages int) string {
	var sb strings.Builder

	sb.WriteString(bold("📚 Past quizzes"))
	if totalPages > 1 {
		sb.WriteString(md(fmt.Sprintf(" (page %d of %d)", page+1, totalPages)))
	}
	sb.WriteString("\n\n")

	for _, r := range rows {
		sb.WriteString(bold(fmt.Sprintf("#%d", r.ID)))
		sb.WriteString(" ")
		sb.WriteString(md(r.Title))
		sb.WriteString("\n")

		details := fmt.Sprintf("%d questions", r.QuestionCount)
		if r.CreatedAt != nil {
			details += ", " + r.CreatedAt.Format("2 Jan 2006 15:04")
		}
		sb.WriteString(md(details))
		sb.WriteString("\n\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// historyPage returns the rows of page and the page count.
func historyPage(rows []entities.QuizSummary, page int) ([]entities.QuizSummary, int, int) {
	totalPages := (len(rows) + historyPageSize - 1) / historyPageSize
	if totalPages == 0 {
		return nil, 0, 0
	}
	page = max(0, min(page, totalPages-1))

	start := page * historyPageSize
	end := min(start+historyPageSize, len(rows))
	return rows[start:end], page, totalPages
}

// formatDeleteConfirm asks whether a quiz should be deleted.
func formatDeleteConfirm(r entities.QuizSummary) string {
	return md("Are you sure you want to delete this quiz?") + "\n\n" + bold(fmt.Sprintf("#%d", r.ID)) + " " + md(r.Title)
}

// engineToast turns an attempt error into a short user-facing toast.
// ok is false for errors that are not the user's doing.
func engineToast(err error) (toast string, ok bool) {
	switch {
	case errors.Is(err, session.ErrIncompleteSubmission):
		return msgAnswerAll, true
	case errors.Is(err, service.ErrStaleAttempt):
		return msgAttemptExpired, true
	case errors.Is(err, entities.ErrOptimisticLock):
		return msgConcurrentEdit, true
	case errors.Is(err, session.ErrOutOfRange), errors.Is(err, session.ErrUnknownOption):
		return msgAttemptExpired, true
	default:
		return "", false
	}
}

// textLen measures text the way Telegram does.
func textLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// splitMessage packs blocks into messages of at most limit, separated by blank lines.
// Oversized blocks are split on line boundaries, oversized lines are cut.
func splitMessage(blocks []string, limit int) []string {
	var (
		out     []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
		}
	}

	add := func(piece, sep string) {
		if current.Len() > 0 && textLen(current.String())+textLen(sep)+textLen(piece) > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, block := range blocks {
		if textLen(block) <= limit {
			add(block, "\n\n")
			continue
		}

		flush()
		for _, line := range strings.Split(block, "\n") {
			for _, piece := range cutLine(line, limit) {
				add(piece, "\n")
			}
		}
		flush()
	}
	flush()

	return out
}

// cutLine cuts line into pieces of at most limit. Escapes are never split, and bold,
// italic or strikethrough entities open at a cut are closed and reopened around it.
func cutLine(line string, limit int) []string {
	if textLen(line) <= limit {
		return []string{line}
	}

	var (
		pieces []string
		open   []rune
	)
	runes := []rune(line)
	for len(runes) > 0 {
		prefix := string(open)
		size := len(prefix)
		state := open
		n := 0
		for n < len(runes) {
			step := entityStep(runes, n)
			next := state
			if step == 1 && isEntityMarker(runes[n]) {
				next = toggleEntity(state, runes[n])
			}
			w := textLen(string(runes[n : n+step]))
			if n > 0 && size+w+len(next) > limit {
				break
			}
			size += w
			state = next
			n += step
		}
		pieces = append(pieces, prefix+string(runes[:n])+closeEntities(state))
		runes = runes[n:]
		open = state
	}
	return pieces
}

// entityStep returns how many runes from i must stay in one piece, such as an
// escape pair or a whole link.
func entityStep(runes []rune, i int) int {
	switch runes[i] {
	case '\\':
		if i+1 < len(runes) {
			return 2
		}
	case '[':
		inURL := false
		for j := i + 1; j < len(runes); j++ {
			switch {
			case runes[j] == '\\':
				j++
			case !inURL && runes[j] == ']' && j+1 < len(runes) && runes[j+1] == '(':
				inURL = true
				j++
			case inURL && runes[j] == ')':
				return j - i + 1
			}
		}
	}
	return 1
}

func isEntityMarker(r rune) bool {
	return r == '*' || r == '_' || r == '~'
}

// toggleEntity opens marker, or closes it when it is already open.
func toggleEntity(open []rune, marker rune) []rune {
	next := make([]rune, 0, len(open)+1)
	closed := false
	for _, r := range open {
		if r == marker && !closed {
			closed = true
			continue
		}
		next = append(next, r)
	}
	if !closed {
		next = append(next, marker)
	}
	return next
}

// closeEntities returns the markers closing open, innermost first.
func closeEntities(open []rune) string {
	out := make([]rune, len(open))
	for i, r := range open {
		out[len(open)-1-i] = r
	}
	return string(out)
}

// clipText shortens plain text to at most limit runes, ending with an ellipsis.
func clipText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRight(string(runes[:limit-1]), " ") + "…"
}
