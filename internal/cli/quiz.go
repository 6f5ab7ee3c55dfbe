package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aliskhannn/wikiquiz-bot/internal/client/quizapi"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/ui/terminal"
)

// runGenerate builds the handler for the generate command.
func runGenerate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags, common := newFlagSet(cmd, stderr)
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() != 1 {
			return usageError(cmd, stderr, "expected exactly one Wikipedia URL")
		}

		articleURL, err := quizapi.ValidateArticleURL(flags.Arg(0))
		if err != nil {
			return usageError(cmd, stderr, "%s", quizapi.Detail(err, quizapi.MsgGenerateFailed))
		}

		client, log, err := newClient(common)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitError
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signalContext()
		defer stop()

		fmt.Fprintln(stderr, "Generating quiz, this can take up to a minute...")
		quiz, err := client.Generate(ctx, articleURL)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", describe(err, quizapi.MsgGenerateFailed))
			return ExitError
		}

		fmt.Fprintln(stdout, formatCard(quiz, common.noColor))
		return ExitOK
	}
}

// runHistory builds the handler for the history command.
func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags, common := newFlagSet(cmd, stderr)
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() > 0 {
			return usageError(cmd, stderr, "unexpected arguments: %s", strings.Join(flags.Args(), " "))
		}

		client, log, err := newClient(common)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitError
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signalContext()
		defer stop()

		rows, err := client.History(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", describe(err, quizapi.MsgHistoryFailed))
			return ExitError
		}
		if len(rows) == 0 {
			fmt.Fprintln(stdout, "No quizzes yet. Generate one with: quiz generate <wikipedia-url>")
			return ExitOK
		}

		fmt.Fprintln(stdout, historyTable(rows, common.noColor))
		return ExitOK
	}
}

// runShow builds the handler for the show command.
func runShow(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags, common := newFlagSet(cmd, stderr)
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() != 1 {
			return usageError(cmd, stderr, "expected exactly one quiz id")
		}
		id, err := parseQuizID(flags.Arg(0))
		if err != nil {
			return usageError(cmd, stderr, "%v", err)
		}

		client, log, err := newClient(common)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitError
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signalContext()
		defer stop()

		quiz, err := client.Get(ctx, id)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", describe(err, quizapi.MsgDetailsFailed))
			return ExitError
		}

		fmt.Fprint(stdout, terminal.RenderQuiz(quiz, common.noColor))
		return ExitOK
	}
}

// runDelete builds the handler for the delete command.
func runDelete(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags, common := newFlagSet(cmd, stderr)
		yes := flags.Bool("yes", false, "Delete without asking for confirmation")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() != 1 {
			return usageError(cmd, stderr, "expected exactly one quiz id")
		}
		id, err := parseQuizID(flags.Arg(0))
		if err != nil {
			return usageError(cmd, stderr, "%v", err)
		}

		if !*yes && !confirm(stdout, fmt.Sprintf("Are you sure you want to delete quiz #%d? [y/N] ", id)) {
			fmt.Fprintln(stdout, "Canceled.")
			return ExitOK
		}

		client, log, err := newClient(common)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitError
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signalContext()
		defer stop()

		if err := client.Delete(ctx, id); err != nil {
			if errors.Is(err, quizapi.ErrQuizNotFound) {
				fmt.Fprintf(stderr, "Error: quiz #%d not found\n", id)
				return ExitError
			}
			fmt.Fprintf(stderr, "Error: %s\n", describe(err, quizapi.MsgDeleteFailed))
			return ExitError
		}

		fmt.Fprintf(stdout, "Deleted quiz #%d\n", id)
		return ExitOK
	}
}

// confirm asks a yes/no question on stdin. Anything but y or yes is a no.
func confirm(stdout io.Writer, prompt string) bool {
	fmt.Fprint(stdout, prompt)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// formatCard summarizes a generated quiz.
func formatCard(q *entities.Quiz, noColor bool) string {
	title := q.Title
	if !noColor {
		title = lipgloss.NewStyle().Bold(true).Render(title)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generated quiz #%d: %s\n", q.ID, title)
	fmt.Fprintf(&sb, "%d questions", len(q.Questions))
	mix := q.DifficultyMix()
	var parts []string
	for _, d := range []entities.Difficulty{entities.DifficultyEasy, entities.DifficultyMedium, entities.DifficultyHard} {
		if mix[d] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", mix[d], d))
		}
	}
	if len(parts) > 0 {
		sb.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Read it:  quiz show %d\n", q.ID)
	fmt.Fprintf(&sb, "Take it:  quiz take %d", q.ID)
	return sb.String()
}

// historyTable renders quiz history rows.
func historyTable(rows []entities.QuizSummary, noColor bool) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Questions", "Created")

	if !noColor {
		header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1)
		cell := lipgloss.NewStyle().Padding(0, 1)
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	}

	for _, r := range rows {
		created := ""
		if r.CreatedAt != nil {
			created = r.CreatedAt.Format("2006-01-02 15:04")
		}
		t = t.Row(strconv.FormatInt(r.ID, 10), truncate(r.Title, 60), strconv.Itoa(r.QuestionCount), created)
	}

	return t.Render()
}

// truncate shortens s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
