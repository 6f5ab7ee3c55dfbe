package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aliskhannn/wikiquiz-bot/internal/client/quizapi"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
	"github.com/aliskhannn/wikiquiz-bot/internal/repository"
	"github.com/aliskhannn/wikiquiz-bot/internal/ui/terminal"
)

// runProgram runs the quiz screen until the user quits.
var runProgram = func(m terminal.Model, stdout io.Writer) (terminal.Model, error) {
	final, err := tea.NewProgram(m, tea.WithOutput(stdout), tea.WithAltScreen()).Run()
	if err != nil {
		return m, err
	}
	return final.(terminal.Model), nil
}

// runTake builds the handler for the take command.
func runTake(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags, common := newFlagSet(cmd, stderr)
		file := flags.String("file", "", "Take a quiz stored in a local JSON or YAML file")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}

		var (
			quiz *entities.Quiz
			err  error
		)
		switch {
		case *file != "" && flags.NArg() == 0:
			quiz, err = repository.LoadQuizFile(*file)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return ExitError
			}
		case *file == "" && flags.NArg() == 1:
			id, err := parseQuizID(flags.Arg(0))
			if err != nil {
				return usageError(cmd, stderr, "%v", err)
			}
			if quiz, err = fetchQuiz(common, id, stderr); err != nil {
				return ExitError
			}
		default:
			return usageError(cmd, stderr, "expected either a quiz id or --file")
		}

		doc := quiz.Document()
		if err := doc.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error: quiz cannot be played: %v\n", err)
			return ExitError
		}
		sess, err := session.New(doc)
		if err != nil {
			fmt.Fprintf(stderr, "Error: quiz cannot be played: %v\n", err)
			return ExitError
		}

		if !isTerminal(stdout) {
			fmt.Fprintln(stderr, "Error: take needs an interactive terminal; use \"quiz show\" to print the quiz")
			return ExitError
		}

		final, err := runProgram(terminal.NewModel(sess, terminal.Options{NoColor: common.noColor}), stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitError
		}

		fmt.Fprintln(stdout, outcome(final.Session()))
		return ExitOK
	}
}

// fetchQuiz loads a quiz from the backend, reporting failures on stderr.
func fetchQuiz(common *commonFlags, id int64, stderr io.Writer) (*entities.Quiz, error) {
	client, log, err := newClient(common)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signalContext()
	defer stop()

	quiz, err := client.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", describe(err, quizapi.MsgDetailsFailed))
		return nil, err
	}
	return quiz, nil
}

// outcome is the line printed once the quiz screen closes.
func outcome(sess *session.Session) string {
	v := sess.View()
	if s := v.Summary; s != nil {
		return fmt.Sprintf("%s: %d/%d (%d%%). %s", v.Title, s.Score, s.Total, s.Percentage, s.Band.Message())
	}
	return fmt.Sprintf("%s: left unfinished with %d/%d answered.", v.Title, v.Progress.Answered, v.Progress.Total)
}
