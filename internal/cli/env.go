package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/aliskhannn/wikiquiz-bot/internal/client/quizapi"
	"github.com/aliskhannn/wikiquiz-bot/internal/config"
	"github.com/aliskhannn/wikiquiz-bot/internal/logger"
)

const debugLogPath = "quiz-debug.log"

// commonFlags are accepted by every command.
type commonFlags struct {
	api     string
	noColor bool
	debug   bool
}

func newFlagSet(cmd *Command, stderr io.Writer) (*flag.FlagSet, *commonFlags) {
	flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	flags.SetOutput(stderr)

	common := &commonFlags{}
	flags.StringVar(&common.api, "api", "", "Quiz backend URL (default: $QUIZ_API_URL or "+quizapi.DefaultBaseURL+")")
	flags.BoolVar(&common.noColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colors")
	flags.BoolVar(&common.debug, "debug", false, "Write debug logs to "+debugLogPath)
	return flags, common
}

// parseFlags parses args and reports the exit code to return when parsing did not succeed.
func parseFlags(cmd *Command, flags *flag.FlagSet, args []string, stdout, stderr io.Writer) (int, bool) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandUsage(cmd, stdout)
			return ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}

func usageError(cmd *Command, stderr io.Writer, format string, args ...any) int {
	fmt.Fprintf(stderr, format+"\n", args...)
	printCommandUsage(cmd, stderr)
	return ExitUsage
}

// newClient builds the backend client from configuration, with --api taking precedence.
func newClient(common *commonFlags) (*quizapi.Client, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewQuiet(common.debug, debugLogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	baseURL := cfg.Backend.BaseURL
	if common.api != "" {
		baseURL = common.api
	}

	client, err := quizapi.New(quizapi.Config{BaseURL: baseURL, Timeout: cfg.Backend.Timeout}, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return client, log, nil
}

// signalContext is cancelled on Ctrl+C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// parseQuizID accepts "12" and "#12".
func parseQuizID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid quiz id %q", arg)
	}
	return id, nil
}

// describe returns the message to print for a failed backend call.
func describe(err error, fallback string) string {
	var apiErr *quizapi.APIError
	if errors.As(err, &apiErr) || errors.Is(err, quizapi.ErrInvalidArticleURL) {
		return quizapi.Detail(err, fallback)
	}
	return fallback + ": " + err.Error()
}

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

func defaultIsTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

// stdin is where confirmations are read from.
var stdin io.Reader = os.Stdin
