// Package terminal renders a quiz session as an interactive Bubble Tea program.
package terminal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
)

// Options configures the quiz model.
type Options struct {
	NoColor bool
}

// Model drives one quiz session from key presses. Everything on screen is
// derived from the session view.
type Model struct {
	sess    *session.Session
	keys    keyMap
	help    help.Model
	status  string
	noColor bool
	quit    bool
}

// NewModel constructs a model over sess.
func NewModel(sess *session.Session, opts Options) Model {
	h := help.New()
	h.ShortSeparator = "  "
	return Model{
		sess:    sess,
		keys:    defaultKeyMap().forSubmitted(sess.Submitted()),
		help:    h,
		noColor: opts.NoColor,
	}
}

// Session returns the session the model plays.
func (m Model) Session() *session.Session {
	return m.sess
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Prev):
		m.apply(session.Previous())
	case key.Matches(msg, m.keys.Next):
		m.apply(session.Next())
	case key.Matches(msg, m.keys.Select):
		m.selectOption(strings.IndexRune(optionKeys, msg.Runes[0]))
	case key.Matches(msg, m.keys.Jump):
		m.apply(session.GoTo(int(msg.Runes[0] - '1')))
	case key.Matches(msg, m.keys.Submit):
		m.apply(session.Submit())
	case key.Matches(msg, m.keys.Retry):
		m.apply(session.Retry())
	}

	m.keys = m.keys.forSubmitted(m.sess.Submitted())
	return m, nil
}

// selectOption answers the current question with its option at index i.
func (m *Model) selectOption(i int) {
	v := m.sess.View()
	if i < 0 || i >= len(v.Current.Options) {
		m.status = fmt.Sprintf("Question %d has only %d options", v.Current.Index+1, len(v.Current.Options))
		return
	}
	m.apply(session.Select(v.Current.Index, v.Current.Options[i].Text))
}

func (m *Model) apply(in session.Intent) {
	err := m.sess.Apply(in)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrIncompleteSubmission):
		m.status = "Answer all questions before submitting"
	case errors.Is(err, session.ErrOutOfRange):
		m.status = fmt.Sprintf("There are only %d questions", m.sess.Len())
	default:
		m.status = err.Error()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quit {
		return ""
	}

	v := m.sess.View()
	st := newStyles(m.noColor)

	parts := []string{
		renderHeader(v, st),
		renderDots(v, st),
	}
	if v.Summary != nil {
		parts = append(parts, renderResults(*v.Summary, st))
	}
	parts = append(parts, renderQuestion(v.Current, st))
	if m.status != "" {
		parts = append(parts, st.status.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}
