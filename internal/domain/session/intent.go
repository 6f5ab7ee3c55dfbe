package session

import "fmt"

// IntentKind identifies a user action routed into a session.
type IntentKind int

const (
	// IntentSelect chooses an option for a question.
	IntentSelect IntentKind = iota + 1
	// IntentNext moves to the following question.
	IntentNext
	// IntentPrevious moves to the preceding question.
	IntentPrevious
	// IntentGoTo jumps to a question.
	IntentGoTo
	// IntentSubmit scores the attempt.
	IntentSubmit
	// IntentRetry starts the attempt over.
	IntentRetry
)

func (k IntentKind) String() string {
	switch k {
	case IntentSelect:
		return "select"
	case IntentNext:
		return "next"
	case IntentPrevious:
		return "previous"
	case IntentGoTo:
		return "goto"
	case IntentSubmit:
		return "submit"
	case IntentRetry:
		return "retry"
	default:
		return fmt.Sprintf("intent(%d)", int(k))
	}
}

// Intent is a single user action. Only the fields of its Kind are meaningful.
type Intent struct {
	Kind     IntentKind
	Question int    // IntentSelect, IntentGoTo
	Option   string // IntentSelect
}

// Select builds an intent choosing option for question.
func Select(question int, option string) Intent {
	return Intent{Kind: IntentSelect, Question: question, Option: option}
}

// GoTo builds an intent jumping to question.
func GoTo(question int) Intent {
	return Intent{Kind: IntentGoTo, Question: question}
}

// Next builds an intent moving forward.
func Next() Intent { return Intent{Kind: IntentNext} }

// Previous builds an intent moving back.
func Previous() Intent { return Intent{Kind: IntentPrevious} }

// Submit builds an intent submitting the attempt.
func Submit() Intent { return Intent{Kind: IntentSubmit} }

// Retry builds an intent restarting the attempt.
func Retry() Intent { return Intent{Kind: IntentRetry} }

// Apply dispatches an intent to the matching operation.
func (s *Session) Apply(in Intent) error {
	switch in.Kind {
	case IntentSelect:
		return s.SelectOption(in.Question, in.Option)
	case IntentNext:
		s.Next()
		return nil
	case IntentPrevious:
		s.Previous()
		return nil
	case IntentGoTo:
		return s.GoTo(in.Question)
	case IntentSubmit:
		return s.Submit()
	case IntentRetry:
		s.Retry()
		return nil
	default:
		return fmt.Errorf("unknown intent: %s", in.Kind)
	}
}
