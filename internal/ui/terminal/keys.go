package terminal

import "github.com/charmbracelet/bubbles/key"

// optionKeys select options by position.
const optionKeys = "abcdef"

// keyMap lists the bindings of the quiz screen.
type keyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Select key.Binding
	Jump   key.Binding
	Submit key.Binding
	Retry  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	selectKeys := make([]string, 0, len(optionKeys))
	for _, r := range optionKeys {
		selectKeys = append(selectKeys, string(r))
	}

	return keyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys(selectKeys...),
			key.WithHelp("a-"+optionKeys[len(optionKeys)-1:], "answer"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "try again"),
			key.WithDisabled(),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Prev, k.Next, k.Submit, k.Retry, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Select, k.Jump},
		{k.Prev, k.Next},
		{k.Submit, k.Retry},
		{k.Help, k.Quit},
	}
}

// forSubmitted toggles the bindings that only make sense on one side of submission.
func (k keyMap) forSubmitted(submitted bool) keyMap {
	k.Select.SetEnabled(!submitted)
	k.Submit.SetEnabled(!submitted)
	k.Retry.SetEnabled(submitted)
	return k
}
