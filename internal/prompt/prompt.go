// Package prompt renders interactive confirmation prompts on the
// terminal. Forms draw on stderr so that command output on stdout stays
// clean for pipes.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/unitshield/unitshield/internal/messages"
	"github.com/unitshield/unitshield/internal/terminal"
)

// ErrAborted is returned when the user quits a prompt instead of
// answering it.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the user yes/no questions.
type Prompter interface {
	Confirm(title, description string) (bool, error)
}

// HuhPrompter implements Prompter using charmbracelet/huh.
type HuhPrompter struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhPrompter returns a Prompter backed by the real terminal check.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{isTerminal: terminal.IsInteractive}
}

// promptKeyMap extends the default huh keymap so that Esc quits the form
// alongside Ctrl+C. Both map to ErrAborted.
func promptKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "abort"))
	return km
}

// Confirm renders a yes/no prompt and reports the answer. Without a
// terminal it fails immediately rather than blocking on input that can
// never arrive.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	checker := p.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if !checker() {
		return false, fmt.Errorf(messages.PromptRequiresTerminal)
	}

	value := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&value),
		),
	)
	form.WithKeyMap(promptKeyMap())
	form.WithProgramOptions(tea.WithOutput(os.Stderr))

	if err := runFormFunc(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrAborted
		}
		return false, err
	}
	return value, nil
}
