//go:build !windows

package prompt

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// driveConfirm runs a real Confirm form with raw key bytes fed through
// Bubble Tea's input parser, exercising the whole chain from keypress to
// classified answer.
func driveConfirm(t *testing.T, keyBytes []byte) (bool, error) {
	t.Helper()

	inputR, inputW := io.Pipe()
	t.Cleanup(func() { _ = inputR.Close() })
	t.Cleanup(func() { _ = inputW.Close() })

	origRunForm := runFormFunc
	t.Cleanup(func() { runFormFunc = origRunForm })
	runFormFunc = func(form *huh.Form) error {
		form.WithAccessible(false)
		form.WithProgramOptions(
			tea.WithInput(inputR),
			tea.WithOutput(io.Discard),
		)
		return form.Run()
	}

	go func() {
		// Let program startup finish so the first byte is consumed by the
		// input parser instead of racing with initialization.
		time.Sleep(50 * time.Millisecond)
		_, _ = inputW.Write(keyBytes)
		// Keep the stream open briefly so a lone Esc is recognized as a
		// complete keypress rather than the start of an escape sequence.
		time.Sleep(350 * time.Millisecond)
		_ = inputW.Close()
	}()

	p := &HuhPrompter{isTerminal: func() bool { return true }}
	type result struct {
		ok  bool
		err error
	}
	ch := make(chan result, 1)
	go func() {
		ok, err := p.Confirm("Proceed?", "Drives the full form.")
		ch <- result{ok, err}
	}()

	select {
	case r := <-ch:
		return r.ok, r.err
	case <-time.After(5 * time.Second):
		t.Fatal("form did not exit within timeout")
		return false, nil
	}
}

func TestConfirmKeyYes(t *testing.T) {
	// "y" answers affirmatively; the trailing Enter submits in case the
	// shortcut only moved the selection.
	ok, err := driveConfirm(t, []byte("y\r"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirmKeyNo(t *testing.T) {
	ok, err := driveConfirm(t, []byte("n\r"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmKeyEscAborts(t *testing.T) {
	// Esc = 0x1b. The input parser waits for follow-up bytes; with none it
	// classifies the lone byte as a standalone Esc keypress, which the
	// prompt keymap binds to Quit.
	_, err := driveConfirm(t, []byte{0x1b})
	require.ErrorIs(t, err, ErrAborted)
}

func TestConfirmKeyCtrlCAborts(t *testing.T) {
	_, err := driveConfirm(t, []byte{0x03})
	require.ErrorIs(t, err, ErrAborted)
}
