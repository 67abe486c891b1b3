package overlay

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// diffMaxLines caps the preview so one service cannot flood the terminal.
const diffMaxLines = 40

// Diff renders a unified diff between the current override and the
// proposed content. An empty string means the proposal changes nothing.
func Diff(path string, current, proposed []byte) string {
	diff := udiff.Unified(path+" (current)", path+" (proposed)", string(current), string(proposed))
	lines := splitDiffLines(diff)
	if len(lines) == 0 {
		return ""
	}
	if len(lines) <= diffMaxLines {
		return ensureTrailingNewline(strings.Join(lines, "\n"))
	}
	truncated := lines[:diffMaxLines]
	truncated = append(truncated, fmt.Sprintf("... (truncated to %d lines)", diffMaxLines))
	return ensureTrailingNewline(strings.Join(truncated, "\n"))
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
