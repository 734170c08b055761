package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TapeStyle colours tape views. The zero value renders plain text.
type TapeStyle struct {
	profile termenv.Profile
	colored bool
}

// NewTapeStyle detects the colour profile of stdout. Colour is disabled when
// stdout is not a terminal.
func NewTapeStyle() TapeStyle {
	if !IsTerminal(os.Stdout) {
		return TapeStyle{}
	}
	return TapeStyle{profile: termenv.ColorProfile(), colored: true}
}

// HighlightHead replaces the bracketed head cell of a tape view with a
// reversed, bold cell.
func (s TapeStyle) HighlightHead(view string) string {
	if !s.colored {
		return view
	}
	open := strings.IndexByte(view, '[')
	end := strings.LastIndexByte(view, ']')
	if open < 0 || end <= open {
		return view
	}
	head := termenv.String(" " + view[open+1:end] + " ").Reverse().Bold()
	if s.profile != termenv.Ascii {
		head = head.Foreground(s.profile.Color("#fbbf24"))
	}
	return view[:open] + head.String() + view[end+1:]
}

// StepLine renders one step event for the interactive console.
func (s TapeStyle) StepLine(e domain.StepEvent) string {
	rule := "start"
	if e.Transition != nil {
		rule = e.Transition.String()
	}
	return fmt.Sprintf("%4d  %-8s %s   %s", e.Step, e.State, s.HighlightHead(e.View), rule)
}
