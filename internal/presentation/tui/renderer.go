package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// ResultMarkdown summarises a finished run as a markdown table.
func ResultMarkdown(machine string, res domain.Result) string {
	var sb strings.Builder
	title := "Run"
	if machine != "" {
		title = fmt.Sprintf("Run of `%s`", machine)
	}
	fmt.Fprintf(&sb, "## %s\n\n", title)
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Outcome | **%s** |\n", res.Outcome)
	fmt.Fprintf(&sb, "| Steps | %d / %d |\n", res.Steps, res.MaxSteps)
	fmt.Fprintf(&sb, "| Final state | %s |\n", res.FinalState)
	fmt.Fprintf(&sb, "| Head | %d |\n", res.Head)
	if res.RunID != "" {
		fmt.Fprintf(&sb, "| Run | `%s` |\n", res.RunID)
	}
	fmt.Fprintf(&sb, "\n```\n%s\n```\n", res.Tape)
	return sb.String()
}

// ResultText is the plain counterpart of ResultMarkdown for pipes and logs.
func ResultText(res domain.Result) string {
	return fmt.Sprintf("outcome=%s steps=%d state=%s head=%d\ncontent=%s\ntape=%s",
		res.Outcome, res.Steps, res.FinalState, res.Head, res.Content, res.Tape)
}
