package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultMarkdown(t *testing.T) {
	res := domain.Result{
		RunID:      "01HZX",
		Outcome:    domain.OutcomeAccepted,
		FinalState: domain.Accept,
		Steps:      4,
		MaxSteps:   100,
		Tape:       "000[1]",
		Head:       3,
	}
	md := ResultMarkdown("inc", res)
	assert.Contains(t, md, "## Run of `inc`")
	assert.Contains(t, md, "| Outcome | **accepted** |")
	assert.Contains(t, md, "| Steps | 4 / 100 |")
	assert.Contains(t, md, "000[1]")

	out, err := NewRenderer()(md)
	require.NoError(t, err)
	assert.Contains(t, out, "accepted")
}

func TestResultText(t *testing.T) {
	txt := ResultText(domain.Result{Outcome: domain.OutcomeRejected, FinalState: domain.Start, Content: "01", Tape: "[0]1"})
	assert.True(t, strings.HasPrefix(txt, "outcome=rejected steps=0 state=START"))
	assert.Contains(t, txt, "content=01")
}

func TestTapeStyle_Plain(t *testing.T) {
	var s TapeStyle
	assert.Equal(t, "_a[b]c_", s.HighlightHead("_a[b]c_"))

	line := s.StepLine(domain.StepEvent{Step: 0, State: domain.Start, View: "[0]0"})
	assert.Contains(t, line, "START")
	assert.Contains(t, line, "[0]0")
	assert.Contains(t, line, "start")
}

func TestTapeStyle_Colored(t *testing.T) {
	s := TapeStyle{profile: termenv.ANSI256, colored: true}
	out := s.HighlightHead("_a[b]c_")
	assert.NotContains(t, out, "[b]")
	assert.True(t, strings.HasPrefix(out, "_a"))
	assert.True(t, strings.HasSuffix(out, "c_"))
	assert.Contains(t, out, "b")

	assert.Equal(t, "no-head", s.HighlightHead("no-head"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_   _|")
}
