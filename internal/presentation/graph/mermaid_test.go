package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/stretchr/testify/assert"
)

func increment() *domain.Machine {
	b := dsl.New("unary-increment").Name(3, "scan")
	b.State(dsl.Start).On('0').Right().Go(3)
	b.State(3).
		On('0').Right().Go(3).
		On('1').Right().Go(3).
		On('_').Write('1').Go(dsl.Accept)
	return b.MustBuild()
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(increment(), nil)

	for _, want := range []string{
		"graph LR\n",
		`q1(("START"))`,
		`q2((("ACCEPT")))`,
		`q3["scan"]`,
		`q1 -- "0/0,R" --> q3`,
		`q3 -- "0/0,R<br/>1/1,R" --> q3`,
		`q3 -- "_/1,N" --> q2`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_DeterministicOrder(t *testing.T) {
	m := increment()
	assert.Equal(t, graph.GenerateMermaid(m, nil), graph.GenerateMermaid(m, nil))

	out := graph.GenerateMermaid(m, nil)
	assert.Less(t, strings.Index(out, "q1 --"), strings.Index(out, "q3 --"))
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	events := []domain.StepEvent{
		{State: domain.Start},
		{State: domain.NewState(3)},
		{State: domain.NewState(3)},
	}
	out := graph.GenerateMermaid(increment(), graph.OverlayFromEvents(events))

	assert.Contains(t, out, "classDef visited")
	assert.Equal(t, 1, strings.Count(out, "class q3 visited;"))
	assert.Contains(t, out, "class q1 visited;")
	assert.Contains(t, out, "class q3 current;")
	assert.NotContains(t, out, "class q2")
}

func TestGenerateMermaid_EscapesQuotes(t *testing.T) {
	b := dsl.New("quotes").Name(3, `say "hi"`)
	b.State(dsl.Start).On('"').Go(3)
	out := graph.GenerateMermaid(b.MustBuild(), nil)
	assert.Contains(t, out, `q3["say 'hi'"]`)
	assert.Contains(t, out, `"'/',N"`)
}
