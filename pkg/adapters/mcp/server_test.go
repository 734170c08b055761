package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/godel"
	"github.com/aretw0/turing/pkg/sanitize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goLeft = `
name: go-left
transitions:
  - {from: 1, read: "0", to: 2, move: L}
`

func TestRunTools(t *testing.T) {
	s := NewServer(turing.New(), nil)
	ctx := context.Background()

	res, err := s.handleRunMachine(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"encoding": "0101001010",
		"input":    "0",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAccepted, res.Result.Outcome)
	assert.Equal(t, 1, res.Result.Steps)
	assert.Equal(t, -1, res.Result.Head)

	res, err = s.handleRunCombined(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"combined":  godel.JoinCombined("0101001010", "1"),
		"max_steps": float64(10),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRejected, res.Result.Outcome)
	assert.Equal(t, 10, res.Result.MaxSteps)

	_, err = s.handleRunCombined(ctx, mcp.CallToolRequest{}, map[string]interface{}{"combined": "0101"})
	assert.ErrorIs(t, err, godel.ErrMissingSeparator)

	_, err = s.handleRunMachine(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"encoding": "0101001010",
		"input":    "0\x00",
	})
	assert.ErrorIs(t, err, sanitize.ErrControlChar)
}

func TestEncodeDecodeTools(t *testing.T) {
	s := NewServer(turing.New(), nil)
	ctx := context.Background()

	enc, err := s.handleEncode(ctx, mcp.CallToolRequest{}, map[string]interface{}{"definition": goLeft})
	require.NoError(t, err)
	assert.Equal(t, "0101001010", enc.Encoding)
	assert.Equal(t, "1354", enc.Decimal)

	dec, err := s.handleDecode(ctx, mcp.CallToolRequest{}, map[string]interface{}{"encoding": enc.Encoding})
	require.NoError(t, err)
	require.Len(t, dec.Machine.Transitions, 1)
	assert.Equal(t, 2, dec.Machine.Transitions[0].To)

	_, err = s.handleEncode(ctx, mcp.CallToolRequest{}, map[string]interface{}{"definition": goLeft, "format": "toml"})
	assert.Error(t, err)
}

func TestGraphTool(t *testing.T) {
	s := NewServer(turing.New(), nil)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"encoding": "0101001010"}
	out, err := s.handleGraph(context.Background(), req)
	require.NoError(t, err)
	require.False(t, out.IsError)
	require.Len(t, out.Content, 1)
	text, ok := out.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "graph LR")

	req.Params.Arguments = map[string]any{"encoding": "2"}
	out, err = s.handleGraph(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, out.IsError)
}

func TestProgramsResource(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, &domain.Program{Name: "go-left", Encoding: "0101001010"}))

	s := NewServer(turing.New(), store)
	contents, err := s.readPrograms(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, ProgramsURI, text.URI)

	var programs []domain.Program
	require.NoError(t, json.Unmarshal([]byte(text.Text), &programs))
	require.Len(t, programs, 1)
	assert.Equal(t, "go-left", programs[0].Name)
}

func TestRunTools_StepBudgetIsCapped(t *testing.T) {
	s := NewServer(turing.New(turing.WithMaxSteps(5)), nil)

	res, err := s.handleRunMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"encoding":  "01000101000100",
		"max_steps": float64(1e9),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeStepLimit, res.Result.Outcome)
	assert.Equal(t, 5, res.Result.MaxSteps)
}
