package turing_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_StepsOnEnter(t *testing.T) {
	x, err := turing.New().PrepareMachine(incrementMachine(t), "00")
	require.NoError(t, err)

	var out bytes.Buffer
	c := turing.NewConsole(strings.NewReader("\n\n\n"), &out)
	res, err := c.Run(context.Background(), x, 0)
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, 3, strings.Count(out.String(), "> "))
	assert.Contains(t, out.String(), "ACCEPT")
}

func TestConsole_Quit(t *testing.T) {
	x, err := turing.New().PrepareMachine(incrementMachine(t), "0000")
	require.NoError(t, err)

	var out bytes.Buffer
	c := turing.NewConsole(strings.NewReader("\nq\n"), &out)
	res, err := c.Run(context.Background(), x, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeCanceled, res.Outcome)
	assert.Equal(t, 1, res.Steps)
	assert.Contains(t, out.String(), "Bye!")
}

func TestConsole_ContinueAndRenderer(t *testing.T) {
	x, err := turing.New().PrepareMachine(incrementMachine(t), "000")
	require.NoError(t, err)

	var out bytes.Buffer
	c := &turing.Console{
		Input:  strings.NewReader("c\n"),
		Output: &out,
		Renderer: func(e domain.StepEvent) string {
			return fmt.Sprintf("step=%d", e.Step)
		},
	}
	res, err := c.Run(context.Background(), x, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Steps)
	assert.Equal(t, 1, strings.Count(out.String(), "> "))
	assert.Contains(t, out.String(), "step=4")
}

func TestConsole_Headless(t *testing.T) {
	x, err := turing.New().PrepareMachine(incrementMachine(t), "0")
	require.NoError(t, err)

	var out bytes.Buffer
	c := &turing.Console{Output: &out, Headless: true}
	res, err := c.Run(context.Background(), x, 0)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.NotContains(t, out.String(), "> ")
	assert.Equal(t, res.Steps+1, strings.Count(out.String(), "\n"))
}

func TestConsole_RequiresIO(t *testing.T) {
	x, err := turing.New().PrepareMachine(incrementMachine(t), "0")
	require.NoError(t, err)

	_, err = (&turing.Console{}).Run(context.Background(), x, 0)
	assert.Error(t, err)
}
