package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/godel"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const incrementYAML = `
name: unary-increment
input_alphabet: "0"
tape_alphabet: "01_"
transitions:
  - {from: 1, read: "0", to: 3, move: R}
  - {from: 3, read: "0", to: 3, move: R}
  - {from: 3, read: "_", to: 2, write: "1", move: N}
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		MaxSteps:     100,
		LogLevel:     "error",
		Store:        config.StoreMemory,
		HTTPPort:     8080,
		MaxInputSize: 1024,
	}
}

func testApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func writeMachine(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(incrementYAML), 0644))
	return path
}

func TestSource_Prepare(t *testing.T) {
	ctx := context.Background()
	app := testApp(t)
	engine := app.Engine()
	require.NoError(t, app.Store.Save(ctx, &domain.Program{Name: "go-left", Encoding: "0101001010"}))

	tests := []struct {
		name    string
		src     Source
		content string
	}{
		{"file", Source{File: writeMachine(t), Input: "00"}, "001"},
		{"encoding", Source{Encoding: "0101001010", Input: "0"}, "0"},
		{"combined", Source{Combined: "0101001010" + godel.InputSeparator + "0"}, "0"},
		{"godel", Source{Godel: "1354", Input: "0"}, "0"},
		{"program", Source{Program: "go-left", Input: "0"}, "0"},
		{"builtin", Source{Builtin: "binary-flip", Input: "01"}, "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := tt.src.Prepare(ctx, engine, app.Store)
			require.NoError(t, err)
			res, err := x.Execute(ctx, 0)
			require.NoError(t, err)
			assert.True(t, res.Accepted)
			assert.Equal(t, tt.content, res.Content)
		})
	}
}

func TestSource_Errors(t *testing.T) {
	ctx := context.Background()
	engine := testApp(t).Engine()

	_, err := Source{}.Prepare(ctx, engine, nil)
	assert.ErrorIs(t, err, ErrSource)

	_, err = Source{Encoding: "01", Godel: "5"}.Prepare(ctx, engine, nil)
	assert.ErrorIs(t, err, ErrSource)

	_, err = Source{Combined: "0101001010", Input: "0"}.Prepare(ctx, engine, nil)
	assert.Error(t, err)

	_, err = Source{Program: "x"}.Prepare(ctx, engine, nil)
	assert.Error(t, err)

	_, err = Source{Program: "missing"}.Prepare(ctx, engine, memory.NewStore())
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)

	_, err = Source{Builtin: "ghost"}.Prepare(ctx, engine, nil)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestRun_Plain(t *testing.T) {
	var out bytes.Buffer
	res, err := Run(context.Background(), testApp(t), RunOptions{
		Source: Source{File: writeMachine(t), Input: "000"},
	}, nil, &out)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeAccepted, res.Outcome)
	assert.True(t, strings.HasPrefix(out.String(), "outcome=accepted steps=4"))
	assert.Contains(t, out.String(), "content=0001")
}

func TestRun_Quiet(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), testApp(t), RunOptions{
		Source: Source{File: writeMachine(t), Input: "0"},
		Quiet:  true,
	}, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "01\n", out.String())
}

func TestRun_Pretty(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), testApp(t), RunOptions{
		Source: Source{File: writeMachine(t), Input: "0"},
		Pretty: true,
	}, nil, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "unary-increment")
	assert.Contains(t, out.String(), "accepted")
}

func TestRun_JSON(t *testing.T) {
	var out bytes.Buffer
	res, err := Run(context.Background(), testApp(t), RunOptions{
		Source: Source{File: writeMachine(t), Input: "00"},
		JSON:   true,
	}, nil, &out)
	require.NoError(t, err)

	var lines []map[string]any
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	// initialize, one line per step, halt
	require.Len(t, lines, res.Steps+2)
	assert.Equal(t, "initialize", lines[0]["type"])
	assert.Equal(t, "step", lines[1]["type"])
	last := lines[len(lines)-1]
	assert.Equal(t, "halt", last["type"])
	assert.Equal(t, "accepted", last["result"].(map[string]any)["outcome"])
}

func TestRun_Step(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("\n\nq\n")
	res, err := Run(context.Background(), testApp(t), RunOptions{
		Source: Source{File: writeMachine(t), Input: "000"},
		Step:   true,
	}, in, &out)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeCanceled, res.Outcome)
	assert.Equal(t, 2, res.Steps)
	assert.Contains(t, out.String(), ">>> Enter: step")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRun_StepAndJSONConflict(t *testing.T) {
	_, err := Run(context.Background(), testApp(t), RunOptions{Step: true, JSON: true}, nil, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Store = config.StoreFile
		cfg.StoreDir = t.TempDir()
		store, closeFn, err := NewStore(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()
		fs, ok := store.(*file.Store)
		require.True(t, ok)
		assert.Equal(t, cfg.StoreDir, fs.BasePath())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig(t)
		cfg.Store = config.StoreRedis
		cfg.RedisAddr = mr.Addr()
		store, closeFn, err := NewStore(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()

		require.NoError(t, store.Save(ctx, &domain.Program{Name: "p", Encoding: "0101001010"}))
		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"p"}, names)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := testConfig(t)
		cfg.Store = config.StoreRedis
		cfg.RedisAddr = addr
		_, _, err := NewStore(ctx, cfg)
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Store = "s3"
		_, _, err := NewStore(ctx, cfg)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestApp_LogFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogFile = filepath.Join(t.TempDir(), "turing.log")

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	app.Logger.Error("boom", "run_id", "r1")
	require.NoError(t, app.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"boom"`)
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, HandleExecutionError(context.Canceled))
	assert.NoError(t, HandleExecutionError(errInterrupted))
	assert.Error(t, HandleExecutionError(domain.ErrProgramNotFound))
}

func TestInterruptibleReader(t *testing.T) {
	cancel := make(chan struct{})
	r := NewInterruptibleReader(strings.NewReader("abc"), cancel)
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	close(cancel)
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, errInterrupted)
}

func TestReportInterrupt(t *testing.T) {
	sc := NewSignalContext(context.Background())
	defer sc.Cancel()

	var out bytes.Buffer
	ReportInterrupt(&out, sc, context.Canceled)
	assert.Empty(t, out.String(), "no signal received yet")

	sc.sigCh <- os.Interrupt
	<-sc.Done()
	assert.Equal(t, os.Interrupt, sc.Signal())

	ReportInterrupt(&out, sc, domain.ErrProgramNotFound)
	assert.Empty(t, out.String(), "only interruptions are reported")

	ReportInterrupt(&out, sc, context.Canceled)
	assert.Equal(t, ">>> Run interrupted by interrupt\n", out.String())
}

func TestNewStore_Encrypted(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Store = config.StoreFile
	cfg.StoreDir = t.TempDir()
	cfg.StoreKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	store, closeFn, err := NewStore(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()
	require.NoError(t, store.Save(ctx, &domain.Program{Name: "secret", Encoding: "0101001010"}))

	raw, err := os.ReadFile(filepath.Join(cfg.StoreDir, "secret.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "0101001010")

	p, err := store.Load(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, "0101001010", p.Encoding)
}
