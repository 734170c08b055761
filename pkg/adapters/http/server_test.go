package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/godel"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func incrementEncoding(t *testing.T) string {
	t.Helper()
	b := dsl.New("unary-increment")
	b.State(dsl.Start).On('0').Right().Go(3)
	b.State(3).
		On('0').Right().Go(3).
		On('_').Write('1').Stay().Go(dsl.Accept)
	s, err := godel.Encode(b.MustBuild())
	require.NoError(t, err)
	// Encode returns the Gödel number; strip its leading marker bit.
	return strings.TrimPrefix(s, "1")
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndInfo(t *testing.T) {
	h := NewHandler(turing.New(turing.WithMaxSteps(50)))

	w := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "turing-http", info["app"])
	assert.EqualValues(t, 50, info["max_steps"])
	assert.Equal(t, false, info["programs"])
}

func TestRun(t *testing.T) {
	h := NewHandler(turing.New())
	enc := incrementEncoding(t)

	tests := []struct {
		name string
		body RunRequest
	}{
		{"encoding", RunRequest{Encoding: enc, Input: "00"}},
		{"combined", RunRequest{Combined: godel.JoinCombined(enc, "00")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/run", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp RunResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, domain.OutcomeAccepted, resp.Result.Outcome)
			assert.Equal(t, "001", resp.Result.Content)
			assert.Equal(t, 3, resp.Transitions)
			assert.Empty(t, resp.SkippedRecords)
		})
	}
}

func TestRun_GodelNumber(t *testing.T) {
	decimal, err := godel.BinaryToDecimal("1" + incrementEncoding(t))
	require.NoError(t, err)

	w := do(t, NewHandler(turing.New()), "POST", "/run", RunRequest{GodelNumber: decimal, Input: "0"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "01", resp.Result.Content)
}

func TestRun_BadRequests(t *testing.T) {
	h := NewHandler(turing.New())

	tests := []struct {
		name string
		body any
	}{
		{"nothing selected", RunRequest{Input: "0"}},
		{"two selected", RunRequest{Encoding: "0101", Combined: "0101"}},
		{"missing separator", RunRequest{Combined: "0101001010"}},
		{"invalid characters", RunRequest{Encoding: "01x"}},
		{"invalid godel number", RunRequest{GodelNumber: "-4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/run", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	req := httptest.NewRequest("POST", "/run", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRun_ReportsSkippedRecords(t *testing.T) {
	enc := "0101001010" + godel.RecordSeparator + "01010"
	w := do(t, NewHandler(turing.New()), "POST", "/run", RunRequest{Encoding: enc, Input: "0"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Transitions)
	assert.Len(t, resp.SkippedRecords, 1)
	assert.True(t, resp.Result.Accepted)
}

func TestRunStream(t *testing.T) {
	h := NewHandler(turing.New())
	w := do(t, h, "POST", "/run/stream", RunRequest{Encoding: incrementEncoding(t), Input: "00"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "event: initialize\n")
	assert.Equal(t, 3, strings.Count(body, "event: step\n"))
	require.Contains(t, body, "event: halt\n")

	halt := body[strings.Index(body, "event: halt\n"):]
	assert.Contains(t, halt, `"outcome":"accepted"`)
}

func TestEncodeDecode(t *testing.T) {
	h := NewHandler(turing.New())
	def := map[string]any{
		"name": "go-left",
		"transitions": []map[string]any{
			{"from": 1, "read": "0", "to": 2, "write": "0", "move": "L"},
		},
	}

	w := do(t, h, "POST", "/encode", def)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var enc EncodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enc))
	assert.Equal(t, "0101001010", enc.Encoding)
	assert.Equal(t, "10101001010", enc.GodelNumber)
	assert.Equal(t, "1354", enc.Decimal)
	assert.Equal(t, 1, enc.Symbols["0"])

	w = do(t, h, "POST", "/decode", DecodeRequest{Encoding: enc.Encoding})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dec DecodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dec))
	require.Len(t, dec.Machine.Transitions, 1)
	assert.Equal(t, "L", dec.Machine.Transitions[0].Move[:1])

	w = do(t, h, "POST", "/encode", map[string]any{"transitions": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrograms(t *testing.T) {
	h := NewHandler(turing.New(), WithStore(memory.NewStore()))
	enc := incrementEncoding(t)

	w := do(t, h, "GET", "/programs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"programs":[]}`, w.Body.String())

	w = do(t, h, "PUT", "/programs/inc", ProgramRequest{Encoding: enc, Description: "unary increment"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var p domain.Program
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "inc", p.Name)
	assert.False(t, p.CreatedAt.IsZero())

	w = do(t, h, "PUT", "/programs/bad", ProgramRequest{Encoding: "0x1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "GET", "/programs/inc", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "POST", "/programs/inc/run", RunRequest{Input: "000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0001", resp.Result.Content)

	w = do(t, h, "GET", "/programs", nil)
	assert.JSONEq(t, `{"programs":["inc"]}`, w.Body.String())

	w = do(t, h, "DELETE", "/programs/inc", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "GET", "/programs/inc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "POST", "/programs/missing/run", RunRequest{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgramRunStream(t *testing.T) {
	store := memory.NewStore()
	h := NewHandler(turing.New(), WithStore(store))
	require.Equal(t, http.StatusOK, do(t, h, "PUT", "/programs/inc", ProgramRequest{Encoding: incrementEncoding(t)}).Code)

	req := httptest.NewRequest("POST", "/programs/inc/run", strings.NewReader(`{"input":"0"}`))
	req.Header.Set("Accept", "text/event-stream")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "event: halt\n")
}

func TestProgramsDisabledWithoutStore(t *testing.T) {
	w := do(t, NewHandler(turing.New()), "GET", "/programs", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	engine := turing.New(turing.WithLifecycleHooks(metrics.Hooks()))
	h := NewHandler(engine, WithMetrics(reg))

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/run", RunRequest{Encoding: incrementEncoding(t), Input: "0"}).Code)

	w := do(t, h, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `turing_runs_total{outcome="accepted"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, NewHandler(turing.New()), "OPTIONS", "/run", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_SanitizesInput(t *testing.T) {
	h := NewHandler(turing.New(), WithMaxInputSize(4))
	enc := incrementEncoding(t)

	w := do(t, h, "POST", "/run", RunRequest{Encoding: enc, Input: "00000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "maximum allowed size")

	w = do(t, h, "POST", "/run", RunRequest{Encoding: enc, Input: "0\x1b0"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "control characters")
}

func TestRun_StepBudgetIsCapped(t *testing.T) {
	h := NewHandler(turing.New(turing.WithMaxSteps(5)))
	// δ(START, _) = (START, _, RIGHT) walks right forever.
	loop := "01000101000100"

	w := do(t, h, "POST", "/run", RunRequest{Encoding: loop, MaxSteps: 1_000_000_000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.OutcomeStepLimit, resp.Result.Outcome)
	assert.Equal(t, 5, resp.Result.MaxSteps)
	assert.Equal(t, 5, resp.Result.Steps)

	w = do(t, h, "POST", "/run", RunRequest{Encoding: loop, MaxSteps: 3})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Result.Steps)
}
