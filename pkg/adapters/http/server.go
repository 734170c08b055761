package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/godel"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/sanitize"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Server exposes a universal machine engine over HTTP.
type Server struct {
	Engine   *turing.Engine
	Store    ports.ProgramStore
	logger   *slog.Logger
	metrics  prometheus.Gatherer
	maxInput int
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the /programs routes.
func WithStore(store ports.ProgramStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics mounts GET /metrics for g.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = g
	}
}

// WithMaxInputSize bounds the input tape and combined strings accepted by
// the run routes. Zero uses the sanitize package default.
func WithMaxInputSize(bytes int) Option {
	return func(s *Server) {
		s.maxInput = bytes
	}
}

// RunRequest selects a machine and its input. Exactly one of Encoding,
// Combined and GodelNumber must be set.
type RunRequest struct {
	Encoding    string `json:"encoding,omitempty"`
	Combined    string `json:"combined,omitempty"`
	GodelNumber string `json:"godel_number,omitempty"`
	Input       string `json:"input,omitempty"`
	// MaxSteps is capped by the engine budget; zero selects it.
	MaxSteps    int    `json:"max_steps,omitempty"`
}

// RunResponse is the result of a run together with the decode report.
type RunResponse struct {
	Result         domain.Result `json:"result"`
	Transitions    int           `json:"transitions"`
	SkippedRecords []string      `json:"skipped_records,omitempty"`
}

// EncodeResponse carries every representation of an encoded machine.
type EncodeResponse struct {
	Encoding    string         `json:"encoding"`
	GodelNumber string         `json:"godel_number"`
	Decimal     string         `json:"decimal"`
	Symbols     map[string]int `json:"symbols"`
}

// DecodeRequest carries a binary machine encoding.
type DecodeRequest struct {
	Encoding string `json:"encoding"`
}

// DecodeResponse is the machine reconstructed from an encoding.
type DecodeResponse struct {
	Machine        *schema.MachineFile `json:"machine"`
	SkippedRecords []string            `json:"skipped_records,omitempty"`
}

// ProgramRequest is the body of PUT /programs/{name}.
type ProgramRequest struct {
	Encoding    string `json:"encoding"`
	Description string `json:"description,omitempty"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine *turing.Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		logger: engine.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/run", s.Run)
	r.Post("/run/stream", s.RunStream)
	r.Post("/encode", s.Encode)
	r.Post("/decode", s.Decode)

	if s.Store != nil {
		r.Route("/programs", func(r chi.Router) {
			r.Get("/", s.ListPrograms)
			r.Get("/{name}", s.GetProgram)
			r.Put("/{name}", s.PutProgram)
			r.Delete("/{name}", s.DeleteProgram)
			r.Post("/{name}/run", s.RunProgram)
		})
	}
	if s.metrics != nil {
		r.Handle("/metrics", observability.Handler(s.metrics))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":       "turing-http",
		"version":   strings.TrimSpace(turing.Version),
		"max_steps": s.Engine.MaxSteps(),
		"programs":  s.Store != nil,
	})
}

// Run handles the POST /run request.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	x, err := s.prepare(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.execute(w, r, x, body.MaxSteps)
}

// RunStream handles the POST /run/stream request (SSE). Every step is sent as
// a "step" event and the final result as a "halt" event.
func (s *Server) RunStream(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	x, err := s.prepare(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.stream(w, r, x, body.MaxSteps)
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request, x *turing.Execution, maxSteps int) {
	maxSteps = s.Engine.StepBudget(maxSteps)
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("RunStream: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, done := x.Stream(r.Context(), maxSteps)
	for e := range events {
		writeEvent(w, string(e.Type), e)
		flusher.Flush()
	}

	out := <-done
	if out.Err != nil {
		s.logger.Info("SSE client disconnected", "run_id", out.Result.RunID, "error", out.Err)
		return
	}
	writeEvent(w, string(domain.EventHalt), s.response(x, out.Result))
	flusher.Flush()
}

func writeEvent(w io.Writer, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("SSE payload encode failed", "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}

// Encode handles the POST /encode request. The body is a JSON machine definition.
func (s *Server) Encode(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	m, err := schema.Load(data, schema.FormatJSON)
	if err != nil {
		s.writeError(w, badRequest(err))
		return
	}

	enc, err := godel.NewEncoder(m)
	if err != nil {
		s.writeError(w, badRequest(err))
		return
	}
	encoding, err := enc.Encode()
	if err != nil {
		s.writeError(w, badRequest(err))
		return
	}
	decimal, err := enc.GodelDecimal()
	if err != nil {
		s.writeError(w, err)
		return
	}

	symbols := make(map[string]int)
	for sym, id := range enc.SymbolMapping() {
		symbols[sym.String()] = id
	}
	writeJSON(w, http.StatusOK, EncodeResponse{
		Encoding:    encoding,
		GodelNumber: "1" + encoding,
		Decimal:     decimal,
		Symbols:     symbols,
	})
}

// Decode handles the POST /decode request.
func (s *Server) Decode(w http.ResponseWriter, r *http.Request) {
	var body DecodeRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	m, report, err := s.Engine.Decode(body.Encoding)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DecodeResponse{
		Machine:        schema.FromMachine(m),
		SkippedRecords: report.ErrorStrings(),
	})
}

// ListPrograms handles GET /programs.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"programs": names})
}

// GetProgram handles GET /programs/{name}.
func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	p, err := s.Store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PutProgram handles PUT /programs/{name}. The encoding must decode to a valid machine.
func (s *Server) PutProgram(w http.ResponseWriter, r *http.Request) {
	var body ProgramRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	if _, _, err := s.Engine.Decode(body.Encoding); err != nil {
		s.writeError(w, err)
		return
	}

	p := &domain.Program{
		Name:        chi.URLParam(r, "name"),
		Encoding:    body.Encoding,
		Description: body.Description,
	}
	if err := s.Store.Save(r.Context(), p); err != nil {
		s.writeError(w, err)
		return
	}
	saved, err := s.Store.Load(r.Context(), p.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("program saved", "name", p.Name)
	writeJSON(w, http.StatusOK, saved)
}

// DeleteProgram handles DELETE /programs/{name}.
func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunProgram handles POST /programs/{name}/run. Only Input and MaxSteps of the
// body are used. With "Accept: text/event-stream" the run is streamed.
func (s *Server) RunProgram(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	p, err := s.Store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := sanitize.Input(body.Input, s.maxInput); err != nil {
		s.writeError(w, badRequest(err))
		return
	}
	x, err := s.Engine.Prepare(p.Encoding, body.Input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		s.stream(w, r, x, body.MaxSteps)
		return
	}
	s.execute(w, r, x, body.MaxSteps)
}

// -- Helpers --

var errBadRequest = errors.New("bad request")

type requestError struct{ err error }

func (e requestError) Error() string { return e.err.Error() }

func (e requestError) Unwrap() []error { return []error{errBadRequest, e.err} }

func badRequest(err error) error { return requestError{err: err} }

func (s *Server) prepare(body RunRequest) (*turing.Execution, error) {
	set := 0
	for _, v := range []string{body.Encoding, body.Combined, body.GodelNumber} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, badRequest(errors.New("exactly one of encoding, combined or godel_number is required"))
	}
	for _, v := range []string{body.Input, body.Combined} {
		if err := sanitize.Input(v, s.maxInput); err != nil {
			return nil, badRequest(err)
		}
	}

	switch {
	case body.Combined != "":
		return s.Engine.PrepareCombined(body.Combined)
	case body.GodelNumber != "":
		return s.Engine.PrepareGodelNumber(body.GodelNumber, body.Input)
	default:
		return s.Engine.Prepare(body.Encoding, body.Input)
	}
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, x *turing.Execution, maxSteps int) {
	res, err := x.Execute(r.Context(), s.Engine.StepBudget(maxSteps))
	if err != nil {
		s.logger.Warn("run interrupted", "run_id", res.RunID, "error", err)
		http.Error(w, fmt.Sprintf("Run interrupted: %v", err), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.response(x, res))
}

func (s *Server) response(x *turing.Execution, res domain.Result) RunResponse {
	return RunResponse{
		Result:         res,
		Transitions:    len(x.Machine().Transitions()),
		SkippedRecords: x.Report().ErrorStrings(),
	}
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProgramNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidProgramName),
		errors.Is(err, domain.ErrInvalidMachine),
		errors.Is(err, domain.ErrInputOutsideAlphabet),
		errors.Is(err, godel.ErrMissingSeparator),
		errors.Is(err, godel.ErrInvalidEncoding),
		errors.Is(err, godel.ErrInvalidGodelNumber),
		errors.Is(err, godel.ErrUndefinedSymbol):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
