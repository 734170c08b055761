package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/godel"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/sanitize"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ProgramsURI lists the stored programs.
const ProgramsURI = "turing://programs"

// RunResponse is the structured output of the run tools.
type RunResponse struct {
	Result         domain.Result `json:"result" jsonschema_description:"Final configuration and outcome of the run"`
	Transitions    int           `json:"transitions" jsonschema_description:"Number of decoded transitions"`
	SkippedRecords []string      `json:"skipped_records,omitempty" jsonschema_description:"Malformed records that were ignored"`
}

// EncodeResponse is the structured output of encode_machine.
type EncodeResponse struct {
	Encoding    string `json:"encoding" jsonschema_description:"Binary transition records joined by 11"`
	GodelNumber string `json:"godel_number" jsonschema_description:"Encoding prefixed with 1"`
	Decimal     string `json:"decimal" jsonschema_description:"Gödel number in base 10"`
}

// DecodeResponse is the structured output of decode_machine.
type DecodeResponse struct {
	Machine        *schema.MachineFile `json:"machine" jsonschema_description:"Decoded machine definition"`
	SkippedRecords []string            `json:"skipped_records,omitempty"`
}

// Server wraps the universal machine engine and exposes it as an MCP Server.
type Server struct {
	engine    *turing.Engine
	store     ports.ProgramStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. store may be nil, in which case
// the programs resource is not registered.
func NewServer(engine *turing.Engine, store ports.ProgramStore) *Server {
	s := &Server{
		engine:    engine,
		store:     store,
		logger:    engine.Logger(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Decode a binary machine encoding and run it on an input tape."),
		mcp.WithString("encoding", mcp.Required(), mcp.Description("Transition records 0^i 1 0^j 1 0^k 1 0^l 1 0^m joined by 11")),
		mcp.WithString("input", mcp.Description("Initial tape content (optional)")),
		mcp.WithNumber("max_steps", mcp.Description("Step budget (optional, capped by the server budget)")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunMachine))

	// TOOL: run_combined
	combinedTool := mcp.NewTool("run_combined",
		mcp.WithDescription("Run a combined string <encoding>111<input>."),
		mcp.WithString("combined", mcp.Required(), mcp.Description("Encoding and input separated by the first 111")),
		mcp.WithNumber("max_steps", mcp.Description("Step budget (optional, capped by the server budget)")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(combinedTool, mcp.NewStructuredToolHandler(s.handleRunCombined))

	// TOOL: encode_machine
	encodeTool := mcp.NewTool("encode_machine",
		mcp.WithDescription("Encode a YAML or JSON machine definition into its binary form and Gödel number."),
		mcp.WithString("definition", mcp.Required(), mcp.Description("Machine definition document")),
		mcp.WithString("format", mcp.Description("yaml (default) or json")),
		mcp.WithOutputSchema[EncodeResponse](),
	)
	s.mcpServer.AddTool(encodeTool, mcp.NewStructuredToolHandler(s.handleEncode))

	// TOOL: decode_machine
	decodeTool := mcp.NewTool("decode_machine",
		mcp.WithDescription("Decode a binary machine encoding into a readable definition."),
		mcp.WithString("encoding", mcp.Required(), mcp.Description("Binary machine encoding")),
		mcp.WithOutputSchema[DecodeResponse](),
	)
	s.mcpServer.AddTool(decodeTool, mcp.NewStructuredToolHandler(s.handleDecode))

	// TOOL: graph_machine
	s.mcpServer.AddTool(mcp.NewTool("graph_machine",
		mcp.WithDescription("Render the transition diagram of an encoded machine as Mermaid."),
		mcp.WithString("encoding", mcp.Required(), mcp.Description("Binary machine encoding")),
	), s.handleGraph)
}

func (s *Server) handleRunMachine(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	encoding, _ := args["encoding"].(string)
	input, _ := args["input"].(string)
	if err := sanitize.Input(input, 0); err != nil {
		return RunResponse{}, fmt.Errorf("invalid input: %w", err)
	}

	x, err := s.engine.Prepare(encoding, input)
	if err != nil {
		return RunResponse{}, fmt.Errorf("prepare failed: %w", err)
	}
	return s.execute(ctx, x, maxSteps(args))
}

func (s *Server) handleRunCombined(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	combined, _ := args["combined"].(string)
	if err := sanitize.Input(combined, 0); err != nil {
		return RunResponse{}, fmt.Errorf("invalid input: %w", err)
	}

	x, err := s.engine.PrepareCombined(combined)
	if err != nil {
		return RunResponse{}, fmt.Errorf("prepare failed: %w", err)
	}
	return s.execute(ctx, x, maxSteps(args))
}

func (s *Server) execute(ctx context.Context, x *turing.Execution, max int) (RunResponse, error) {
	res, err := x.Execute(ctx, s.engine.StepBudget(max))
	if err != nil {
		return RunResponse{}, fmt.Errorf("run interrupted: %w", err)
	}
	return RunResponse{
		Result:         res,
		Transitions:    len(x.Machine().Transitions()),
		SkippedRecords: x.Report().ErrorStrings(),
	}, nil
}

func (s *Server) handleEncode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EncodeResponse, error) {
	definition, _ := args["definition"].(string)
	format := schema.FormatYAML
	if f, ok := args["format"].(string); ok && f != "" {
		var err error
		if format, err = schema.ParseFormat(f); err != nil {
			return EncodeResponse{}, err
		}
	}

	m, err := schema.Load([]byte(definition), format)
	if err != nil {
		return EncodeResponse{}, fmt.Errorf("invalid definition: %w", err)
	}
	enc, err := godel.NewEncoder(m)
	if err != nil {
		return EncodeResponse{}, err
	}
	encoding, err := enc.Encode()
	if err != nil {
		return EncodeResponse{}, err
	}
	decimal, err := enc.GodelDecimal()
	if err != nil {
		return EncodeResponse{}, err
	}
	return EncodeResponse{Encoding: encoding, GodelNumber: "1" + encoding, Decimal: decimal}, nil
}

func (s *Server) handleDecode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DecodeResponse, error) {
	encoding, _ := args["encoding"].(string)
	m, report, err := s.engine.Decode(encoding)
	if err != nil {
		return DecodeResponse{}, fmt.Errorf("decode failed: %w", err)
	}
	return DecodeResponse{Machine: schema.FromMachine(m), SkippedRecords: report.ErrorStrings()}, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	encoding, err := request.RequireString("encoding")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, _, err := s.engine.Decode(encoding)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(m, nil)), nil
}

func (s *Server) registerResources() {
	if s.store == nil {
		return
	}
	// EXPOSE: turing://programs
	s.mcpServer.AddResource(mcp.NewResource(ProgramsURI, "Stored Programs",
		mcp.WithMIMEType("application/json"),
	), s.readPrograms)
}

func (s *Server) readPrograms(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	programs := make([]*domain.Program, 0, len(names))
	for _, name := range names {
		p, err := s.store.Load(ctx, name)
		if errors.Is(err, domain.ErrProgramNotFound) {
			continue // deleted or expired since List
		}
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	jsonBytes, err := json.Marshal(programs)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ProgramsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func maxSteps(args map[string]interface{}) int {
	switch v := args["max_steps"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
