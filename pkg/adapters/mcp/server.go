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

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const stateURI = "tendril://state"

// TodoList is the structured result of the todo tools.
type TodoList struct {
	Filter       domain.Filter `json:"filter" jsonschema_description:"The filter the list belongs to"`
	Todos        []domain.Todo `json:"todos" jsonschema_description:"Todos visible under the filter"`
	IsFetching   bool          `json:"isFetching" jsonschema_description:"Whether a fetch is in flight"`
	ErrorMessage string        `json:"errorMessage,omitempty" jsonschema_description:"Last fetch error"`
}

// Server wraps an App and exposes it as an MCP Server.
type Server struct {
	app       *tendril.App
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(app *tendril.App, opts ...Option) *Server {
	s := &Server{
		app:       app,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("tendril-mcp", strings.TrimSpace(tendril.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the full state tree (counter, todos, posts, users)."),
	), s.handleGetState)

	s.mcpServer.AddTool(mcp.NewTool("dispatch",
		mcp.WithDescription("Dispatch an action and return the resulting state."),
		mcp.WithString("action", mcp.Required(), mcp.Description(`JSON action envelope, e.g. {"type":"INCREMENT"}`)),
	), s.handleDispatch)

	s.mcpServer.AddTool(mcp.NewTool("visible_todos",
		mcp.WithDescription("List the todos visible under a filter."),
		mcp.WithString("filter", mcp.Description("all, active or completed (default all)")),
		mcp.WithOutputSchema[TodoList](),
	), mcp.NewStructuredToolHandler(s.handleVisibleTodos))

	s.mcpServer.AddTool(mcp.NewTool("fetch_todos",
		mcp.WithDescription("Fetch the todos of a filter from the server, then list them."),
		mcp.WithString("filter", mcp.Description("all, active or completed (default all)")),
		mcp.WithOutputSchema[TodoList](),
	), mcp.NewStructuredToolHandler(s.handleFetchTodos))
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.app.GetState())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	action, err := s.app.Registry().Decode([]byte(raw))
	if err != nil {
		s.logger.Warn("MCP dispatch: action rejected", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.app.Dispatch(ctx, action); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dispatch failed: %v", err)), nil
	}
	return s.handleGetState(ctx, request)
}

func (s *Server) handleVisibleTodos(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TodoList, error) {
	filter, err := filterArg(args)
	if err != nil {
		return TodoList{}, err
	}
	return s.todoList(filter), nil
}

func (s *Server) handleFetchTodos(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TodoList, error) {
	filter, err := filterArg(args)
	if err != nil {
		return TodoList{}, err
	}
	if _, err := s.app.Dispatch(ctx, s.app.FetchTodos(filter)); err != nil {
		return TodoList{}, fmt.Errorf("fetch failed: %w", err)
	}
	return s.todoList(filter), nil
}

func (s *Server) todoList(f domain.Filter) TodoList {
	st := s.app.GetState()
	return TodoList{
		Filter:       f,
		Todos:        tendril.VisibleTodos(st, f),
		IsFetching:   tendril.IsFetching(st, f),
		ErrorMessage: tendril.ErrorMessage(st, f),
	}
}

func filterArg(args map[string]interface{}) (domain.Filter, error) {
	raw, _ := args["filter"].(string)
	f, err := domain.ParseFilter(raw)
	if errors.Is(err, domain.ErrUnknownFilter) {
		return "", fmt.Errorf("invalid filter %q: %w", raw, err)
	}
	return f, err
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(stateURI, "Current State Tree",
		mcp.WithMIMEType("application/json"),
	), s.readState)
}

func (s *Server) readState(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.app.GetState())
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      stateURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
