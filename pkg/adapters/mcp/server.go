// Package mcp exposes a node host as a Model Context Protocol server, so
// agents can run loader nodes and inspect their slots as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	nodedev "github.com/ian-griptape-ai/node-development"
	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/ian-griptape-ai/node-development/pkg/nodes"
)

// Host defines the interface the MCP server needs from the node host.
type Host interface {
	Names() []string
	Get(name string) (nodes.Node, bool)
	Run(ctx context.Context, name string) (*domain.Outcome, error)
}

// Server wraps a node host and exposes it as an MCP server.
type Server struct {
	host      Host
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(host Host) *Server {
	s := &Server{
		host:      host,
		mcpServer: server.NewMCPServer("nodedev-mcp", nodedev.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
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
		slog.Info("MCP server listening (SSE)", "address", addr)
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
	// TOOL: list_nodes
	s.mcpServer.AddTool(mcp.NewTool("list_nodes",
		mcp.WithDescription("List the names of all registered nodes."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.host.Names())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: run_node
	runTool := mcp.NewTool("run_node",
		mcp.WithDescription("Run one node and report which slots were created, updated or deleted."),
		mcp.WithString("node", mcp.Required(), mcp.Description("Name of the node to run")),
		mcp.WithOutputSchema[domain.Outcome](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunNode))

	// TOOL: set_parameter
	setTool := mcp.NewTool("set_parameter",
		mcp.WithDescription("Set a node property slot (e.g. the source path or key filter) and run the node's reaction."),
		mcp.WithString("node", mcp.Required(), mcp.Description("Name of the node")),
		mcp.WithString("parameter", mcp.Required(), mcp.Description("Property slot name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		mcp.WithOutputSchema[domain.Outcome](),
	)
	s.mcpServer.AddTool(setTool, mcp.NewStructuredToolHandler(s.handleSetParameter))

	// TOOL: get_slots
	s.mcpServer.AddTool(mcp.NewTool("get_slots",
		mcp.WithDescription("Get a node's current slots with their values."),
		mcp.WithString("node", mcp.Required(), mcp.Description("Name of the node")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, _ := request.GetArguments()["node"].(string)
		node, ok := s.host.Get(name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("node not found: %s", name)), nil
		}
		reader, ok := node.(nodes.SlotReader)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("node does not expose slots: %s", name)), nil
		}
		slots, err := reader.Snapshot(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(slots)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleRunNode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Outcome, error) {
	name, _ := args["node"].(string)
	if _, ok := s.host.Get(name); !ok {
		return domain.Outcome{}, fmt.Errorf("node not found: %s", name)
	}

	outcome, err := s.host.Run(ctx, name)
	if err != nil {
		// The pass still recorded a status; surface both.
		if outcome != nil {
			return *outcome, fmt.Errorf("run failed: %w", err)
		}
		return domain.Outcome{}, fmt.Errorf("run failed: %w", err)
	}
	return *outcome, nil
}

func (s *Server) handleSetParameter(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Outcome, error) {
	name, _ := args["node"].(string)
	param, _ := args["parameter"].(string)
	value, _ := args["value"].(string)

	node, ok := s.host.Get(name)
	if !ok {
		return domain.Outcome{}, fmt.Errorf("node not found: %s", name)
	}
	setter, ok := node.(nodes.ParamSetter)
	if !ok {
		return domain.Outcome{}, fmt.Errorf("node does not accept parameter writes: %s", name)
	}

	outcome, err := setter.SetParam(ctx, param, value)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("set parameter failed: %w", err)
	}
	if outcome == nil {
		return domain.Outcome{}, nil
	}
	return *outcome, nil
}

func (s *Server) registerResources() {
	// EXPOSE: nodedev://nodes
	s.mcpServer.AddResource(mcp.NewResource("nodedev://nodes", "Registered Nodes",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(s.host.Names())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "nodedev://nodes",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
