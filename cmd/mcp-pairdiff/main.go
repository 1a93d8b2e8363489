// Command mcp-pairdiff runs the MCP tool server for URL pair comparisons.
// Uses stdio transport for integration with AI assistants.
package main

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finops-claw-gang/pairdiff/internal/config"
	"github.com/finops-claw-gang/pairdiff/internal/connectors"
	"github.com/finops-claw-gang/pairdiff/internal/mcpserver"
	"github.com/finops-claw-gang/pairdiff/internal/observability"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/querier"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// stdout carries the MCP protocol.
	logger := observability.InitLoggerTo(os.Stderr, cfg.LogLevel)

	deps := mcpserver.Deps{
		Orchestrator:     connectors.NewOrchestrator(cfg, nil, logger),
		DefaultLimit:     cfg.Limit,
		DefaultBatchSize: cfg.BatchSize,
	}

	c, err := connectors.DialTemporal(cfg, logger)
	if err != nil {
		logger.Warn("temporal unavailable, workflow tools disabled", "error", err)
	} else {
		defer c.Close()
		deps.Querier = querier.New(c)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pairdiff",
		Version: "v1.0.0",
	}, nil)
	mcpserver.RegisterTools(server, deps)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
