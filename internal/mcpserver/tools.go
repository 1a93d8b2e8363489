// Package mcpserver exposes pair comparisons via MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
	"github.com/finops-claw-gang/pairdiff/internal/engine"
	"github.com/finops-claw-gang/pairdiff/internal/jsondiff"
	"github.com/finops-claw-gang/pairdiff/internal/report"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/querier"
)

// Deps holds what the tools need. Querier may be nil, in which case
// get_comparison reports that durable runs are unavailable.
type Deps struct {
	Orchestrator     engine.Runner
	Querier          querier.ComparisonQuerier
	DefaultLimit     int
	DefaultBatchSize int
}

// RegisterTools registers all pairdiff MCP tools on the given server.
func RegisterTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "compare_urls",
			Description: "Fetch paired URLs (urls_a[i] vs urls_b[i]) and report structural JSON differences",
		},
		compareURLsHandler(deps),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "diff_json",
			Description: "Structurally diff two inline JSON documents",
		},
		diffJSONHandler(),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_comparison",
			Description: "Get progress or result of a durable comparison workflow",
		},
		getComparisonHandler(deps.Querier),
	)
}

type compareURLsInput struct {
	URLsA     []string `json:"urls_a"`
	URLsB     []string `json:"urls_b"`
	Limit     int      `json:"limit,omitempty"`
	BatchSize int      `json:"batch_size,omitempty"`
}

type compareURLsOutput struct {
	Counters domain.Counters `json:"counters"`
	Report   string          `json:"report"`
}

func compareURLsHandler(deps Deps) mcp.ToolHandlerFor[compareURLsInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input compareURLsInput) (*mcp.CallToolResult, any, error) {
		limit, batchSize := input.Limit, input.BatchSize
		if limit == 0 {
			limit = deps.DefaultLimit
		}
		if batchSize == 0 {
			batchSize = deps.DefaultBatchSize
		}

		eng := engine.New(deps.Orchestrator, engine.Config{Limit: limit, BatchSize: batchSize})
		result, err := eng.Run(ctx, input.URLsA, input.URLsB)
		if err != nil {
			var cfgErr *domain.ConfigError
			if errors.As(err, &cfgErr) {
				return errorResult(cfgErr.Message), nil, nil
			}
			return nil, nil, fmt.Errorf("compare_urls: %w", err)
		}

		return textResult(compareURLsOutput{Counters: result.Counters, Report: report.Format(result)})
	}
}

type diffJSONInput struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

type diffJSONOutput struct {
	Equal   bool               `json:"equal"`
	Entries []domain.DiffEntry `json:"entries"`
}

func diffJSONHandler() mcp.ToolHandlerFor[diffJSONInput, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input diffJSONInput) (*mcp.CallToolResult, any, error) {
		entries, err := jsondiff.DiffJSON([]byte(input.First), []byte(input.Second))
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		if entries == nil {
			entries = []domain.DiffEntry{}
		}
		return textResult(diffJSONOutput{Equal: len(entries) == 0, Entries: entries})
	}
}

type workflowIDInput struct {
	WorkflowID string `json:"workflow_id"`
}

func getComparisonHandler(q querier.ComparisonQuerier) mcp.ToolHandlerFor[workflowIDInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input workflowIDInput) (*mcp.CallToolResult, any, error) {
		if q == nil {
			return errorResult("durable comparisons not configured"), nil, nil
		}
		if input.WorkflowID == "" {
			return errorResult("workflow_id is required"), nil, nil
		}

		state, err := q.GetComparison(ctx, input.WorkflowID)
		if err != nil {
			return nil, nil, fmt.Errorf("get_comparison: %w", err)
		}

		return textResult(state)
	}
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
