package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lukman83/ozon-sync/internal/pipeline"
)

func registerTools(s *server.MCPServer, p *pipeline.Pipeline) {
	// list_offers
	listTool := mcp.NewTool("list_offers",
		mcp.WithDescription("List every offer ID in the seller's Ozon catalog"),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListOffers(ctx, p)
	})

	// preview_sync
	previewTool := mcp.NewTool("preview_sync",
		mcp.WithDescription("Compute the stock and price updates a sync would upload, without uploading"),
	)
	s.AddTool(previewTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handlePreviewSync(ctx, p)
	})

	// run_sync
	runTool := mcp.NewTool("run_sync",
		mcp.WithDescription("Run a full price and stock synchronization against the Ozon seller API"),
	)
	s.AddTool(runTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRunSync(ctx, p)
	})
}

func handleListOffers(ctx context.Context, p *pipeline.Pipeline) (*mcp.CallToolResult, error) {
	offerIDs, err := p.Ozon.OfferIDs(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list error: %v", err)), nil
	}

	data, _ := json.MarshalIndent(offerIDs, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func handlePreviewSync(ctx context.Context, p *pipeline.Pipeline) (*mcp.CallToolResult, error) {
	preview, err := p.DryRun(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("preview error: %v", err)), nil
	}

	data, _ := json.MarshalIndent(preview, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func handleRunSync(ctx context.Context, p *pipeline.Pipeline) (*mcp.CallToolResult, error) {
	summary, err := p.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sync error: %v", err)), nil
	}

	data, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}
