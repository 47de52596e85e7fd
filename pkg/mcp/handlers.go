package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/unowned-ai/reverie/pkg/analysis"
	"github.com/unowned-ai/reverie/pkg/dreams"
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Reverie MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_reverie"), nil
}

// RegisterCreateDreamTool registers the create_dream tool.
func RegisterCreateDreamTool(s *server.MCPServer, j *dreams.Journal, logger *zap.Logger) {
	createDream := mcp.NewTool("create_dream",
		mcp.WithDescription("Records a new dream. Sentiment is computed from the description."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short title of the dream.")),
		mcp.WithString("description", mcp.Required(), mcp.Description("What happened in the dream.")),
		mcp.WithString("emotion", mcp.Description("Dominant emotion, one of: "+strings.Join(dreams.Emotions, ", ")+".")),
		mcp.WithBoolean("lucid", mcp.Description("Whether the dreamer knew they were dreaming.")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags, e.g. 'flying, water'.")),
		mcp.WithNumber("sleep_quality", mcp.Description("Sleep quality from 1 to 10 (default 5). Out-of-range values are clamped.")),
	)
	s.AddTool(createDream, createDreamHandler(j, logger))
}

func createDreamHandler(j *dreams.Journal, logger *zap.Logger) server.ToolHandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, _ := stringArg(request, "title")
		description, _ := stringArg(request, "description")
		emotion, _ := stringArg(request, "emotion")
		tags, _ := stringArg(request, "tags")

		res, err := j.Create(ctx, dreams.Input{
			Title:        title,
			Description:  description,
			Emotion:      emotion,
			Lucid:        boolArg(request, "lucid"),
			Tags:         tags,
			SleepQuality: numberArg(request, "sleep_quality", dreams.DefaultSleepQuality),
		})

		var pe *dreams.PersistenceError
		switch {
		case dreams.IsValidation(err):
			return mcp.NewToolResultError(fmt.Sprintf("Invalid dream: %v", err)), nil
		case errors.As(err, &pe):
			logger.Warn("create_dream kept dream in memory only", zap.Int("id", res.Dream.ID), zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Dream %d was recorded in memory but could not be saved: %v", res.Dream.ID, pe.Err)), nil
		case err != nil:
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create dream: %v", err)), nil
		}

		return jsonResult(res.Dream, "dream")
	}
}

// RegisterListDreamsTool registers the list_dreams tool.
func RegisterListDreamsTool(s *server.MCPServer, j *dreams.Journal) {
	listDreams := mcp.NewTool("list_dreams",
		mcp.WithDescription("Lists every recorded dream in the order it was recorded."),
	)
	s.AddTool(listDreams, listDreamsHandler(j))
}

func listDreamsHandler(j *dreams.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(j.All(), "dreams")
	}
}

// RegisterSearchDreamsTool registers the search_dreams tool.
func RegisterSearchDreamsTool(s *server.MCPServer, j *dreams.Journal) {
	searchDreams := mcp.NewTool("search_dreams",
		mcp.WithDescription("Finds dreams whose title, description or tags contain the query, ignoring case."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for.")),
	)
	s.AddTool(searchDreams, searchDreamsHandler(j))
}

func searchDreamsHandler(j *dreams.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, ok := stringArg(request, "query")
		if !ok || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("'query' parameter is required and must be a non-empty string."), nil
		}
		return jsonResult(j.Search(query), "search results")
	}
}

// RegisterGetReportTool registers the get_report tool.
func RegisterGetReportTool(s *server.MCPServer, j *dreams.Journal) {
	getReport := mcp.NewTool("get_report",
		mcp.WithDescription("Returns the plain-text analysis report: statistics, emotions, sentiment, themes, frequent words, recent dreams and insights."),
	)
	s.AddTool(getReport, getReportHandler(j))
}

func getReportHandler(j *dreams.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := analysis.Aggregate(j.All())
		return mcp.NewToolResultText(analysis.Report(stats, analysis.Insights(stats))), nil
	}
}

// ExportResult is the payload of get_export.
type ExportResult struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

// RegisterGetExportTool registers the get_export tool.
func RegisterGetExportTool(s *server.MCPServer, j *dreams.Journal) {
	getExport := mcp.NewTool("get_export",
		mcp.WithDescription("Returns the analysis report with an export header and a suggested file name."),
	)
	s.AddTool(getExport, getExportHandler(j, time.Now))
}

func getExportHandler(j *dreams.Journal, now func() time.Time) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := analysis.Aggregate(j.All())
		at := now()
		content, err := analysis.Export(stats, analysis.Insights(stats), at)
		if errors.Is(err, analysis.ErrNothingToExport) {
			return mcp.NewToolResultError("No dreams to export!"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to export analysis: %v", err)), nil
		}
		return jsonResult(ExportResult{FileName: analysis.ExportFileName(at), Content: content}, "export")
	}
}

// RegisterGetInsightsTool registers the get_insights tool.
func RegisterGetInsightsTool(s *server.MCPServer, j *dreams.Journal) {
	getInsights := mcp.NewTool("get_insights",
		mcp.WithDescription("Returns the rule-based insights as a JSON array of sentences."),
	)
	s.AddTool(getInsights, getInsightsHandler(j))
}

func getInsightsHandler(j *dreams.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(analysis.Insights(analysis.Aggregate(j.All())), "insights")
	}
}

// RegisterGetStatsTool registers the get_stats tool.
func RegisterGetStatsTool(s *server.MCPServer, j *dreams.Journal) {
	getStats := mcp.NewTool("get_stats",
		mcp.WithDescription("Returns the aggregate statistics as JSON."),
	)
	s.AddTool(getStats, getStatsHandler(j))
}

func getStatsHandler(j *dreams.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(analysis.Aggregate(j.All()), "stats")
	}
}
