package mcp

import (
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	reverie "github.com/unowned-ai/reverie/pkg"
	"github.com/unowned-ai/reverie/pkg/dreams"
)

const ServerName = "Reverie MCP Server"

type DreamsMCPServer struct {
	mcpServer *server.MCPServer
	journal   *dreams.Journal
	logger    *zap.Logger
	closer    func() error
	SessionID uuid.UUID
}

// NewDreamsMCPServer builds an MCP server over journal with every dream tool
// registered. closer, when set, releases the journal's storage on Close.
func NewDreamsMCPServer(journal *dreams.Journal, logger *zap.Logger, closer func() error) *DreamsMCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	session := uuid.New()
	logger = logger.With(zap.String("session", session.String()))

	s := server.NewMCPServer(
		ServerName,
		reverie.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	RegisterPingTool(s)
	RegisterCreateDreamTool(s, journal, logger)
	RegisterListDreamsTool(s, journal)
	RegisterSearchDreamsTool(s, journal)
	RegisterGetReportTool(s, journal)
	RegisterGetExportTool(s, journal)
	RegisterGetInsightsTool(s, journal)
	RegisterGetStatsTool(s, journal)

	logger.Info("mcp server ready", zap.Int("dreams", journal.Len()))

	return &DreamsMCPServer{
		mcpServer: s,
		journal:   journal,
		logger:    logger,
		closer:    closer,
		SessionID: session,
	}
}

// Start runs the stdio event loop.
func (s *DreamsMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *DreamsMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

func (s *DreamsMCPServer) Journal() *dreams.Journal {
	return s.journal
}

// Close releases the journal's storage.
func (s *DreamsMCPServer) Close() error {
	s.logger.Info("mcp server shutting down")
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
