package mcpserver

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/rag"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

const version = "1.0.0"

// AskInput is the input schema for the ask_documents tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested documents"`
	Size     int    `json:"size,omitempty" jsonschema:"maximum number of chunks to retrieve (default 5)"`
}

// AskOutput mirrors the query job's answer payload.
type AskOutput struct {
	Answer           string   `json:"answer"`
	Citations        []string `json:"citations"`
	SourcesUsed      int      `json:"sources_used"`
	GenerationMethod string   `json:"generation_method"`
}

// Server exposes the query pipeline as an MCP tool. Tool calls run the
// retrieval synchronously, they never enter the job queue.
type Server struct {
	retriever   rag.QueryRetriever
	synthesizer rag.AnswerSynthesizer
	server      *mcp.Server
	logger      *logger_i.Logger
}

func NewServer(retriever rag.QueryRetriever, synthesizer rag.AnswerSynthesizer) *Server {
	impl := &mcp.Implementation{
		Name:    "driverag",
		Version: version,
	}

	s := &Server{
		retriever:   retriever,
		synthesizer: synthesizer,
		server:      mcp.NewServer(impl, nil),
		logger:      logger_i.NewLogger("MCPServer"),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_documents",
		Description: "Answer a question from the ingested documents, with citations",
	}, s.handleAsk)

	return s
}

// HTTPHandler returns the streamable HTTP transport for mounting on the
// main router.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	size := input.Size
	if size <= 0 {
		size = config.DefaultResultSize
	}

	query := commonModels.QueryContext{
		Question: input.Question,
		Mode:     commonModels.SearchModeHybrid,
		Size:     size,
		RRFK:     config.DefaultRRFK,
		UseLLM:   true,
	}

	hits, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		s.logger.Error("tool retrieval failed", "error", err)
		return nil, AskOutput{}, err
	}

	answer := s.synthesizer.Synthesize(ctx, query, hits)

	return nil, AskOutput{
		Answer:           answer.Answer,
		Citations:        answer.Citations,
		SourcesUsed:      answer.SourcesUsed,
		GenerationMethod: answer.GenerationMethod,
	}, nil
}
