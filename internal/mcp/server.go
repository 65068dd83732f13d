package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/pdf-doc-inspector/internal/config"
	"github.com/a3tai/pdf-doc-inspector/internal/descriptions"
	"github.com/a3tai/pdf-doc-inspector/internal/logger"
	"github.com/a3tai/pdf-doc-inspector/internal/pdf"
)

// Server exposes the inspection service as MCP tools
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	log        logger.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, log logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if pdfService == nil {
		return nil, errors.New("pdfService cannot be nil")
	}
	if log == nil {
		log = logger.GetDefault()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		log:        log,
	}
	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	pathArg := func() mcp.ToolOption {
		return mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the served directory"),
		)
	}

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolInspectFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolInspectFile)),
		pathArg(),
	), s.handleInspectFile)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolReadFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolReadFile)),
		pathArg(),
	), s.handleReadFile)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolValidateFile)),
		pathArg(),
	), s.handleValidateFile)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolClassifyText,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolClassifyText)),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to classify"),
		),
	), s.handleClassifyText)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolExtractDates,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExtractDates)),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to scan for dates"),
		),
		mcp.WithBoolean("verbose",
			mcp.Description("Also list every candidate, including the ones that are not valid dates"),
		),
	), s.handleExtractDates)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolSearchDirectory,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolSearchDirectory)),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
		mcp.WithString("document_type",
			mcp.Description("Only return documents classified with this label"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of files to return (default and cap %d)", pdf.DefaultSearchLimit)),
		),
	), s.handleSearchDirectory)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolServerInfo)),
	), s.handleServerInfo)
}

// toolContext attaches a tool-scoped logger to ctx
func (s *Server) toolContext(ctx context.Context, tool string) (context.Context, logger.Logger) {
	log := s.log.With("tool", tool)
	log.Debug("tool called")
	return logger.ContextWithLogger(ctx, log), log
}

func (s *Server) handleInspectFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, log := s.toolContext(ctx, descriptions.ToolInspectFile)

	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.InspectFile(ctx, pdf.PDFInspectFileRequest{Path: path})
	if err != nil {
		log.Warn("inspection failed", "path", path, "error", err)
		return jsonError(pdf.NewErrorResult(err)), nil
	}

	return jsonResult(result)
}

func (s *Server) handleReadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, log := s.toolContext(ctx, descriptions.ToolReadFile)

	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ReadFile(pdf.PDFReadFileRequest{Path: path})
	if err != nil {
		log.Warn("read failed", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatReadFileResult(result)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.toolContext(ctx, descriptions.ToolValidateFile)

	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatValidateFileResult(result)), nil
}

func (s *Server) handleClassifyText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.toolContext(ctx, descriptions.ToolClassifyText)

	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(s.pdfService.ClassifyText(pdf.ClassifyTextRequest{Text: text}))
}

func (s *Server) handleExtractDates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.toolContext(ctx, descriptions.ToolExtractDates)

	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	verbose, _ := request.GetArguments()["verbose"].(bool)

	return jsonResult(s.pdfService.ExtractDates(pdf.ExtractDatesRequest{Text: text, Verbose: verbose}))
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	ctx, log := s.toolContext(ctx, descriptions.ToolSearchDirectory)
	args := request.GetArguments()

	req := pdf.PDFSearchDirectoryRequest{Directory: s.config.PDFDirectory}
	if dir, ok := args["directory"].(string); ok && dir != "" {
		req.Directory = dir
	}
	if q, ok := args["query"].(string); ok {
		req.Query = q
	}
	if dt, ok := args["document_type"].(string); ok {
		req.DocumentType = dt
	}
	if limit, ok := args["limit"].(float64); ok {
		req.Limit = int(limit)
	}

	result, err := s.pdfService.SearchDirectory(ctx, req)
	if err != nil {
		log.Warn("search failed", "directory", req.Directory, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		text := fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
		if req.DocumentType != "" {
			text += fmt.Sprintf(" (document type: %s)", req.DocumentType)
		}
		return mcp.NewToolResultText(text), nil
	}

	return mcp.NewToolResultText(s.formatSearchDirectoryResult(result)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.toolContext(ctx, descriptions.ToolServerInfo)
	return mcp.NewToolResultText(s.formatServerInfo(s.ServerInfo())), nil
}

// ServerInfo describes this server and its tools
func (s *Server) ServerInfo() *pdf.ServerInfo {
	names := descriptions.GetAllToolNames()
	tools := make([]pdf.ToolInfo, 0, len(names))
	for _, name := range names {
		tools = append(tools, pdf.ToolInfo{Name: name, Description: descriptions.Summary(name)})
	}
	return s.pdfService.ServerInfo(s.config.ServerName, s.config.Version, tools)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func jsonError(v pdf.ErrorResult) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(v.Error)
	}
	return mcp.NewToolResultError(string(data))
}

// Formatting methods
func (s *Server) formatReadFileResult(result *pdf.PDFReadFileResult) string {
	text := fmt.Sprintf("Successfully read PDF: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Content Type: %s\n", result.ContentType)
	text += fmt.Sprintf("Has Images: %t\n", result.HasImages)
	if result.HasImages {
		text += fmt.Sprintf("Image Count: %d\n", result.ImageCount)
	}
	if result.Truncated {
		text += "Truncated: true\n"
	}

	switch result.ContentType {
	case "scanned_images":
		text += "\nNOTE: This PDF appears to contain scanned images with little or no extractable text. No OCR is performed.\n"
	case "no_content":
		text += "\nWARNING: This PDF appears to have no readable content or images.\n"
	}

	text += "\nContent:\n"
	text += result.Content
	return text
}

func (s *Server) formatValidateFileResult(result *pdf.PDFValidateFileResult) string {
	if !result.Valid {
		return fmt.Sprintf("PDF validation failed for %s: %s (%s)", result.Path, result.Message, result.Kind)
	}

	text := fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	if p := result.Probe; p != nil {
		text += fmt.Sprintf("\nPages: %d", p.PageCount)
		if p.Version != "" {
			text += fmt.Sprintf("\nVersion: %s", p.Version)
		}
		text += fmt.Sprintf("\nEncrypted: %t", p.Encrypted)
	}
	return text
}

func (s *Server) formatSearchDirectoryResult(result *pdf.PDFSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	if result.Truncated {
		text += "Results truncated, narrow the query or raise the limit\n"
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if file.DocumentType != "" {
			text += fmt.Sprintf("   Document type: %s\n", file.DocumentType)
		}
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfo(info *pdf.ServerInfo) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", info.ServerName, info.Version)
	text += fmt.Sprintf("Default Directory: %s\n", info.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d bytes\n\n", info.MaxFileSize)

	text += "Document Types (evaluated in order, first match wins):\n"
	for i, label := range info.DocumentTypes {
		text += fmt.Sprintf("  %d. %s\n", i+1, label)
	}

	text += fmt.Sprintf("\nDate Patterns (version %s):\n", info.DatePatternsVersion)
	for _, name := range info.DatePatterns {
		text += fmt.Sprintf("  • %s\n", name)
	}

	text += "\nAvailable Tools:\n"
	for _, tool := range info.AvailableTools {
		text += fmt.Sprintf("  • %s: %s\n", tool.Name, tool.Description)
	}

	return text
}

// Run serves MCP over the process's standard input and output until ctx is done
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over in and out until ctx is done or in is closed
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Info("serving MCP over stdio",
		"server", s.config.ServerName,
		"version", s.config.Version,
		"directory", s.config.PDFDirectory,
	)

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
