package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docchat/internal/config"
	"docchat/internal/http"
	"docchat/internal/llm"
	"docchat/internal/rag"
	"docchat/internal/service"
	"docchat/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Per-session document store
	documentRepo := storage.NewDocumentRepo(db)

	// Retrieval pipeline: chunking, metadata, ranking, context assembly
	assembler := rag.NewAssembler(rag.Config{
		KeywordWeight:  cfg.KeywordWeight,
		EntityWeight:   cfg.EntityWeight,
		PageMatchBonus: cfg.PageMatchBonus,
		TopK:           cfg.TopK,
		MinScore:       cfg.MinRelevance,
		MaxChunkSize:   cfg.MaxChunkSize,
		MaxChunks:      cfg.MaxChunks,
		ContextBudget:  cfg.ContextBudget,
		MaxPageNumber:  cfg.MaxPageNumber,
	}, nil)
	slog.Info("Retrieval pipeline initialized",
		"max_chunk_size", cfg.MaxChunkSize,
		"top_k", cfg.TopK,
		"context_budget", cfg.ContextBudget,
	)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create services
	chatService := service.NewChatService(llmClient, documentRepo, assembler)
	documentService := service.NewDocumentService(documentRepo, assembler)

	// Create router with dependencies
	deps := &http.Deps{
		ChatService:     chatService,
		DocumentService: documentService,
		DB:              db,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
