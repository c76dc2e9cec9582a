package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks docchat/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService docchat/internal/service ChatService

import (
	"context"
	"errors"
	"fmt"

	"docchat/internal/contextutil"
	"docchat/internal/document"
	"docchat/internal/llm"
	"docchat/internal/rag"
	"docchat/internal/storage"
)

// systemPromptPlain is used when no document context is available.
const systemPromptPlain = "You are a helpful assistant. Answer the user's question conversationally."

// systemPromptGrounded is used when document context is injected into the prompt.
const systemPromptGrounded = "You are a helpful assistant that answers questions based on the provided " +
	"context from the user's uploaded document. Answer using only the information from the context below. " +
	"If the context doesn't contain enough information to answer the question, say so. " +
	"Cite the source pages when they are given."

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// ChatWithMessages sends a chat completion request with a full message list.
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
	// StreamChatWithMessages streams a chat completion, calling the callback per chunk.
	StreamChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams, callback func(chunk string) error) error
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	SessionID string
	Message   string `validate:"required"`
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Reply string
	// Grounded reports whether document context was injected into the prompt.
	Grounded bool
}

// ChatService provides document-grounded chat functionality.
type ChatService interface {
	// ProcessChat processes a chat request and returns a response.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// StreamChat processes a chat request and streams the response via callback.
	StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) error
}

// chatService implements ChatService.
type chatService struct {
	llmClient LLMClient
	store     storage.DocumentStore
	assembler *rag.Assembler
}

// NewChatService creates a new ChatService.
func NewChatService(llmClient LLMClient, store storage.DocumentStore, assembler *rag.Assembler) ChatService {
	return &chatService{
		llmClient: llmClient,
		store:     store,
		assembler: assembler,
	}
}

// ProcessChat processes a chat request. When the session has an uploaded
// document, the most relevant chunks are assembled into the prompt; a
// session without a document (or a query with no relevant chunks) degrades
// to plain chat.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Message == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	messages, grounded, err := s.buildMessages(ctx, req)
	if err != nil {
		return ChatResponse{}, err
	}

	reply, err := s.llmClient.ChatWithMessages(ctx, messages, llm.ChatParams{Temperature: 0.7})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return ChatResponse{}, WrapError(err, "failed to get LLM response")
	}

	logger.InfoContext(ctx, "chat request processed successfully",
		"session_id", req.SessionID,
		"message_length", len(req.Message),
		"reply_length", len(reply),
		"grounded", grounded,
	)
	return ChatResponse{
		Reply:    reply,
		Grounded: grounded,
	}, nil
}

// StreamChat processes a chat request and streams the response.
func (s *chatService) StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) error {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Message == "" {
		logger.WarnContext(ctx, "empty message in streaming chat request")
		return &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	messages, grounded, err := s.buildMessages(ctx, req)
	if err != nil {
		return err
	}

	if err := s.llmClient.StreamChatWithMessages(ctx, messages, llm.ChatParams{Temperature: 0.7}, callback); err != nil {
		logger.ErrorContext(ctx, "failed to stream LLM response", "error", err)
		return WrapError(err, "failed to stream LLM response")
	}

	logger.InfoContext(ctx, "streaming chat request processed successfully",
		"session_id", req.SessionID,
		"message_length", len(req.Message),
		"grounded", grounded,
	)
	return nil
}

// buildMessages loads the session's document record (absent is not an
// error), assembles context for the message, and constructs the LLM prompt.
func (s *chatService) buildMessages(ctx context.Context, req ChatRequest) ([]llm.Message, bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var rec *document.Record
	if req.SessionID != "" {
		var err error
		rec, err = s.store.Get(ctx, req.SessionID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.ErrorContext(ctx, "failed to load document record", "session_id", req.SessionID, "error", err)
			return nil, false, WrapError(err, "failed to load document record")
		}
	}

	docContext := s.assembler.PrepareContext(ctx, rec, req.Message)
	if docContext == "" {
		return []llm.Message{
			{Role: "system", Content: systemPromptPlain},
			{Role: "user", Content: req.Message},
		}, false, nil
	}

	userMessage := fmt.Sprintf("%s\n\n%s", req.Message, docContext)
	return []llm.Message{
		{Role: "system", Content: systemPromptGrounded},
		{Role: "user", Content: userMessage},
	}, true, nil
}
