package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks -mock_names=DocumentService=MockDocumentService docchat/internal/service DocumentService

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"docchat/internal/contextutil"
	"docchat/internal/extract"
	"docchat/internal/rag"
	"docchat/internal/storage"
)

// UploadRequest carries an uploaded document's extracted text. Content is
// the file's raw text; markdown files are flattened before chunking.
type UploadRequest struct {
	// SessionID identifies the session. Empty means a new session: one is
	// issued and returned in the response.
	SessionID string
	FileName  string `validate:"required"`
	Content   string
}

// UploadResponse reports the outcome of processing an uploaded document.
type UploadResponse struct {
	SessionID  string
	ChunkCount int
	PageCount  int
	// Truncated reports that the document exceeded the chunk cap and was
	// indexed only partially.
	Truncated bool
}

// DocumentStatus describes the session's current document context.
type DocumentStatus struct {
	FileName   string
	ChunkCount int
	PageCount  int
	TotalChars int
	Truncated  bool
}

// DocumentService manages the per-session document context.
type DocumentService interface {
	// Upload processes a document's text and stores the resulting record
	// for the session, replacing any previous document wholesale.
	Upload(ctx context.Context, req UploadRequest) (UploadResponse, error)
	// Status returns the session's document summary. Returns ErrNotFound
	// when the session has no document.
	Status(ctx context.Context, sessionID string) (DocumentStatus, error)
	// Clear removes the session's document context.
	Clear(ctx context.Context, sessionID string) error
}

// documentService implements DocumentService.
type documentService struct {
	store     storage.DocumentStore
	assembler *rag.Assembler
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(store storage.DocumentStore, assembler *rag.Assembler) DocumentService {
	return &documentService{
		store:     store,
		assembler: assembler,
	}
}

// Upload processes a document and stores its record for the session.
// Empty or unusable content stores a zero-chunk record rather than failing:
// the session then behaves as plain chat.
func (s *documentService) Upload(ctx context.Context, req UploadRequest) (UploadResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.FileName == "" {
		logger.WarnContext(ctx, "upload with empty file name")
		return UploadResponse{}, &ValidationError{
			Field:   "file_name",
			Message: "cannot be empty",
		}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	text, err := extract.ForFile(req.FileName).Text([]byte(req.Content))
	if err != nil {
		logger.ErrorContext(ctx, "failed to extract document text", "file_name", req.FileName, "error", err)
		return UploadResponse{}, WrapError(err, "failed to extract document text")
	}

	rec := s.assembler.ProcessDocument(ctx, text, req.FileName)
	if err := rec.Validate(); err != nil {
		// A structurally broken record is an internal defect; never store it.
		logger.ErrorContext(ctx, "processed record failed validation", "file_name", req.FileName, "error", err)
		return UploadResponse{}, WrapError(err, "invalid document record")
	}

	if err := s.store.Store(ctx, sessionID, rec); err != nil {
		logger.ErrorContext(ctx, "failed to store document record", "session_id", sessionID, "error", err)
		return UploadResponse{}, WrapError(err, "failed to store document record")
	}

	logger.InfoContext(ctx, "document uploaded",
		"session_id", sessionID,
		"file_name", req.FileName,
		"chunks", len(rec.Chunks),
		"pages", rec.PageCount,
		"truncated", rec.Truncated,
	)
	return UploadResponse{
		SessionID:  sessionID,
		ChunkCount: len(rec.Chunks),
		PageCount:  rec.PageCount,
		Truncated:  rec.Truncated,
	}, nil
}

// Status returns the session's document summary.
func (s *documentService) Status(ctx context.Context, sessionID string) (DocumentStatus, error) {
	rec, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return DocumentStatus{}, ErrNotFound
		}
		return DocumentStatus{}, WrapError(err, "failed to load document record")
	}

	return DocumentStatus{
		FileName:   rec.FileName,
		ChunkCount: len(rec.Chunks),
		PageCount:  rec.PageCount,
		TotalChars: rec.TotalChars,
		Truncated:  rec.Truncated,
	}, nil
}

// Clear removes the session's document context.
func (s *documentService) Clear(ctx context.Context, sessionID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if err := s.store.Clear(ctx, sessionID); err != nil {
		logger.ErrorContext(ctx, "failed to clear document context", "session_id", sessionID, "error", err)
		return WrapError(err, "failed to clear document context")
	}

	logger.InfoContext(ctx, "document context cleared", "session_id", sessionID)
	return nil
}
