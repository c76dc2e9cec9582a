package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"docchat/internal/contextutil"
	"docchat/internal/service"
)

// DocumentHandler handles HTTP requests for the per-session document context.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// UploadRequest represents the HTTP request payload for a document upload.
// Content is the file's extracted text; binary formats are converted by an
// upstream extraction collaborator before reaching this API.
type UploadRequest struct {
	SessionID string `json:"session_id,omitempty"`
	FileName  string `json:"file_name"`
	Content   string `json:"content"`
}

// UploadResponse represents the HTTP response payload for a document upload.
type UploadResponse struct {
	SessionID  string `json:"session_id"`
	ChunkCount int    `json:"chunk_count"`
	PageCount  int    `json:"page_count"`
	Truncated  bool   `json:"truncated"`
}

// StatusResponse represents the HTTP response payload for a document status query.
type StatusResponse struct {
	FileName   string `json:"file_name"`
	ChunkCount int    `json:"chunk_count"`
	PageCount  int    `json:"page_count"`
	TotalChars int    `json:"total_chars"`
	Truncated  bool   `json:"truncated"`
}

// Upload handles POST requests that attach a document to a session.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.documentService.Upload(ctx, service.UploadRequest{
		SessionID: req.SessionID,
		FileName:  req.FileName,
		Content:   req.Content,
	})
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to process document")
		return
	}

	resp := UploadResponse{
		SessionID:  svcResp.SessionID,
		ChunkCount: svcResp.ChunkCount,
		PageCount:  svcResp.PageCount,
		Truncated:  svcResp.Truncated,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// Status handles GET requests for the session's document summary.
func (h *DocumentHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	status, err := h.documentService.Status(ctx, sessionID)
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to query document status")
		return
	}

	resp := StatusResponse{
		FileName:   status.FileName,
		ChunkCount: status.ChunkCount,
		PageCount:  status.PageCount,
		TotalChars: status.TotalChars,
		Truncated:  status.Truncated,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// Clear handles DELETE requests that drop the session's document context.
func (h *DocumentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := h.documentService.Clear(ctx, sessionID); err != nil {
		h.handleServiceError(w, ctx, err, "Failed to clear document context")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func (h *DocumentHandler) handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "No document for session")
		return
	}

	h.writeError(w, http.StatusInternalServerError, defaultMsg)
}

// writeError writes an error response.
func (h *DocumentHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
