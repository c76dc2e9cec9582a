package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"docchat/internal/service"
	"docchat/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestDocumentHandler_Upload(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		mockSetup     func(*mocks.MockDocumentService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "successful upload",
			body: `{"session_id":"s1","file_name":"policy.md","content":"Refunds take thirty days."}`,
			mockSetup: func(m *mocks.MockDocumentService) {
				m.EXPECT().
					Upload(gomock.Any(), service.UploadRequest{
						SessionID: "s1",
						FileName:  "policy.md",
						Content:   "Refunds take thirty days.",
					}).
					Return(service.UploadResponse{SessionID: "s1", ChunkCount: 1, PageCount: 1}, nil)
			},
			wantStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp UploadResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.SessionID != "s1" || resp.ChunkCount != 1 {
					t.Errorf("response = %+v", resp)
				}
			},
		},
		{
			name:       "invalid body",
			body:       `{broken`,
			mockSetup:  func(m *mocks.MockDocumentService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "validation error",
			body: `{"content":"text without a file name"}`,
			mockSetup: func(m *mocks.MockDocumentService) {
				m.EXPECT().
					Upload(gomock.Any(), gomock.Any()).
					Return(service.UploadResponse{}, &service.ValidationError{Field: "file_name", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockDocumentService(ctrl)
			tt.mockSetup(mockService)

			handler := NewDocumentHandler(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.Upload(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestDocumentHandler_Status(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		mockSetup     func(*mocks.MockDocumentService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "document present",
			target: "/api/documents?session_id=s1",
			mockSetup: func(m *mocks.MockDocumentService) {
				m.EXPECT().
					Status(gomock.Any(), "s1").
					Return(service.DocumentStatus{
						FileName:   "policy.md",
						ChunkCount: 3,
						PageCount:  2,
						TotalChars: 1200,
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp StatusResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.FileName != "policy.md" || resp.ChunkCount != 3 {
					t.Errorf("response = %+v", resp)
				}
			},
		},
		{
			name:       "missing session_id",
			target:     "/api/documents",
			mockSetup:  func(m *mocks.MockDocumentService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "no document for session",
			target: "/api/documents?session_id=s1",
			mockSetup: func(m *mocks.MockDocumentService) {
				m.EXPECT().
					Status(gomock.Any(), "s1").
					Return(service.DocumentStatus{}, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockDocumentService(ctrl)
			tt.mockSetup(mockService)

			handler := NewDocumentHandler(mockService)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()
			handler.Status(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestDocumentHandler_Clear(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockDocumentService(ctrl)
	mockService.EXPECT().Clear(gomock.Any(), "s1").Return(nil)

	handler := NewDocumentHandler(mockService)

	req := httptest.NewRequest(http.MethodDelete, "/api/documents?session_id=s1", nil)
	w := httptest.NewRecorder()
	handler.Clear(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestDocumentHandler_ClearMissingSessionID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockDocumentService(ctrl)

	handler := NewDocumentHandler(mockService)

	req := httptest.NewRequest(http.MethodDelete, "/api/documents", nil)
	w := httptest.NewRecorder()
	handler.Clear(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
