package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docchat/internal/service"
	"docchat/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	// Suppress handler logging during tests.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewChatHandler(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockChatService := mocks.NewMockChatService(ctrl)
	handler := NewChatHandler(mockChatService)

	if handler == nil {
		t.Fatal("NewChatHandler() returned nil")
	}
	if handler.chatService != mockChatService {
		t.Error("NewChatHandler() chatService not set correctly")
	}
}

func TestChatHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		body          string
		mockSetup     func(*mocks.MockChatService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "successful POST request",
			method: http.MethodPost,
			body:   `{"session_id":"s1","message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{SessionID: "s1", Message: "Hello"}).
					Return(service.ChatResponse{Reply: "Hi there!", Grounded: true}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ChatResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Reply != "Hi there!" {
					t.Errorf("Reply = %q, want %q", resp.Reply, "Hi there!")
				}
				if !resp.Grounded {
					t.Error("Grounded = false, want true")
				}
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid request body",
			method:     http.MethodPost,
			body:       `{not json`,
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "validation error",
			method: http.MethodPost,
			body:   `{"message":""}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), gomock.Any()).
					Return(service.ChatResponse{}, &service.ValidationError{Field: "message", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "external service error",
			method: http.MethodPost,
			body:   `{"message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), gomock.Any()).
					Return(service.ChatResponse{}, service.WrapError(service.ErrExternalService, "llm call failed"))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "unexpected error",
			method: http.MethodPost,
			body:   `{"message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), gomock.Any()).
					Return(service.ChatResponse{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)

			handler := NewChatHandler(mockChatService)

			req := httptest.NewRequest(tt.method, "/api/chat", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestChatHandler_Streaming(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockChatService := mocks.NewMockChatService(ctrl)

	mockChatService.EXPECT().
		StreamChat(gomock.Any(), service.ChatRequest{SessionID: "s1", Message: "Hello"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ service.ChatRequest, callback func(string) error) error {
			for _, chunk := range []string{"Hi ", "there!"} {
				if err := callback(chunk); err != nil {
					return err
				}
			}
			return nil
		})

	handler := NewChatHandler(mockChatService)

	req := httptest.NewRequest(http.MethodPost, "/api/chat?stream=true",
		bytes.NewBufferString(`{"session_id":"s1","message":"Hello"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/event-stream")
	}

	body := w.Body.String()
	for _, want := range []string{"data: Hi \n\n", "data: there!\n\n", "data: [DONE]\n\n"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestChatHandler_StreamingError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockChatService := mocks.NewMockChatService(ctrl)

	mockChatService.EXPECT().
		StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("stream failed"))

	handler := NewChatHandler(mockChatService)

	req := httptest.NewRequest(http.MethodPost, "/api/chat?stream=true",
		bytes.NewBufferString(`{"message":"Hello"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "error") {
		t.Errorf("body missing error event:\n%s", body)
	}
	if strings.Contains(body, "[DONE]") {
		t.Errorf("body has done signal after error:\n%s", body)
	}
}
