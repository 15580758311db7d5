package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, rawPassword string) (*auth.LoginResult, error) {
	args := m.Called(ctx, email, rawPassword)
	if res := args.Get(0); res != nil {
		return res.(*auth.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	okResult := &auth.LoginResult{
		Token:      "jwt-token",
		SessionSID: "sid-123",
		User: &models.User{
			Email:   "user1@example.com",
			Name:    "User One",
			Team:    "alpha",
			IsAdmin: true,
		},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockResult     *auth.LoginResult
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid login",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockResult:     okResult,
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"token":       "jwt-token",
				"session_sid": "sid-123",
				"email":       "user1@example.com",
				"is_admin":    true,
			},
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing password",
			requestBody: Request{
				Email: "user1@example.com",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name: "invalid credentials",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "wrongpass",
			},
			mockErr:        auth.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
			wantStatus:     "Error",
		},
		{
			name: "storage error",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        errors.New("storage down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not login",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockResult != nil || tt.mockErr != nil {
				serviceMock.On("Login", mock.Anything, mock.Anything, mock.Anything).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
