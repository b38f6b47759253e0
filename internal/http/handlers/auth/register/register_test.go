package register

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, name, email, phone, rawPassword string) (*models.User, error) {
	args := m.Called(ctx, name, email, phone, rawPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(m *MockService)
		wantCode int
		wantMsg  string
	}{
		{
			name: "success",
			body: `{"name":"Ali","email":"ali@rent.uz","password":"secret123"}`,
			setup: func(m *MockService) {
				m.On("Register", mock.Anything, "Ali", "ali@rent.uz", "", "secret123").
					Return(&models.User{ID: "u-1", Name: "Ali", Email: "ali@rent.uz", PasswordHash: "hash", Role: "user"}, nil)
			},
			wantCode: http.StatusCreated,
			wantMsg:  "Registered",
		},
		{
			name:     "unknown field",
			body:     `{"name":"Ali","email":"ali@rent.uz","password":"secret123","role":"admin"}`,
			setup:    func(*MockService) {},
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid request body",
		},
		{
			name:     "short password",
			body:     `{"name":"Ali","email":"ali@rent.uz","password":"123"}`,
			setup:    func(*MockService) {},
			wantCode: http.StatusBadRequest,
			wantMsg:  "field Password must be at least 6",
		},
		{
			name: "email taken",
			body: `{"name":"Ali","email":"ali@rent.uz","password":"secret123"}`,
			setup: func(m *MockService) {
				m.On("Register", mock.Anything, "Ali", "ali@rent.uz", "", "secret123").Return(nil, services.ErrEmailTaken)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Email is already registered",
		},
		{
			name: "storage failure",
			body: `{"name":"Ali","email":"ali@rent.uz","password":"secret123"}`,
			setup: func(m *MockService) {
				m.On("Register", mock.Anything, "Ali", "ali@rent.uz", "", "secret123").Return(nil, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Contains(t, body["message"], tt.wantMsg)
			assert.NotContains(t, rr.Body.String(), "hash")
			svc.AssertExpectations(t)
		})
	}
}
