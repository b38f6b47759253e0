package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Profile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestReadProfileHandler(t *testing.T) {
	tests := []struct {
		name     string
		identity *middlewarectx.Identity
		setup    func(m *MockService)
		wantCode int
		wantBody string
	}{
		{
			name:     "own profile",
			identity: &middlewarectx.Identity{UserID: "u-1", Role: "user"},
			setup: func(m *MockService) {
				m.On("Profile", mock.Anything, "u-1").
					Return(&models.User{ID: "u-1", Name: "Ali", PasswordHash: "secret-hash"}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"name":"Ali"`,
		},
		{
			name:     "no identity",
			setup:    func(*MockService) {},
			wantCode: http.StatusUnauthorized,
			wantBody: `"message":"Unauthorized"`,
		},
		{
			name:     "deleted user",
			identity: &middlewarectx.Identity{UserID: "u-2"},
			setup: func(m *MockService) {
				m.On("Profile", mock.Anything, "u-2").Return(nil, services.ErrUserNotFound)
			},
			wantCode: http.StatusNotFound,
			wantBody: `"message":"User not found"`,
		},
		{
			name:     "storage failure",
			identity: &middlewarectx.Identity{UserID: "u-3"},
			setup: func(m *MockService) {
				m.On("Profile", mock.Anything, "u-3").Return(nil, errors.New("timeout"))
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `"success":false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tt.identity != nil {
				req = req.WithContext(middlewarectx.WithIdentity(req.Context(), tt.identity))
			}
			rr := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			assert.NotContains(t, rr.Body.String(), "secret-hash")
		})
	}
}
