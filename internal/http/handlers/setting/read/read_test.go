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

	"github.com/magabrotheeeer/car-rental/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context) (*models.Setting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Setting), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestReadSettingsHandler(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Get", mock.Anything).Return(&models.Setting{CompanyName: "Rent", CancellationWindowHours: 24}, nil)

		rr := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"cancellationWindowHours":24`)
	})

	t.Run("storage error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Get", mock.Anything).Return(nil, errors.New("db"))

		rr := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
