package public

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

func (m *MockService) Public(ctx context.Context) (*models.PublicSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicSetting), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestPublicSettingsHandler(t *testing.T) {
	t.Run("contacts only", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Public", mock.Anything).Return(&models.PublicSetting{CompanyName: "Rent", CompanyPhone: "+998"}, nil)

		rr := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/settings/public", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"companyName":"Rent"`)
		assert.NotContains(t, rr.Body.String(), "cancellationWindowHours")
	})

	t.Run("storage error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Public", mock.Anything).Return(nil, errors.New("db"))

		rr := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/settings/public", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
