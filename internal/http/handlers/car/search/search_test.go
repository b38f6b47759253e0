package search

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/car-rental/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Search(ctx context.Context, f models.CarFilter, page, limit int) ([]*models.Car, models.Pagination, error) {
	args := m.Called(ctx, f, page, limit)
	if args.Get(0) == nil {
		return nil, models.Pagination{}, args.Error(2)
	}
	return args.Get(0).([]*models.Car), args.Get(1).(models.Pagination), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(url.Values{
		"q":            {"cobalt"},
		"fuelType":     {"benzin"},
		"transmission": {"avtomat"},
		"minPrice":     {"100000"},
		"maxPrice":     {"500000"},
		"seats":        {"5"},
		"available":    {"true"},
		"sort":         {"price_asc"},
		"page":         {"2"},
		"limit":        {"24"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.CarFilter{
		Query:         "cobalt",
		FuelType:      "benzin",
		Transmission:  "avtomat",
		MinPrice:      100000,
		MaxPrice:      500000,
		MinSeats:      5,
		OnlyAvailable: true,
		Sort:          "price_asc",
	}, q.Filter())
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 24, q.Limit)
}

func TestParseQuery_Invalid(t *testing.T) {
	cases := map[string]url.Values{
		"fuel":        {"fuelType": {"diesel"}},
		"sort":        {"sort": {"cheapest"}},
		"page":        {"page": {"two"}},
		"price":       {"minPrice": {"1e5"}},
		"available":   {"available": {"maybe"}},
		"price range": {"minPrice": {"500"}, "maxPrice": {"100"}},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuery(v)
			assert.Error(t, err)
		})
	}
}

func TestSearchHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("Search", mock.Anything, models.CarFilter{Query: "KIA"}, 0, 0).
		Return([]*models.Car{{ID: "c-1", Brand: "Kia"}}, models.Pagination{Page: 1, Limit: 12, Total: 1, Pages: 1}, nil)

	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cars/search?q=KIA", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"pagination":{"page":1,"limit":12,"total":1,"pages":1}`)
	svc.AssertExpectations(t)
}

func TestSearchHandler_BadQuery(t *testing.T) {
	svc := new(MockService)
	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cars/search?transmission=cvt", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
