package request_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/car-rental/internal/http/request"
)

type bookingRequest struct {
	CarID     string    `json:"carId" validate:"required"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
}

func newRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecode_Valid(t *testing.T) {
	var dst bookingRequest
	err := request.Decode(newRequest(`{"carId":"c-1","startDate":"2026-01-10T00:00:00Z","endDate":"2026-01-12T00:00:00Z"}`), &dst)
	require.NoError(t, err)
	assert.Equal(t, "c-1", dst.CarID)
	assert.Equal(t, 48*time.Hour, dst.EndDate.Sub(dst.StartDate))
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"empty body":    {"", "request body is empty"},
		"unknown field": {`{"carId":"c-1","price":1}`, "invalid request body"},
		"wrong type":    {`{"carId":42}`, "field carId has invalid type"},
		"trailing data": {`{"carId":"c-1","startDate":"2026-01-10T00:00:00Z","endDate":"2026-01-12T00:00:00Z"}{}`, "single JSON object"},
		"end before":    {`{"carId":"c-1","startDate":"2026-01-12T00:00:00Z","endDate":"2026-01-10T00:00:00Z"}`, "field EndDate must be after StartDate"},
		"missing":       {`{"startDate":"2026-01-12T00:00:00Z","endDate":"2026-01-14T00:00:00Z"}`, "field CarID is a required field"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var dst bookingRequest
			err := request.Decode(newRequest(tc.body), &dst)
			require.Error(t, err)

			var reqErr *request.Error
			require.True(t, errors.As(err, &reqErr))
			assert.Contains(t, reqErr.Message, tc.want)
		})
	}
}
