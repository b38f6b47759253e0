package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/car-rental/internal/http/response"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestOK(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	response.OK(rr, r, http.StatusCreated, "created", map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]any{"n": float64(1)}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestFailHelpers(t *testing.T) {
	cases := []struct {
		name    string
		call    func(w http.ResponseWriter, r *http.Request)
		code    int
		message string
	}{
		{"unauthorized", response.Unauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", response.Forbidden, http.StatusForbidden, "Forbidden"},
		{"internal", response.Internal, http.StatusInternalServerError, "Internal server error"},
		{"bad request", func(w http.ResponseWriter, r *http.Request) { response.BadRequest(w, r, "bad dates") }, http.StatusBadRequest, "bad dates"},
		{"not found", func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "Car not found") }, http.StatusNotFound, "Car not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.call(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tc.code, rr.Code)
			body := decode(t, rr)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.message, body["message"])
			assert.NotContains(t, body, "data")
		})
	}
}

func TestValidationMessage(t *testing.T) {
	type req struct {
		Email  string `validate:"required,email"`
		Status string `validate:"oneof=pending confirmed"`
		Seats  int    `validate:"min=1"`
	}
	err := validator.New().Struct(req{Email: "nope", Status: "lost"})
	require.Error(t, err)

	msg := response.ValidationMessage(err.(validator.ValidationErrors))
	assert.Contains(t, msg, "field Email must be a valid email")
	assert.Contains(t, msg, "field Status must be one of [pending confirmed]")
	assert.Contains(t, msg, "field Seats must be at least 1")
}
