package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func Test_RequestIDInjector(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "reuses caller id", header: "req-42", expected: "req-42"},
		{name: "generates id", header: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			h := RequestIDInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.GetReqID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(RequestIDHeader, tc.header)
			}
			rec := httptest.NewRecorder()

			// when
			h.ServeHTTP(rec, req)

			// then
			require.NotEmpty(t, seen)
			if tc.expected != "" {
				assert.Equal(t, tc.expected, seen)
			}
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		})
	}
}

func Test_Recoverer(t *testing.T) {
	// given
	h := Recoverer(discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	// when
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// then
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type qtyDto struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty" validate:"gte=0"`
}

func Test_DecodeValid(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedOK   bool
		expectedCode int
		expectedKey  string
	}{
		{name: "valid", body: `{"productId":"p1","qty":2}`, expectedOK: true},
		{name: "broken json", body: `{"productId":`, expectedCode: http.StatusBadRequest, expectedKey: "error"},
		{name: "failed rule", body: `{"qty":-1}`, expectedCode: http.StatusBadRequest, expectedKey: "validation_errors"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			var dto qtyDto

			// when
			ok := DecodeValid(rec, req, discard, validator.New(), &dto)

			// then
			assert.Equal(t, tc.expectedOK, ok)
			if tc.expectedOK {
				assert.Equal(t, qtyDto{ProductID: "p1", Qty: 2}, dto)
				return
			}
			assert.Equal(t, tc.expectedCode, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, tc.expectedKey)
		})
	}
}

func Test_QueryInt(t *testing.T) {
	testCases := []struct {
		name       string
		query      string
		expected   int
		expectedOK bool
	}{
		{name: "missing uses default", query: "", expected: 20, expectedOK: true},
		{name: "valid", query: "?limit=5", expected: 5, expectedOK: true},
		{name: "below bound", query: "?limit=0", expectedOK: false},
		{name: "not a number", query: "?limit=ten", expectedOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
			rec := httptest.NewRecorder()

			// when
			got, ok := QueryIntGt(req, rec, discard, "limit", 0, 20)

			// then
			assert.Equal(t, tc.expectedOK, ok)
			if ok {
				assert.Equal(t, tc.expected, got)
			} else {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}

	// offset may be zero
	got, ok := QueryIntGte(httptest.NewRequest(http.MethodGet, "/?offset=0", nil), httptest.NewRecorder(), discard, "offset", 0, 0)
	assert.True(t, ok)
	assert.Zero(t, got)
}
