package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymsheets/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestRequireSecret(t *testing.T) {
	testCases := []struct {
		name               string
		secret             string
		header             string
		expectedStatusCode int
	}{
		{name: "Disabled", expectedStatusCode: http.StatusOK},
		{name: "Missing", secret: "s3cr3t", expectedStatusCode: http.StatusUnauthorized},
		{name: "Wrong", secret: "s3cr3t", header: "nope", expectedStatusCode: http.StatusUnauthorized},
		{name: "Valid", secret: "s3cr3t", header: "s3cr3t", expectedStatusCode: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/dashboards/dips/run", nil)
			if tc.header != "" {
				req.Header.Set(middleware.SecretHeader, tc.header)
			}

			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			middleware.RequireSecret(tc.secret)(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}
