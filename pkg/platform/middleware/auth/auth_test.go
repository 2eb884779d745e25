package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"secreg/pkg/domain"
	"secreg/pkg/requestcontext"
)

type stubValidator struct {
	caller domain.Address
	err    error
}

func (v stubValidator) ValidateCaller(string) (domain.Address, error) {
	return v.caller, v.err
}

func TestRequireAuth(t *testing.T) {
	caller := domain.MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	logger := slog.New(slog.DiscardHandler)

	var seen domain.Address
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Caller(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		validator  stubValidator
		wantStatus int
	}{
		{name: "valid token", header: "Bearer good", validator: stubValidator{caller: caller}, wantStatus: http.StatusOK},
		{name: "missing header", header: "", validator: stubValidator{caller: caller}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", validator: stubValidator{caller: caller}, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", validator: stubValidator{err: errors.New("bad")}, wantStatus: http.StatusUnauthorized},
		{name: "zero caller", header: "Bearer zero", validator: stubValidator{}, wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = domain.ZeroAddress
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			RequireAuth(tt.validator, logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, caller, seen)
			} else {
				assert.Contains(t, w.Body.String(), `"error":"unauthorized"`)
			}
		})
	}
}
