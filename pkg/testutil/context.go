package testutil

import (
	"net/http"

	"secreg/pkg/domain"
	"secreg/pkg/requestcontext"
)

// WithCaller adds an authenticated caller to the request context.
// This simulates what the auth middleware would do for a valid bearer token.
// The zero address is not added.
func WithCaller(req *http.Request, caller domain.Address) *http.Request {
	if caller.IsZero() {
		return req
	}
	return req.WithContext(requestcontext.WithCaller(req.Context(), caller))
}
