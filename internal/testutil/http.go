package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// WithChiURLParam returns req carrying one chi URL parameter, for calling a
// handler directly without a router.
func WithChiURLParam(req *http.Request, key, value string) *http.Request {
	return WithChiURLParams(req, map[string]string{key: value})
}

// WithChiURLParams returns req carrying the given chi URL parameters.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
