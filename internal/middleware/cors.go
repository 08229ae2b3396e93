package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets the browser frontend call the API from the given origins.
//
// PREFLIGHT:
// Before a cross-origin POST/PATCH with a JSON body, the browser sends an
// OPTIONS request. cors.Handler answers it directly (the route handlers
// never see it) and adds Access-Control-Allow-* headers to real responses.
//
// Every method and header is allowed; only the origin is restricted.
// AllowCredentials means a wildcard origin is never echoed back.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
			http.MethodHead,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}
