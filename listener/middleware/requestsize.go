package middleware

import (
	"errors"
	"net/http"
)

// DefaultMaxRequestSize bounds request bodies when no positive limit is given.
const DefaultMaxRequestSize int64 = 4 << 20

// MaxRequestSize limits request bodies with http.MaxBytesReader. Handlers that
// read past the limit get an error for which IsTooLarge reports true.
// A limit that is not positive means DefaultMaxRequestSize.
func MaxRequestSize(limit int64) Middleware {
	if limit <= 0 {
		limit = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// IsTooLarge reports whether err comes from reading past the MaxRequestSize limit.
func IsTooLarge(err error) bool {
	var maxErr *http.MaxBytesError

	return errors.As(err, &maxErr)
}
