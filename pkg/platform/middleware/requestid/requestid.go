// Package requestid assigns each request a correlation ID, honoring an
// inbound X-Request-ID header when present.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"vesselregistry/pkg/requestcontext"
)

// Header is the HTTP header carrying the request correlation ID.
const Header = "X-Request-ID"

// Middleware stores the request ID in the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(Header, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
