package middleware

import (
	"net/http"

	"github.com/jsamuelsen11/donation-gateway/internal/app/dispatch"
)

// Dispatch returns middleware that creates a new dispatch.RequestContext for
// each HTTP request and stores it in the request context. The application
// layer retrieves it via dispatch.From(ctx) to memoize tracker reads and to
// stage write actions for transactional commit.
//
// This middleware should be registered after CorrelationID (so that the
// RequestContext's embedded context carries request/correlation IDs) and
// before OpenTelemetry (so that the RequestContext is available when
// tracing begins).
func Dispatch() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := dispatch.New(r.Context())
			ctx := dispatch.Inject(r.Context(), rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
