package http

import (
	"net/http"

	"github.com/brand-registry/backend/internal/common/constants"
	"github.com/brand-registry/backend/internal/common/httpmetrics"
	"github.com/brand-registry/backend/internal/common/logger"
)

// BuildBaseHandler wraps handler in the shared middleware chain:
// security headers, CORS, recovery, trace id, body limit, metrics.
func BuildBaseHandler(log *logger.Logger, allowedOrigins []string, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	cors := CORSMiddleware(allowedOrigins)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(cors(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler))))))
}
