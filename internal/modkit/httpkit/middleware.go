package httpkit

import (
	"net/http"

	"livetakip/internal/platform/net/middleware"
)

// CommonStack is the baseline applied at the root; CORS origins come from API_CORS_ORIGINS
func CommonStack(origins []string) []func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return append(middleware.Defaults(origins), middleware.Heartbeat("/ping"))
}
