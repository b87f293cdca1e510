// Package net holds transport level context helpers
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestID returns the id chi's RequestID middleware stored on ctx
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
