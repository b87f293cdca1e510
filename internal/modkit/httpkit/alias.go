// Package httpkit re-exports the platform http surface for modules
package httpkit

import (
	"net/http"

	phttp "livetakip/internal/platform/net/http"
	"livetakip/internal/platform/net/http/bind"
)

type (
	// Envelope is the transport envelope
	Envelope = phttp.Envelope
	// Response is the return style handler result
	Response = phttp.Response
	// Router is the platform router seam
	Router = phttp.Router
)

func OK(data any) Response              { return phttp.OK(data) }
func Raw(status int, body any) Response { return phttp.Raw(status, body) }
func Error(err error) Response          { return phttp.Error(err) }

// Handle adapts a Response returning function
func Handle(fn func(*http.Request) Response) http.HandlerFunc { return phttp.Handle(fn) }

// Query binds and validates T from the query string, then calls fn
func Query[T any](fn func(*http.Request, T) Response) http.HandlerFunc {
	return phttp.Handle(func(r *http.Request) Response {
		in, err := bind.Query[T](r)
		if err != nil {
			return phttp.Error(err)
		}
		return fn(r, in)
	})
}

// Param reads a path parameter
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }
