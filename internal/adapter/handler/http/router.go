package http

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// NewRouter sets up the API routes, preflight handling and the 404
// fallback.
func NewRouter(h *InspectHandler, logger *zap.Logger) *router.Router {
	r := router.New()

	r.GET("/api/inspect", h.Inspect)
	r.GET("/api/hello", h.Hello)
	r.OPTIONS("/api/inspect", h.Preflight)
	r.OPTIONS("/api/hello", h.Preflight)

	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})

	r.NotFound = h.NotFound

	logger.Info("All routes registered.")
	return r
}
