package http

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"token-inspector/internal/config"
	"token-inspector/internal/pkg/apperrors"
	"token-inspector/internal/usecase"
)

// cacheHeader reports the response-cache outcome to clients.
const cacheHeader = "x-tsi-cache"

const cacheControlValue = "public, max-age=86400"

type InspectHandler struct {
	useCase   usecase.InspectUseCase
	rateLimit config.RateLimitConfig
	logger    *zap.Logger
}

func NewInspectHandler(uc usecase.InspectUseCase, rateLimit config.RateLimitConfig, logger *zap.Logger) *InspectHandler {
	return &InspectHandler{
		useCase:   uc,
		rateLimit: rateLimit,
		logger:    logger.Named("InspectHandler"),
	}
}

type errorBody struct {
	OK    bool                   `json:"ok"`
	Error *apperrors.InspectError `json:"error"`
	Meta  errorMeta              `json:"meta"`
}

type errorMeta struct {
	TS          int64  `json:"ts"`
	GeneratedAt string `json:"generatedAt"`
	Cached      bool   `json:"cached"`
}

func setCommonHeaders(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json; charset=utf-8")
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
}

func (h *InspectHandler) writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	setCommonHeaders(ctx)
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *InspectHandler) writeError(ctx *fasthttp.RequestCtx, inspectErr *apperrors.InspectError) {
	if inspectErr.HTTPStatus == fasthttp.StatusTooManyRequests {
		retryAfter := int(h.rateLimit.Window.Seconds())
		if retryAfter <= 0 {
			retryAfter = 60
		}
		ctx.Response.Header.Set("Retry-After", strconv.Itoa(retryAfter))
	}

	now := time.Now()
	h.writeJSON(ctx, inspectErr.HTTPStatus, errorBody{
		OK:    false,
		Error: inspectErr,
		Meta: errorMeta{
			TS:          now.Unix(),
			GeneratedAt: now.UTC().Format(time.RFC3339),
			Cached:      false,
		},
	})
}

// Inspect handles GET /api/inspect?chain=...&address=...
func (h *InspectHandler) Inspect(ctx *fasthttp.RequestCtx) {
	chain := string(ctx.QueryArgs().Peek("chain"))
	address := string(ctx.QueryArgs().Peek("address"))

	if chain == "" || address == "" {
		h.writeError(ctx, apperrors.NewInputError(apperrors.CodeMissingParams,
			"Missing required query parameters: chain and address."))
		return
	}

	report, outcome, inspectErr := h.useCase.Inspect(ctx, usecase.InspectRequest{
		Chain:    chain,
		Address:  address,
		ClientIP: clientIP(ctx),
	})
	if inspectErr != nil {
		h.writeError(ctx, inspectErr)
		return
	}

	ctx.Response.Header.Set(cacheHeader, string(outcome))
	ctx.Response.Header.Set("Cache-Control", cacheControlValue)
	h.writeJSON(ctx, fasthttp.StatusOK, report)
}

// Hello handles GET /api/hello.
func (h *InspectHandler) Hello(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, map[string]any{"ok": true, "message": "hello"})
}

// Preflight handles OPTIONS on the API paths: 204 with CORS headers, no body.
func (h *InspectHandler) Preflight(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type")
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// NotFound handles unknown routes.
func (h *InspectHandler) NotFound(ctx *fasthttp.RequestCtx) {
	h.writeError(ctx, &apperrors.InspectError{
		Code:       apperrors.CodeNotFound,
		Message:    "Not found.",
		HTTPStatus: fasthttp.StatusNotFound,
	})
}

// clientIP resolves the address of the client as seen at the edge.
func clientIP(ctx *fasthttp.RequestCtx) string {
	if forwarded := string(ctx.Request.Header.Peek("X-Forwarded-For")); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := string(ctx.Request.Header.Peek("X-Real-IP")); realIP != "" {
		return realIP
	}
	return ctx.RemoteIP().String()
}
