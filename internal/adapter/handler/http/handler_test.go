package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"token-inspector/internal/config"
	"token-inspector/internal/entity"
	"token-inspector/internal/pkg/apperrors"
	"token-inspector/internal/usecase"
)

type stubUseCase struct {
	report  *entity.InspectReport
	outcome usecase.CacheOutcome
	err     *apperrors.InspectError

	lastReq usecase.InspectRequest
	calls   int
}

func (s *stubUseCase) Inspect(_ context.Context, req usecase.InspectRequest) (*entity.InspectReport, usecase.CacheOutcome, *apperrors.InspectError) {
	s.calls++
	s.lastReq = req
	return s.report, s.outcome, s.err
}

func newTestHandler(uc usecase.InspectUseCase) *InspectHandler {
	rateLimit := config.RateLimitConfig{Window: time.Minute, MaxRequests: 10}
	return NewInspectHandler(uc, rateLimit, zap.NewNop())
}

func requestCtx(uri string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI(uri)
	return ctx
}

func TestInspect_Success(t *testing.T) {
	uc := &stubUseCase{
		report: &entity.InspectReport{
			OK:    true,
			Input: entity.InspectInput{Chain: entity.ChainEth, Address: "0xabc"},
		},
		outcome: usecase.CacheMiss,
	}
	h := newTestHandler(uc)
	ctx := requestCtx("http://localhost/api/inspect?chain=eth&address=0xabc")

	h.Inspect(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "MISS", string(ctx.Response.Header.Peek(cacheHeader)))
	assert.Equal(t, "public, max-age=86400", string(ctx.Response.Header.Peek("Cache-Control")))
	assert.Equal(t, "application/json; charset=utf-8", string(ctx.Response.Header.ContentType()))
	assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))

	var body map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, true, body["ok"])

	assert.Equal(t, "eth", uc.lastReq.Chain)
	assert.Equal(t, "0xabc", uc.lastReq.Address)
}

func TestInspect_CacheOutcomeHeader(t *testing.T) {
	for _, outcome := range []usecase.CacheOutcome{usecase.CacheHit, usecase.CacheMiss, usecase.CacheStale} {
		uc := &stubUseCase{report: &entity.InspectReport{OK: true}, outcome: outcome}
		ctx := requestCtx("http://localhost/api/inspect?chain=eth&address=0xabc")

		newTestHandler(uc).Inspect(ctx)

		assert.Equal(t, string(outcome), string(ctx.Response.Header.Peek(cacheHeader)))
	}
}

func TestInspect_MissingParams(t *testing.T) {
	uris := []string{
		"http://localhost/api/inspect",
		"http://localhost/api/inspect?chain=eth",
		"http://localhost/api/inspect?address=0xabc",
	}

	for _, uri := range uris {
		uc := &stubUseCase{}
		ctx := requestCtx(uri)

		newTestHandler(uc).Inspect(ctx)

		assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode(), uri)
		assert.Zero(t, uc.calls, uri)

		var body errorBody
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
		assert.False(t, body.OK)
		require.NotNil(t, body.Error)
		assert.Equal(t, apperrors.CodeMissingParams, body.Error.Code)
		assert.NotZero(t, body.Meta.TS)
		assert.NotEmpty(t, body.Meta.GeneratedAt)
	}
}

func TestInspect_ErrorPassThrough(t *testing.T) {
	uc := &stubUseCase{err: apperrors.NewInputError(apperrors.CodeInvalidAddress, "Invalid address format.")}
	ctx := requestCtx("http://localhost/api/inspect?chain=eth&address=nope")

	newTestHandler(uc).Inspect(ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Header.Peek(cacheHeader))

	var body errorBody
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, apperrors.CodeInvalidAddress, body.Error.Code)
}

func TestInspect_RateLimitedSetsRetryAfter(t *testing.T) {
	uc := &stubUseCase{err: apperrors.NewRateLimitError()}
	ctx := requestCtx("http://localhost/api/inspect?chain=eth&address=0xabc")

	newTestHandler(uc).Inspect(ctx)

	assert.Equal(t, fasthttp.StatusTooManyRequests, ctx.Response.StatusCode())
	assert.Equal(t, "60", string(ctx.Response.Header.Peek("Retry-After")))
}

func TestClientIP(t *testing.T) {
	t.Run("forwarded first hop", func(t *testing.T) {
		ctx := requestCtx("http://localhost/api/inspect")
		ctx.Request.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
		assert.Equal(t, "198.51.100.7", clientIP(ctx))
	})

	t.Run("real ip fallback", func(t *testing.T) {
		ctx := requestCtx("http://localhost/api/inspect")
		ctx.Request.Header.Set("X-Real-IP", "203.0.113.9")
		assert.Equal(t, "203.0.113.9", clientIP(ctx))
	})

	t.Run("remote addr fallback", func(t *testing.T) {
		ctx := requestCtx("http://localhost/api/inspect")
		assert.NotEmpty(t, clientIP(ctx))
	})
}

func TestHello(t *testing.T) {
	ctx := requestCtx("http://localhost/api/hello")

	newTestHandler(&stubUseCase{}).Hello(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var body map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "hello", body["message"])
}

func TestPreflight(t *testing.T) {
	ctx := requestCtx("http://localhost/api/inspect")

	newTestHandler(&stubUseCase{}).Preflight(ctx)

	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Equal(t, "GET, OPTIONS", string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")))
	assert.Empty(t, ctx.Response.Body())
}

func TestNotFound(t *testing.T) {
	ctx := requestCtx("http://localhost/nope")

	newTestHandler(&stubUseCase{}).NotFound(ctx)

	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	var body errorBody
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, apperrors.CodeNotFound, body.Error.Code)
}
