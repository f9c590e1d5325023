package main

import (
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	handler "token-inspector/internal/adapter/handler/http"
	"token-inspector/internal/adapter/repository"
	"token-inspector/internal/config"
	"token-inspector/internal/logger"
	"token-inspector/internal/usecase"
)

func main() {
	// --- Configuration ---
	cfgPath := "configs"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	zapLogger, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer zapLogger.Sync() // Ensure logs are flushed before exiting
	zapLogger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	// --- Dependency Injection (Manual) ---
	zapLogger.Info("Initializing dependencies...")

	explorerRepo := repository.NewEtherscanRepo(cfg.Explorer, zapLogger)
	rpcCaller := repository.NewRPCClient(cfg.RPC, zapLogger)
	cacheRepo := repository.NewGoCacheRepo(cfg.Cache, zapLogger)

	inspectUseCase := usecase.NewInspectUseCase(explorerRepo, rpcCaller, cacheRepo, zapLogger, *cfg)

	inspectHandler := handler.NewInspectHandler(inspectUseCase, cfg.RateLimit, zapLogger)

	// --- HTTP Router & Server ---
	zapLogger.Info("Setting up HTTP router...")
	r := handler.NewRouter(inspectHandler, zapLogger)

	// Middleware (request logging)
	loggingMiddleware := func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			zapLogger.Info("Request received",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("uri", ctx.RequestURI()))
			next(ctx)
		}
	}

	serverAddr := ":" + cfg.Server.Port
	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr))

	if err := fasthttp.ListenAndServe(serverAddr, loggingMiddleware(r.Handler)); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
