package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"asset_dashboard/internal/app/port"
	"asset_dashboard/internal/app/service"
	"asset_dashboard/internal/client"
	"asset_dashboard/internal/config"
	"asset_dashboard/internal/infrastructure/restapi"
	"asset_dashboard/internal/pkg/utils"
	"asset_dashboard/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"golang.org/x/time/rate"
)

func main() {
	// logrus handles the bootstrap phase; the config loader logs through it.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Bridge slog to zap so stray slog output lands in the same stream.
	slogHandler := zapslog.NewHandler(zapLogger.Core(), &zapslog.HandlerOptions{})
	slog.SetDefault(slog.New(slogHandler))

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(file)
		} else {
			log.Infof("Failed to log to file, using default stdout: %v", err)
		}
	}

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	var tokens port.TokenProvider
	if cfg.Auth.Enabled {
		tokens = client.NewOAuthTokenProvider(cfg.Auth, zapLogger, nil)
		zapLogger.Info("OAuth token provider initialized", zap.String("tokenURL", cfg.Auth.TokenURL))
	}

	cirrusTimeout := time.Duration(cfg.Cirrus.RequestTimeoutMillis) * time.Millisecond
	cirrusLimiter := rate.NewLimiter(rate.Limit(cfg.Cirrus.RateLimitPerSecond), cfg.Cirrus.RateBurst)
	assetSource := client.NewCirrusClient(cfg.Cirrus.BaseURL, cirrusTimeout, cirrusLimiter, tokens, zapLogger)
	zapLogger.Info("Cirrus client initialized", zap.String("baseURL", cfg.Cirrus.BaseURL))

	oracleTimeout := time.Duration(cfg.Oracle.RequestTimeoutMillis) * time.Millisecond
	oracleLimiter := rate.NewLimiter(rate.Limit(cfg.Oracle.RateLimitPerSecond), cfg.Oracle.RateBurst)
	oracleSource := client.NewOracleClient(cfg.Oracle.BaseURL, oracleTimeout, oracleLimiter, zapLogger)
	zapLogger.Info("Oracle client initialized", zap.String("baseURL", cfg.Oracle.BaseURL))

	priceIndexSvc := service.NewPriceIndexService(oracleSource, cfg, zapLogger)
	valuationSvc := service.NewValuationService(assetSource, priceIndexSvc, zapLogger)
	zapLogger.Info("ValuationService initialized")

	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // Adjust for production
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(utils.ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	assetHandler := restapi.NewAssetHandler(valuationSvc, zapLogger)
	restapi.RegisterAssetRoutes(router, assetHandler)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))

	// Pprof endpoints (protect these in a production environment).
	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
