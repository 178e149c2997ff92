package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"asset_dashboard/internal/app/port"
	"asset_dashboard/internal/app/service"
	"asset_dashboard/internal/client"
	"asset_dashboard/internal/config"
	"asset_dashboard/internal/domain/entity"
	"asset_dashboard/internal/pkg/logger"
	"asset_dashboard/pkg/metrics"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// One-shot console valuation for a single owner. Same wiring as the server,
// minus the HTTP layer.
func main() {
	var (
		cfgPath = flag.String("config", "config/config.yaml", "path to the YAML configuration file")
		owner   = flag.String("owner", "", "owner common name to valuate")
		timeout = flag.Duration("timeout", 30*time.Second, "overall deadline for upstream fetches")
	)
	flag.Parse()

	if *owner == "" {
		fmt.Fprintln(os.Stderr, "usage: valuate -owner <common name> [-config path]")
		os.Exit(2)
	}

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	slogHandler := slogzap.Option{
		Level:  slog.LevelInfo,
		Logger: zapLogger,
	}.NewZapHandler()
	logger.SetDefault(slog.New(slogHandler))

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", "path", *cfgPath, "error", err)
	}
	logger.Info("Configuration loaded", "path", *cfgPath)

	metrics.MustRegisterMetrics()

	var tokens port.TokenProvider
	if cfg.Auth.Enabled {
		tokens = client.NewOAuthTokenProvider(cfg.Auth, zapLogger, nil)
	}

	cirrusLimiter := rate.NewLimiter(rate.Limit(cfg.Cirrus.RateLimitPerSecond), cfg.Cirrus.RateBurst)
	assetSource := client.NewCirrusClient(
		cfg.Cirrus.BaseURL,
		time.Duration(cfg.Cirrus.RequestTimeoutMillis)*time.Millisecond,
		cirrusLimiter,
		tokens,
		zapLogger,
	)

	oracleLimiter := rate.NewLimiter(rate.Limit(cfg.Oracle.RateLimitPerSecond), cfg.Oracle.RateBurst)
	oracleSource := client.NewOracleClient(
		cfg.Oracle.BaseURL,
		time.Duration(cfg.Oracle.RequestTimeoutMillis)*time.Millisecond,
		oracleLimiter,
		zapLogger,
	)

	priceIndexSvc := service.NewPriceIndexService(oracleSource, cfg, zapLogger)
	valuationSvc := service.NewValuationService(assetSource, priceIndexSvc, zapLogger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	portfolio, err := valuationSvc.ValuateOwner(ctx, *owner)
	if err != nil {
		logger.Fatal("Valuation aborted", "owner", *owner, "error", err)
	}

	fmt.Printf("Assets for %s\n", portfolio.Owner)
	for _, asset := range portfolio.Assets {
		if asset.UsdValue != nil {
			fmt.Printf("  %-24s %16s  x%-4d  $%s\n", asset.Name, asset.DisplayQuantity, asset.TokenCount, *asset.UsdValue)
		} else {
			fmt.Printf("  %-24s %16s  x%-4d\n", asset.Name, asset.DisplayQuantity, asset.TokenCount)
		}
	}

	s := portfolio.Summary
	fmt.Printf("\nFungible: %d tokens, $%s total\n", s.FungibleCount, s.FungibleValueUsd)
	fmt.Printf("Non-fungible: %d tokens\n", s.NonFungibleCount)
	fmt.Printf("%s: %d tokens, %s\n", entity.NativePlatformSymbol, s.NativeTokenCount, s.NativeTokenQuantity)

	if len(portfolio.Errors) > 0 {
		fmt.Printf("\n%d issue(s) during valuation:\n", len(portfolio.Errors))
		for _, e := range portfolio.Errors {
			if e.AssetName != "" {
				fmt.Printf("  [%s] %s: %s\n", e.Stage, e.AssetName, e.Message)
			} else {
				fmt.Printf("  [%s] %s\n", e.Stage, e.Message)
			}
		}
	}
}
