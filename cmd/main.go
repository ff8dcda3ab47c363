package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/spf13/viper"

	adapterhttp "github.com/bowenxiang/blockorder-bsc-service/internal/adapter/http"
	"github.com/bowenxiang/blockorder-bsc-service/internal/core/usecase"
	"github.com/bowenxiang/blockorder-bsc-service/internal/infra"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
)

func main() {
	if err := infra.InitConfig(); err != nil {
		applog.NewAppDefaultLogger().Fatal("failed to load configuration", "err", err)
	}

	logger := applog.NewAppDefaultLogger()
	v := validator.New()
	wg := &sync.WaitGroup{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainReader, err := infra.InitChainReader(logger, v)
	if err != nil {
		logger.Fatal("failed to init chain reader", "err", err)
	}

	reportCache, err := infra.InitReportCache(logger, v)
	if err != nil {
		logger.Fatal("failed to init report cache", "err", err)
	}

	contractReader, err := infra.InitContractReader(ctx, logger, v)
	if err != nil {
		logger.Fatal("failed to init contract reader", "err", err)
	}

	admin, owner, err := infra.WellKnownAddresses()
	if err != nil {
		logger.Fatal("failed to resolve contract addresses", "err", err)
	}

	orderingSvc := usecase.NewOrderingService(logger, chainReader, reportCache)
	contractSvc := usecase.NewContractService(logger, contractReader, admin, owner)
	handler := adapterhttp.NewHandler(logger, orderingSvc, contractSvc)

	app := fiber.New()
	infra.InitMetrics(app)
	infra.InitRoutes(app, handler)
	stopPprof := infra.StartPprof(logger, wg)

	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := stopPprof(shutdownCtx); err != nil {
			logger.Warn("pprof shutdown error", "err", err)
		}
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("server shutdown error", "err", err)
		}
	}()

	logger.Info("Starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "err", err)
	}

	wg.Wait()
	logger.Info("Stopped")
}
