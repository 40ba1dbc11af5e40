package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account/service"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/config"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/gazetteer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.New(logger.DefaultConfig)
	ctx, stop := signal.NotifyContext(logger.WithLogger(context.Background(), log), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("Service failed", zap.Error(err))
	}
}

func run(ctx context.Context, args []string) error {
	log := logger.Get(ctx)

	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	// The gazetteer must load before any request is served.
	places, err := loadGazetteer(cfg.GazetteerPath)
	if err != nil {
		return err
	}
	log.Info("Gazetteer loaded", zap.Int("districts", len(places.Names())))

	repo, closeStore, err := setupAccountStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.WithoutCancel(ctx)); err != nil {
			log.Error("Closing account store failed", zap.Error(err))
		}
	}()

	gateway, err := setupIdentity(ctx, cfg)
	if err != nil {
		return err
	}

	svc := service.NewAccountService(repo, gateway, places)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(log, svc, gateway, places),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("server", parallel.Fail, func(ctx context.Context) error {
			logger.Get(ctx).Info("HTTP server listening", zap.String("addr", server.Addr))
			err := server.ListenAndServe()
			if ctx.Err() != nil {
				return errors.WithStack(ctx.Err())
			}
			return errors.WithStack(err)
		})
		spawn("watchdog", parallel.Fail, func(ctx context.Context) error {
			<-ctx.Done()

			logger.Get(ctx).Info("Shutting down HTTP server")
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(sctx); err != nil {
				return errors.Wrap(err, "server forced to shutdown")
			}
			return errors.WithStack(ctx.Err())
		})
		return nil
	})
}

func loadGazetteer(path string) (*gazetteer.Gazetteer, error) {
	if path == "" {
		return gazetteer.Default()
	}
	return gazetteer.LoadFile(path)
}
