package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/xtding233/gacha-odds/internal/config"
	"github.com/xtding233/gacha-odds/internal/game"
	"github.com/xtding233/gacha-odds/internal/odds"
)

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	return a.serve(ctx)
}

// app is the server with both listeners bound.
type app struct {
	log     *slog.Logger
	loader  *game.Loader
	watcher *game.FileWatcher

	httpSrv *http.Server
	httpLis net.Listener
	grpcSrv *grpc.Server
	grpcLis net.Listener
	health  *health.Server
}

func newApp(cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{log: log, loader: game.NewLoader(cfg.ConfigDir)}
	svc := &odds.Service{Resolver: a.loader, MaxStates: cfg.MaxStates, MaxDraws: cfg.MaxDraws}

	a.watcher = game.NewFileWatcher(cfg.ConfigDir, cfg.WatchInterval, func(path string) {
		log.Info("config changed", "path", path)
		a.loader.Invalidate()
	})
	// record the startup state now so edits made while starting are not missed
	a.watcher.Scan(true)

	a.httpSrv = &http.Server{
		Handler:           newMux(svc, log, cfg.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	var err error
	if a.httpLis, err = net.Listen("tcp", cfg.HTTPAddr); err != nil {
		return nil, err
	}
	if a.grpcLis, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
		_ = a.httpLis.Close()
		return nil, err
	}
	a.grpcSrv = grpc.NewServer()
	a.health = health.NewServer()
	healthpb.RegisterHealthServer(a.grpcSrv, a.health)
	a.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return a, nil
}

// serve runs until ctx is done, then reports NOT_SERVING and drains both servers.
func (a *app) serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.watcher.Run(ctx)
		return nil
	})
	g.Go(func() error {
		a.log.Info("grpc health listening", "addr", a.grpcLis.Addr().String())
		return a.grpcSrv.Serve(a.grpcLis)
	})
	g.Go(func() error {
		a.log.Info("http listening", "addr", a.httpLis.Addr().String())
		if err := a.httpSrv.Serve(a.httpLis); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutting down")
		a.health.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := a.httpSrv.Shutdown(shutdownCtx)
		a.grpcSrv.GracefulStop()
		return err
	})
	return g.Wait()
}
