package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gowvp/clipov/internal/conf"
)

// Run 启动 http 服务，收到退出信号后优雅关闭
func Run(bc *conf.Bootstrap) error {
	handler, cleanUp, err := wireApp(bc)
	if err != nil {
		return err
	}
	defer cleanUp()

	cfg := bc.Server.HTTP
	svc := http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout.Duration(),
		WriteTimeout:      cfg.WriteTimeout.Duration(),
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server start", "addr", svc.Addr, "version", bc.BuildVersion)
		if err := svc.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-interrupt:
		slog.Info("shutting down", "signal", s.String())
	case err := <-errCh:
		slog.Error("http server", "err", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace.Duration())
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown", "err", err)
		return err
	}
	slog.Info("shutdown complete")
	return nil
}
