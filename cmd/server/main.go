package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/initify/logdrains/internal/app"
)

func main() {
	srv, err := app.ServerFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := srv.Logger()
	defer func() { _ = logger.Sync() }()

	httpServer := &http.Server{
		Addr:              srv.Addr(),
		Handler:           app.NewRouterWithServer(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Log drain integration listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
