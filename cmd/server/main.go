// Package main starts the server after configuring it from supplied or standard arguments.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacobpatterson1549/picture-puzzle/server"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
	"go.uber.org/zap"
)

// main configures and runs the server.
func main() {
	ctx := context.Background()
	m := newMainFlags(os.Args, os.LookupEnv)
	zapLog, err := newZapLogger(m.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()
	log := zap.NewStdLog(zapLog)
	s, err := m.createServer(ctx, log, embeddedSQLFS)
	if err != nil {
		zapLog.Fatal("creating server", zap.Error(err))
	}
	if err := runServer(ctx, s, log); err != nil {
		zapLog.Fatal("running server", zap.Error(err))
	}
	zapLog.Info("server run stopped successfully")
}

// newZapLogger creates a production logger, logging debug messages if debug is true.
func newZapLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// runServer runs the server until it is interrupted or terminated.
func runServer(ctx context.Context, s *server.Server, log log.Logger) error {
	done := make(chan os.Signal, 2)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(done)
	errC := s.Run(ctx)
	select { // BLOCKING
	case err := <-errC:
		switch {
		case errors.Is(err, http.ErrServerClosed):
			log.Printf("server shutdown triggered")
		default:
			log.Printf("server stopped unexpectedly: %v", err)
		}
	case signal := <-done:
		log.Printf("handled signal: %v", signal)
	}
	if err := s.Stop(ctx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}
