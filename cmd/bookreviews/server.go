package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/emzola/bookreviews/internal/jsonlog"
)

// serve runs the API until a shutdown signal arrives.
func (a *app) serve(wg *sync.WaitGroup, logger *jsonlog.Logger) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.handler.Routes(),
		ErrorLog:     log.New(logger, "", 0),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// On SIGINT or SIGTERM stop accepting requests, then wait on wg for the
	// welcome and new-review emails the service sends in the background.
	shutdownError := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		logger.PrintInfo("shutting down server", map[string]string{
			"signal": s.String(),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownError <- shutdown(ctx, srv, wg, logger)
	}()

	logger.PrintInfo("starting server", map[string]string{
		"addr": srv.Addr,
		"env":  a.config.Server.Env,
	})
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	err = <-shutdownError
	if err != nil {
		return err
	}
	logger.PrintInfo("stopped server", map[string]string{
		"addr": srv.Addr,
	})
	return nil
}

// shutdown stops srv and then waits for the background emails tracked by wg.
// Shutdown returns once in-flight requests finish, but a review created just
// before the signal may still be mailing its book owner.
func shutdown(ctx context.Context, srv *http.Server, wg *sync.WaitGroup, logger *jsonlog.Logger) error {
	err := srv.Shutdown(ctx)
	if err != nil {
		return err
	}
	logger.PrintInfo("waiting for notification emails", map[string]string{
		"addr": srv.Addr,
	})
	wg.Wait()
	return nil
}
