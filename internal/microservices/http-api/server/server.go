package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storyhub/internal/logger"
)

// Run serves h on port until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, h http.Handler, port int, requestTimeout time.Duration, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           http.TimeoutHandler(h, requestTimeout, `{"success":false,"error":{"code":"TIMEOUT","message":"request timed out"}}`),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
