package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const DefaultShutdownTimeout = 10 * time.Second

// Serve runs e on address until ctx is done, then shuts it down, letting
// in-flight requests finish within shutdownTimeout. It returns nil after a
// clean shutdown and the listener error if the server could not start.
func Serve(ctx context.Context, e *echo.Echo, address string, shutdownTimeout time.Duration) error {
	started := make(chan error, 1)
	go func() {
		started <- e.Start(address)
	}()

	select {
	case err := <-started:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-started; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
