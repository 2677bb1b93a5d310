package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/hyperway/internal/metrics"
	pagehttp "github.com/aretw0/hyperway/pkg/adapters/http"
)

const shutdownTimeout = 5 * time.Second

// Serve serves the pages of dir on addr until ctx is done.
func Serve(ctx context.Context, logger *slog.Logger, dir, addr string, stderr io.Writer) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	m := metrics.New()
	srv := &http.Server{
		Handler: pagehttp.NewHandler(os.DirFS(dir),
			pagehttp.WithLogger(logger),
			pagehttp.WithMetrics(m.Handler()),
			pagehttp.WithObserver(m.ObservePage)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Serve(ln)
	}()
	status(stderr, true, "serving %s on http://%s", dir, ln.Addr())

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
		return srv.Close()
	}
	status(stderr, true, "server stopped")
	return nil
}
