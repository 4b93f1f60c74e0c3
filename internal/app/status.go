package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/five82/froggi-ocr/internal/metrics"
	"github.com/five82/froggi-ocr/internal/state"
)

const statusShutdownTimeout = 5 * time.Second

func newStatusHandler(store *state.Store, rec *metrics.Recorder) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", rec.Handler())
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(store.Snapshot())
	})
	return mux
}

// startStatusServer binds addr synchronously so a busy port fails startup,
// then serves until the returned stop func is called.
func startStatusServer(addr string, store *state.Store, rec *metrics.Recorder, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen status server: %w", err)
	}

	srv := &http.Server{
		Handler:           newStatusHandler(store, rec),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Go(func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server stopped", "error", err)
		}
	})
	logger.Info("status server listening", "addr", ln.Addr().String())

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), statusShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("status server shutdown", "error", err)
		}
		wg.Wait()
	}
	return stop, nil
}
