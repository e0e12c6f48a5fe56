package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/gameweek-picks/internal/config"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

// NewPprofHandler exposes the runtime profiles under /debug/pprof/.
func NewPprofHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// StartPprofServer returns a nil server when pprof is disabled.
func StartPprofServer(cfg config.Config, logger *logging.Logger) *http.Server {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil
	}

	srv := &http.Server{
		Addr:              cfg.PprofAddr,
		Handler:           NewPprofHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("pprof server starting", "addr", cfg.PprofAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()

	return srv
}

func StopPprofServer(ctx context.Context, srv *http.Server, logger *logging.Logger) error {
	if srv == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("pprof server stopped")
	return nil
}
