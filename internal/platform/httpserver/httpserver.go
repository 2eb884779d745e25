package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// New builds the registry's HTTP server. WriteTimeout stays above the 30s
// per-request timeout of the registry routes so timed out requests still get
// their 503 body. Server errors go to logger.
func New(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
