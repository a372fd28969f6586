package pprofserver

import (
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"
)

// Launch starts a pprof server listening on the given localhost port.
//
// The server is not protected by authentication, so it should only listen on localhost.
func Launch(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}

	go func() {
		logger.Info("starting pprof server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil {
			logger.Error("pprof server failed", slog.Any("error", err))
		}
	}()
}
