// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the harness admin API: log level, run health and metrics.
package admin

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vechain/bftharness/co"
	"github.com/vechain/bftharness/health"
	"github.com/vechain/bftharness/metrics"
)

// HTTPHandler returns the admin router. h may be nil.
func HTTPHandler(logLevel *slog.LevelVar, h *health.Health) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()
	sub.HandleFunc("/loglevel", getLogLevelHandler(logLevel)).Methods(http.MethodGet)
	sub.HandleFunc("/loglevel", postLogLevelHandler(logLevel)).Methods(http.MethodPost)
	sub.HandleFunc("/health", healthHandler(h)).Methods(http.MethodGet)
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	if metrics.Enabled() {
		if mh := metrics.HTTPHandler(); mh != nil {
			router.Handle("/metrics", mh).Methods(http.MethodGet)
		}
	}
	return handlers.CompressHandler(router)
}

// StartServer listens on addr and serves the admin API. It returns the base
// url of the API and a func to shut it down.
func StartServer(addr string, logLevel *slog.LevelVar, h *health.Health) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	srv := &http.Server{
		Handler:           HTTPHandler(logLevel, h),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	var goes co.Goes
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Warn("admin server stopped", "err", err)
		}
	})
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
