package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/tireswap/internal/analyze"
	"github.com/lox/tireswap/internal/store"
)

type Server struct {
	store    *store.Store
	port     string
	analyzer atomic.Pointer[analyze.Analyzer]
}

func NewServer(st *store.Store, port string) (*Server, error) {
	s := &Server{store: st, port: port}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the analyzer from the store's current station set and
// swaps it in atomically. In-flight queries keep the snapshot they started
// with.
func (s *Server) Reload() error {
	analyzer, err := analyze.New(s.store)
	if err != nil {
		return err
	}
	s.analyzer.Store(analyzer)
	return nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/optimal-dates", s.handleOptimalDates)
	mux.HandleFunc("/api/stations", s.handleStations)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
