package server

import (
	"FlatDB/internal/platform/config"
	"FlatDB/internal/platform/metrics"
	"FlatDB/internal/platform/server/handler/database"
	"FlatDB/internal/platform/server/handler/health"
	"FlatDB/internal/platform/server/handler/record"
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpAddr string
	engine   *chi.Mux
	srv      *http.Server
	records  *record.RecordHandler
	database *database.DatabaseHandler
}

func NewServer(conf config.Config, records *record.RecordHandler, database *database.DatabaseHandler) *Server {
	url := fmt.Sprintf("%s:%d", conf.ServerHost, conf.ServerPort)
	s := &Server{
		engine:   chi.NewRouter(),
		httpAddr: url,
		records:  records,
		database: database,
	}
	s.engine.Use(middleware.RequestID)
	s.engine.Use(middleware.Recoverer)
	s.engine.Use(middleware.Logger)
	s.registerRoutes()
	s.srv = &http.Server{Addr: s.httpAddr, Handler: s.engine}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run() error {
	logrus.WithField("addr", s.httpAddr).Info("HTTP server running")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.engine.Get("/health", health.CheckHandler)
	s.engine.Handle("/metrics", metrics.Handler())

	s.engine.Route("/database", func(r chi.Router) {
		r.Get("/", s.database.Stats)
		r.Post("/build", s.database.Build)
		r.Post("/open", s.database.Open)
		r.Post("/close", s.database.Close)
		r.Get("/verify", s.database.Verify)
	})

	s.engine.Route("/records", func(r chi.Router) {
		r.Get("/", s.records.Report)
		r.Post("/", s.records.AddRecord)
		r.Get("/at/{recordNum}", s.records.ReadRecord)
		r.Get("/{name}", s.records.GetRecord)
		r.Put("/{name}", s.records.UpdateRecord)
		r.Delete("/{name}", s.records.DeleteRecord)
	})
}
