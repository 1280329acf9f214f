package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

type HTTPServer struct {
	address  string
	logger   logging.Logger
	sessions *services.SessionService
	files    *services.FileService
	app      *services.AppService
}

func NewHTTPServer(a string, l logging.Logger, ss *services.SessionService, fs *services.FileService, as *services.AppService) *HTTPServer {
	return &HTTPServer{
		address:  a,
		logger:   l.With("module", "http_server"),
		sessions: ss,
		files:    fs,
		app:      as,
	}
}

func (s *HTTPServer) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/status", s.handleStatus)
	r.Get("/stats", s.handleStats)
	r.Post("/users", s.handleRegister)
	r.Get("/connect", s.handleConnect)
	r.Get("/disconnect", s.handleDisconnect)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/users/me", s.handleCurrentUser)
		r.Post("/files", s.handleUpload)
		r.Get("/files", s.handleList)
		r.Get("/files/{id}", s.handleGet)
		r.Put("/files/{id}/publish", s.handlePublish)
		r.Put("/files/{id}/unpublish", s.handleUnpublish)
	})

	// content is readable anonymously when the file is public
	r.With(s.optionalToken).Get("/files/{id}/data", s.handleContent)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.routes()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "err", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
