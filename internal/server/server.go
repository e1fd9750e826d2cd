// Package server exposes the fare predictor over HTTP: an HTML form for riders and a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	fare "github.com/cubny/taxifare"
	"github.com/cubny/taxifare/internal/cache"
)

// EstimateCache stores estimates between requests
type EstimateCache interface {
	Get(ctx context.Context, trip fare.Trip) (fare.Price, error)
	Set(ctx context.Context, trip fare.Trip, price fare.Price) error
	Ping(ctx context.Context) error
}

type Config struct {
	Port            int
	ShutdownTimeout time.Duration
}

// Server serves estimates from a predictor loaded once at startup
type Server struct {
	echo      *echo.Echo
	predictor *fare.Predictor
	cache     EstimateCache
	log       logrus.FieldLogger
	config    Config
	now       func() time.Time
}

type Option func(s *Server)

// WithCache puts a cache in front of the predictor
func WithCache(c EstimateCache) Option {
	return func(s *Server) {
		s.cache = c
	}
}

// WithClock sets the clock used for the form defaults
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a Server and registers its routes
func New(predictor *fare.Predictor, log logrus.FieldLogger, config Config, opts ...Option) (*Server, error) {
	if predictor == nil {
		return nil, errors.New("predictor is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		predictor: predictor,
		log:       log,
		config:    config,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	renderer, err := newTemplateRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(loggerMiddleware(log))
	e.Use(middleware.Recover())

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/", s.showForm)
	s.echo.POST("/", s.submitForm)
	s.echo.GET("/healthz", s.health)

	api := s.echo.Group("/api/v1")
	api.POST("/estimate", s.estimate)
}

// ServeHTTP lets the server be mounted or tested as a plain http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", s.config.Port)
		s.log.WithField("address", addr).Info("starting HTTP server")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	s.log.Info("server shutdown completed")
	return nil
}

// predict runs the predictor behind the cache. Cache failures are logged, never returned.
func (s *Server) predict(ctx context.Context, trip fare.Trip, log logrus.FieldLogger) (fare.Price, bool, error) {
	if s.cache != nil && trip.Validate() == nil {
		price, err := s.cache.Get(ctx, trip)
		switch {
		case err == nil:
			return price, true, nil
		case !errors.Is(err, cache.ErrMiss):
			log.WithError(err).Warn("estimate cache read failed")
		}
	}

	price, err := s.predictor.Predict(trip)
	if err != nil {
		return 0, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, trip, price); err != nil {
			log.WithError(err).Warn("estimate cache write failed")
		}
	}
	return price, false, nil
}
