// Package server exposes the router as a long-lived JSON service. Routes
// are dispatched one at a time since they share the session.
package server

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"cmore/internal/media"
	"cmore/internal/router"
)

// Dispatcher handles navigation routes.
type Dispatcher interface {
	Dispatch(ctx context.Context, route media.Route) (*router.Result, error)
	State() router.State
}

// Server serves routes over HTTP.
type Server struct {
	app *fiber.App
	d   Dispatcher
	mu  sync.Mutex
}

// New creates a server for d.
func New(d Dispatcher) *Server {
	s := &Server{d: d}

	s.app = fiber.New(fiber.Config{
		AppName:               "cmore",
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} | ${path} | ${error}\n",
		TimeFormat: "15:04:05",
		Output:     os.Stderr,
	}))

	s.app.Get("/route", s.handleRoute)
	s.app.Get("/play/:id", s.handlePlay)
	s.app.Get("/state", s.handleState)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	log.Infof("serving on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for active requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) dispatch(c *fiber.Ctx, route media.Route) error {
	s.mu.Lock()
	res, err := s.d.Dispatch(c.UserContext(), route)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// handleRoute dispatches the route given as query parameters. An empty
// query lists the main pages.
func (s *Server) handleRoute(c *fiber.Ctx) error {
	route := media.Route{}
	for k, v := range c.Queries() {
		route[k] = v
	}
	return s.dispatch(c, route)
}

func (s *Server) handlePlay(c *fiber.Ctx) error {
	return s.dispatch(c, media.NewRoute(media.RoutePlay, "video_id", c.Params("id")))
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"state": s.d.State().String()})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusBadGateway

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, router.ErrUnknownAction):
		code = fiber.StatusBadRequest
	}

	if code >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
