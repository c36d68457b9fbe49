package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tfkr-ae/rudder"
)

// Server wires the control plane to an echo instance. Construct it with
// NewServer, then Start it on a listen address; Shutdown drains in-flight
// requests, including snapshot long polls.
type Server struct {
	ControlPlane *rudder.ControlPlane
	Logger       *slog.Logger

	echo *echo.Echo
}

// NewServer builds the HTTP surface for a control plane. The logger may be
// nil, in which case the control plane's logger is used.
func NewServer(controlPlane *rudder.ControlPlane, logger *slog.Logger) *Server {
	if logger == nil {
		logger = controlPlane.Logger
	}
	server := &Server{
		ControlPlane: controlPlane,
		Logger:       logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.HTTPErrorHandler = server.httpErrorHandler(e.DefaultHTTPErrorHandler)

	api := e.Group("/api")

	api.GET("/routes", server.listRoutes)
	api.POST("/routes", server.createRoute)
	api.GET("/routes/:id", server.getRoute)
	api.PUT("/routes/:id", server.putRoute)
	api.DELETE("/routes/:id", server.deleteRoute)

	api.GET("/clusters", server.listClusters)
	api.POST("/clusters", server.createCluster)
	api.GET("/clusters/:id", server.getCluster)
	api.PUT("/clusters/:id", server.putCluster)
	api.DELETE("/clusters/:id", server.deleteCluster)

	api.GET("/configuration", server.getConfiguration)
	api.POST("/configuration/apply", server.applyConfiguration)
	api.POST("/configuration/save", server.saveConfiguration)
	api.POST("/configuration/load", server.loadConfiguration)

	api.GET("/snapshot", server.getSnapshot)
	api.GET("/audit", server.getAuditEntries)
	api.GET("/stats", server.getStats)

	server.echo = e
	return server
}

// Start serves the API on the given address until Shutdown or a listener
// failure.
func (server *Server) Start(address string) error {
	server.Logger.Info("starting admin api", "address", address)
	if err := server.echo.Start(address); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("starting admin api : %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (server *Server) Shutdown(ctx context.Context) error {
	if err := server.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down admin api : %w", err)
	}
	return nil
}

// Handler exposes the underlying http.Handler, mainly for tests.
func (server *Server) Handler() http.Handler {
	return server.echo
}

// httpErrorHandler maps classified errors onto status codes. Internal errors
// keep their detail out of the response body but are logged with it.
func (server *Server) httpErrorHandler(defaultHandler echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if httpErr, ok := err.(*echo.HTTPError); ok {
			defaultHandler(httpErr, ctx)
			return
		}
		status := ToHTTPStatus(err)
		if status == http.StatusInternalServerError {
			server.Logger.Error("request failed", "method", ctx.Request().Method,
				"path", ctx.Request().URL.Path, "error", err)
			defaultHandler(echo.NewHTTPError(status, http.StatusText(status)), ctx)
			return
		}
		defaultHandler(echo.NewHTTPError(status, err.Error()), ctx)
	}
}
