package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tfkr-ae/rudder/engine"
)

func (server *Server) getConfiguration(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, server.ControlPlane.GetConfiguration())
}

// applyConfiguration forces a re-publish. A translation failure surfaces with
// the offending record's id, distinct from request validation failures.
func (server *Server) applyConfiguration(ctx echo.Context) error {
	if err := server.ControlPlane.ApplyConfiguration(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return ctx.JSON(http.StatusOK, map[string]string{
		"revision": server.ControlPlane.GetSnapshot().Revision(),
	})
}

func (server *Server) saveConfiguration(ctx echo.Context) error {
	if err := server.ControlPlane.Save(); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (server *Server) loadConfiguration(ctx echo.Context) error {
	if err := server.ControlPlane.Load(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return ctx.NoContent(http.StatusNoContent)
}

// snapshotResponse is the data-plane consumption document.
type snapshotResponse struct {
	Revision string           `json:"revision"`
	Routes   []engine.Route   `json:"routes"`
	Clusters []engine.Cluster `json:"clusters"`
}

// getSnapshot serves the published configuration. With version and wait query
// parameters it long-polls: when the given version is still current, the
// request parks on the snapshot's change signal until it fires, the wait
// expires, or the client goes away, then answers with whatever is current.
func (server *Server) getSnapshot(ctx echo.Context) error {
	snapshot := server.ControlPlane.GetSnapshot()

	version := ctx.QueryParam("version")
	if version != "" && version == snapshot.Revision() {
		wait := 30 * time.Second
		if raw := ctx.QueryParam("wait"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				return NewError(ReasonInvalid, "parsing wait duration : %v", err)
			}
			wait = parsed
		}
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-snapshot.Changed():
		case <-timer.C:
		case <-ctx.Request().Context().Done():
			return ctx.Request().Context().Err()
		}
		snapshot = server.ControlPlane.GetSnapshot()
	}

	routes := snapshot.Routes()
	if routes == nil {
		routes = []engine.Route{}
	}
	clusters := snapshot.Clusters()
	if clusters == nil {
		clusters = []engine.Cluster{}
	}
	return ctx.JSON(http.StatusOK, snapshotResponse{
		Revision: snapshot.Revision(),
		Routes:   routes,
		Clusters: clusters,
	})
}

func (server *Server) getAuditEntries(ctx echo.Context) error {
	if server.ControlPlane.AuditRepo == nil {
		return NewError(ReasonNotFound, "no audit repository configured")
	}
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return NewError(ReasonInvalid, "parsing limit : %v", err)
		}
		limit = parsed
	}
	entries, err := server.ControlPlane.AuditRepo.GetAuditEntries(limit)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}

// statsResponse summarizes the store contents. Counts come from the live
// store rather than the persistence layer, so they are correct even before
// the first save.
type statsResponse struct {
	Routes        int `json:"routes"`
	EnabledRoutes int `json:"enabledRoutes"`
	Clusters      int `json:"clusters"`
	Destinations  int `json:"destinations"`
	AuditEntries  int `json:"auditEntries,omitempty"`
}

func (server *Server) getStats(ctx echo.Context) error {
	config := server.ControlPlane.GetConfiguration()
	stats := statsResponse{Routes: len(config.Routes), Clusters: len(config.Clusters)}
	for _, route := range config.Routes {
		if route.IsEnabled() {
			stats.EnabledRoutes++
		}
	}
	for _, cluster := range config.Clusters {
		stats.Destinations += len(cluster.Destinations)
	}
	if server.ControlPlane.AuditRepo != nil {
		count, err := server.ControlPlane.AuditRepo.CountAuditEntries()
		if err != nil {
			return err
		}
		stats.AuditEntries = count
	}
	return ctx.JSON(http.StatusOK, stats)
}
