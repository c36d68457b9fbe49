package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tfkr-ae/rudder/domain"
)

func (server *Server) listRoutes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, server.ControlPlane.GetRoutes())
}

func (server *Server) getRoute(ctx echo.Context) error {
	id := ctx.Param("id")
	route, ok := server.ControlPlane.GetRoute(id)
	if !ok {
		return NewError(ReasonNotFound, "route %s not found", id)
	}
	return ctx.JSON(http.StatusOK, route)
}

// createRoute enforces the create-only conflict policy. The store itself is
// upsert-always; "already exists" is an API decision.
func (server *Server) createRoute(ctx echo.Context) error {
	var route domain.Route
	if err := ctx.Bind(&route); err != nil {
		return NewError(ReasonInvalid, "parsing route : %v", err)
	}
	if err := validateRoute(route); err != nil {
		return err
	}
	if _, exists := server.ControlPlane.GetRoute(route.RouteID); exists {
		return NewError(ReasonConflict, "route %s already exists", route.RouteID)
	}
	stored := server.ControlPlane.UpsertRoute(route)
	return ctx.JSON(http.StatusCreated, stored)
}

func (server *Server) putRoute(ctx echo.Context) error {
	var route domain.Route
	if err := ctx.Bind(&route); err != nil {
		return NewError(ReasonInvalid, "parsing route : %v", err)
	}
	if route.RouteID == "" {
		route.RouteID = ctx.Param("id")
	}
	if route.RouteID != ctx.Param("id") {
		return NewError(ReasonInvalid, "route id %s does not match path id %s",
			route.RouteID, ctx.Param("id"))
	}
	if err := validateRoute(route); err != nil {
		return err
	}
	stored := server.ControlPlane.UpsertRoute(route)
	return ctx.JSON(http.StatusOK, stored)
}

func (server *Server) deleteRoute(ctx echo.Context) error {
	id := ctx.Param("id")
	if !server.ControlPlane.DeleteRoute(id) {
		return NewError(ReasonNotFound, "route %s not found", id)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// validateRoute rejects structurally unusable records before they reach the
// core. Cross-record checks, like whether the referenced cluster exists, are
// deliberately not performed.
func validateRoute(route domain.Route) error {
	if route.RouteID == "" {
		return NewError(ReasonInvalid, "routeId is required")
	}
	if route.ClusterID == "" {
		return NewError(ReasonInvalid, "clusterId is required")
	}
	for _, header := range route.Match.Headers {
		if header.Name == "" {
			return NewError(ReasonInvalid, "header match name is required")
		}
	}
	for _, query := range route.Match.QueryParameters {
		if query.Name == "" {
			return NewError(ReasonInvalid, "query parameter match name is required")
		}
	}
	return nil
}
