package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tfkr-ae/rudder/domain"
)

func (server *Server) listClusters(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, server.ControlPlane.GetClusters())
}

func (server *Server) getCluster(ctx echo.Context) error {
	id := ctx.Param("id")
	cluster, ok := server.ControlPlane.GetCluster(id)
	if !ok {
		return NewError(ReasonNotFound, "cluster %s not found", id)
	}
	return ctx.JSON(http.StatusOK, cluster)
}

func (server *Server) createCluster(ctx echo.Context) error {
	var cluster domain.Cluster
	if err := ctx.Bind(&cluster); err != nil {
		return NewError(ReasonInvalid, "parsing cluster : %v", err)
	}
	if err := validateCluster(cluster); err != nil {
		return err
	}
	if _, exists := server.ControlPlane.GetCluster(cluster.ClusterID); exists {
		return NewError(ReasonConflict, "cluster %s already exists", cluster.ClusterID)
	}
	stored := server.ControlPlane.UpsertCluster(cluster)
	return ctx.JSON(http.StatusCreated, stored)
}

func (server *Server) putCluster(ctx echo.Context) error {
	var cluster domain.Cluster
	if err := ctx.Bind(&cluster); err != nil {
		return NewError(ReasonInvalid, "parsing cluster : %v", err)
	}
	if cluster.ClusterID == "" {
		cluster.ClusterID = ctx.Param("id")
	}
	if cluster.ClusterID != ctx.Param("id") {
		return NewError(ReasonInvalid, "cluster id %s does not match path id %s",
			cluster.ClusterID, ctx.Param("id"))
	}
	if err := validateCluster(cluster); err != nil {
		return err
	}
	stored := server.ControlPlane.UpsertCluster(cluster)
	return ctx.JSON(http.StatusOK, stored)
}

func (server *Server) deleteCluster(ctx echo.Context) error {
	id := ctx.Param("id")
	if !server.ControlPlane.DeleteCluster(id) {
		return NewError(ReasonNotFound, "cluster %s not found", id)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// validateCluster rejects structurally unusable records. Policy names and
// duration strings stay unvalidated here; durations are checked at publish
// time and policies by the data plane.
func validateCluster(cluster domain.Cluster) error {
	if cluster.ClusterID == "" {
		return NewError(ReasonInvalid, "clusterId is required")
	}
	for name, destination := range cluster.Destinations {
		if destination.Address == "" {
			return NewError(ReasonInvalid, "destination %s requires an address", name)
		}
	}
	return nil
}
