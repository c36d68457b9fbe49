package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tfkr-ae/rudder"
	"github.com/tfkr-ae/rudder/domain"
)

func setupTestServer(t *testing.T) (*Server, *rudder.ControlPlane, func()) {
	t.Helper()

	controlPlane, err := rudder.New()
	if err != nil {
		t.Fatalf("rudder.New() failed: %v", err)
	}
	server := NewServer(controlPlane, nil)

	teardown := func() {
		controlPlane.Close()
	}
	return server, controlPlane, teardown
}

func doRequest(t *testing.T, server *Server, method string, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRouteEndpoints(t *testing.T) {
	t.Run("should create, fetch and delete a route", func(t *testing.T) {
		server, _, teardown := setupTestServer(t)
		defer teardown()

		rec := doRequest(t, server, http.MethodPost, "/api/routes",
			`{"routeId": "r1", "clusterId": "c1", "match": {"path": "/api/{**catch-all}"}}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("\nwanted:\n201\ngot:\n%d (%s)", rec.Code, rec.Body.String())
		}

		rec = doRequest(t, server, http.MethodGet, "/api/routes/r1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("\nwanted:\n200\ngot:\n%d", rec.Code)
		}
		var route domain.Route
		if err := json.Unmarshal(rec.Body.Bytes(), &route); err != nil {
			t.Fatalf("parsing response: %v", err)
		}
		if route.RouteID != "r1" || route.ClusterID != "c1" {
			t.Fatalf("\nwanted:\nroute r1 -> c1\ngot:\n%+v", route)
		}

		rec = doRequest(t, server, http.MethodDelete, "/api/routes/r1", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("\nwanted:\n204\ngot:\n%d", rec.Code)
		}
		rec = doRequest(t, server, http.MethodDelete, "/api/routes/r1", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("\nwanted:\n404\ngot:\n%d", rec.Code)
		}
	})

	t.Run("should reject a duplicate create with 409", func(t *testing.T) {
		server, _, teardown := setupTestServer(t)
		defer teardown()

		body := `{"routeId": "r1", "clusterId": "c1"}`
		if rec := doRequest(t, server, http.MethodPost, "/api/routes", body); rec.Code != http.StatusCreated {
			t.Fatalf("\nwanted:\n201\ngot:\n%d", rec.Code)
		}
		if rec := doRequest(t, server, http.MethodPost, "/api/routes", body); rec.Code != http.StatusConflict {
			t.Fatalf("\nwanted:\n409\ngot:\n%d", rec.Code)
		}
	})

	t.Run("should upsert through PUT regardless of existence", func(t *testing.T) {
		server, controlPlane, teardown := setupTestServer(t)
		defer teardown()

		rec := doRequest(t, server, http.MethodPut, "/api/routes/r1", `{"clusterId": "c1"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("\nwanted:\n200\ngot:\n%d (%s)", rec.Code, rec.Body.String())
		}
		if _, ok := controlPlane.GetRoute("r1"); !ok {
			t.Fatalf("\nwanted:\nroute r1 stored\ngot:\nabsent")
		}

		rec = doRequest(t, server, http.MethodPut, "/api/routes/r1", `{"clusterId": "c2"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("\nwanted:\n200\ngot:\n%d", rec.Code)
		}
		route, _ := controlPlane.GetRoute("r1")
		if route.ClusterID != "c2" {
			t.Fatalf("\nwanted:\nc2\ngot:\n%q", route.ClusterID)
		}
	})

	t.Run("should reject a body id that contradicts the path", func(t *testing.T) {
		server, _, teardown := setupTestServer(t)
		defer teardown()

		rec := doRequest(t, server, http.MethodPut, "/api/routes/r1",
			`{"routeId": "other", "clusterId": "c1"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("\nwanted:\n400\ngot:\n%d", rec.Code)
		}
	})

	t.Run("should reject a route without a cluster id", func(t *testing.T) {
		server, _, teardown := setupTestServer(t)
		defer teardown()

		rec := doRequest(t, server, http.MethodPost, "/api/routes", `{"routeId": "r1"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("\nwanted:\n400\ngot:\n%d", rec.Code)
		}
	})

	t.Run("should accept a route referencing an unknown cluster", func(t *testing.T) {
		server, _, teardown := setupTestServer(t)
		defer teardown()

		rec := doRequest(t, server, http.MethodPost, "/api/routes",
			`{"routeId": "r1", "clusterId": "nowhere"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("\nwanted:\n201\ngot:\n%d (%s)", rec.Code, rec.Body.String())
		}
	})
}

func TestClusterEndpoints(t *testing.T) {
	t.Run("should reject a destination without an address", func(t *testing.T) {
		server, _, teardown := setupTestServer(t)
		defer teardown()

		rec := doRequest(t, server, http.MethodPost, "/api/clusters",
			`{"clusterId": "c1", "destinations": {"d1": {"health": "https://h1/health"}}}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("\nwanted:\n400\ngot:\n%d", rec.Code)
		}
	})

	t.Run("should create and list clusters", func(t *testing.T) {
		server, _, teardown := setupTestServer(t)
		defer teardown()

		rec := doRequest(t, server, http.MethodPost, "/api/clusters",
			`{"clusterId": "c1", "destinations": {"d1": {"address": "https://h1"}}}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("\nwanted:\n201\ngot:\n%d (%s)", rec.Code, rec.Body.String())
		}

		rec = doRequest(t, server, http.MethodGet, "/api/clusters", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("\nwanted:\n200\ngot:\n%d", rec.Code)
		}
		var clusters []domain.Cluster
		if err := json.Unmarshal(rec.Body.Bytes(), &clusters); err != nil {
			t.Fatalf("parsing response: %v", err)
		}
		if len(clusters) != 1 || clusters[0].ClusterID != "c1" {
			t.Fatalf("\nwanted:\ncluster c1\ngot:\n%+v", clusters)
		}
	})
}

func TestConfigurationEndpoints(t *testing.T) {
	t.Run("should surface a translation failure with the offending id", func(t *testing.T) {
		server, controlPlane, teardown := setupTestServer(t)
		defer teardown()

		controlPlane.Store.UpsertCluster(domain.Cluster{
			ClusterID: "broken",
			HealthCheck: &domain.HealthCheck{
				Active: &domain.ActiveHealthCheck{Interval: "bogus"},
			},
		})

		rec := doRequest(t, server, http.MethodPost, "/api/configuration/apply", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("\nwanted:\n500\ngot:\n%d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "broken") {
			t.Fatalf("\nwanted:\nresponse naming cluster broken\ngot:\n%s", rec.Body.String())
		}
	})

	t.Run("should return the full store contents", func(t *testing.T) {
		server, controlPlane, teardown := setupTestServer(t)
		defer teardown()

		controlPlane.UpsertRoute(domain.Route{RouteID: "r1", ClusterID: "c1"})

		rec := doRequest(t, server, http.MethodGet, "/api/configuration", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("\nwanted:\n200\ngot:\n%d", rec.Code)
		}
		var config domain.Configuration
		if err := json.Unmarshal(rec.Body.Bytes(), &config); err != nil {
			t.Fatalf("parsing response: %v", err)
		}
		if len(config.Routes) != 1 || config.Routes[0].RouteID != "r1" {
			t.Fatalf("\nwanted:\nroute r1\ngot:\n%+v", config.Routes)
		}
	})
}

func TestSnapshotEndpoint(t *testing.T) {
	t.Run("should serve the published snapshot", func(t *testing.T) {
		server, controlPlane, teardown := setupTestServer(t)
		defer teardown()

		controlPlane.UpsertRoute(domain.Route{RouteID: "r1", ClusterID: "c1"})

		rec := doRequest(t, server, http.MethodGet, "/api/snapshot", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("\nwanted:\n200\ngot:\n%d", rec.Code)
		}
		var response snapshotResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("parsing response: %v", err)
		}
		if response.Revision != controlPlane.GetSnapshot().Revision() {
			t.Fatalf("\nwanted:\ncurrent revision\ngot:\n%q", response.Revision)
		}
		if len(response.Routes) != 1 || response.Routes[0].RouteID != "r1" {
			t.Fatalf("\nwanted:\nroute r1\ngot:\n%+v", response.Routes)
		}
	})

	t.Run("should long poll until the snapshot is superseded", func(t *testing.T) {
		server, controlPlane, teardown := setupTestServer(t)
		defer teardown()

		before := controlPlane.GetSnapshot().Revision()
		go func() {
			time.Sleep(50 * time.Millisecond)
			controlPlane.UpsertRoute(domain.Route{RouteID: "r1", ClusterID: "c1"})
		}()

		rec := doRequest(t, server, http.MethodGet, "/api/snapshot?version="+before+"&wait=2s", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("\nwanted:\n200\ngot:\n%d", rec.Code)
		}
		var response snapshotResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("parsing response: %v", err)
		}
		if response.Revision == before {
			t.Fatalf("\nwanted:\na newer revision\ngot:\n%q again", before)
		}
		if len(response.Routes) != 1 {
			t.Fatalf("\nwanted:\n1 route\ngot:\n%d", len(response.Routes))
		}
	})

	t.Run("should answer with the same revision after the wait expires", func(t *testing.T) {
		server, controlPlane, teardown := setupTestServer(t)
		defer teardown()

		before := controlPlane.GetSnapshot().Revision()
		rec := doRequest(t, server, http.MethodGet, "/api/snapshot?version="+before+"&wait=20ms", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("\nwanted:\n200\ngot:\n%d", rec.Code)
		}
		var response snapshotResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("parsing response: %v", err)
		}
		if response.Revision != before {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", before, response.Revision)
		}
	})

	t.Run("should reject an unparsable wait duration", func(t *testing.T) {
		server, controlPlane, teardown := setupTestServer(t)
		defer teardown()

		version := controlPlane.GetSnapshot().Revision()
		rec := doRequest(t, server, http.MethodGet, "/api/snapshot?version="+version+"&wait=forever", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("\nwanted:\n400\ngot:\n%d", rec.Code)
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	t.Run("should count routes, clusters and destinations", func(t *testing.T) {
		server, controlPlane, teardown := setupTestServer(t)
		defer teardown()

		controlPlane.UpsertRoute(domain.Route{RouteID: "r1", ClusterID: "c1"})
		disabled := false
		controlPlane.UpsertRoute(domain.Route{RouteID: "r2", ClusterID: "c1", Enabled: &disabled})
		controlPlane.UpsertCluster(domain.Cluster{
			ClusterID: "c1",
			Destinations: map[string]domain.Destination{
				"d1": {Address: "https://h1"},
				"d2": {Address: "https://h2"},
			},
		})

		rec := doRequest(t, server, http.MethodGet, "/api/stats", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("\nwanted:\n200\ngot:\n%d", rec.Code)
		}
		var stats statsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
			t.Fatalf("parsing response: %v", err)
		}
		want := statsResponse{Routes: 2, EnabledRoutes: 1, Clusters: 1, Destinations: 2}
		if stats != want {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", want, stats)
		}
	})
}

func TestAuditEndpoint(t *testing.T) {
	t.Run("should 404 without an audit repository", func(t *testing.T) {
		server, _, teardown := setupTestServer(t)
		defer teardown()

		rec := doRequest(t, server, http.MethodGet, "/api/audit", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("\nwanted:\n404\ngot:\n%d", rec.Code)
		}
	})
}
