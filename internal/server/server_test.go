package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/StowPack/internal/config"
	"github.com/piwi3910/StowPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *Server {
	cfg := config.Default()
	cfg.Warehouse = model.WarehouseConfig{
		StorageWidth:  200,
		StorageLength: 200,
		NumBoxes:      4,
		MinSide:       30,
		MaxSide:       60,
		Clearance:     10,
	}
	cfg.Seed = 42
	return New(cfg)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer()
	w := doJSON(t, s, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestPack_GeneratedBoxes(t *testing.T) {
	s := newTestServer()
	w := doJSON(t, s, http.MethodPost, "/api/pack", PackRequest{})

	require.Equal(t, http.StatusOK, w.Code)

	var resp PackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Result.Boxes, 4)
	assert.Len(t, resp.Result.RetrievalOrder, 4)
	assert.NotEmpty(t, resp.Result.RunID)
}

func TestPack_ExplicitBoxes(t *testing.T) {
	s := newTestServer()
	req := PackRequest{
		Boxes: []model.Box{
			{ID: 0, Width: 50, Height: 50},
			{ID: 1, Width: 40, Height: 30},
		},
		Seed: 7,
	}
	w := doJSON(t, s, http.MethodPost, "/api/pack", req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp PackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Result.PackedCount())
	assert.Positive(t, resp.Density)
}

func TestPack_WarehouseOverride(t *testing.T) {
	s := newTestServer()
	req := PackRequest{
		Warehouse: &model.WarehouseConfig{
			StorageWidth:  60,
			StorageLength: 60,
			MinSide:       50,
			MaxSide:       51,
		},
		Boxes: []model.Box{
			{ID: 0, Width: 50, Height: 50},
			{ID: 1, Width: 50, Height: 50},
		},
	}
	w := doJSON(t, s, http.MethodPost, "/api/pack", req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp PackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Result.PackedCount())
	assert.NotEmpty(t, resp.Result.Warnings)
}

func TestPack_InvalidWarehouse(t *testing.T) {
	s := newTestServer()
	req := PackRequest{
		Warehouse: &model.WarehouseConfig{StorageWidth: -1, StorageLength: 100, MinSide: 10, MaxSide: 20},
	}
	w := doJSON(t, s, http.MethodPost, "/api/pack", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "storage bounds")
}

func TestPack_MalformedBody(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/pack", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompare(t *testing.T) {
	s := newTestServer()
	req := PackRequest{
		Boxes: []model.Box{
			{ID: 0, Width: 40, Height: 40},
			{ID: 1, Width: 40, Height: 40},
		},
		Seed: 3,
	}
	w := doJSON(t, s, http.MethodPost, "/api/compare", req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Scenarios []struct {
			Scenario struct {
				Name string `json:"Name"`
			}
			Density float64
		} `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 3)
	assert.Equal(t, "Current Settings", resp.Scenarios[0].Scenario.Name)
}

func TestCheck(t *testing.T) {
	s := newTestServer()
	req := CheckRequest{
		Warehouse: model.WarehouseConfig{StorageWidth: 200, StorageLength: 200, MinSide: 10, MaxSide: 20, Clearance: 10},
		Result: model.PackingResult{
			Boxes: []model.Box{
				{ID: 0, Width: 30, Height: 30, X: 50, Y: 50, Packed: true},
				{ID: 1, Width: 30, Height: 30, X: 120, Y: 120, Packed: true},
			},
			PackingPaths: map[int]model.Path{
				1: {Kind: model.PathFallback, Points: []model.Position{{X: 50, Y: 50}, {X: 120, Y: 120}}},
			},
			RetrievalOrder: []int{0, 1},
		},
	}
	w := doJSON(t, s, http.MethodPost, "/api/check", req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Violations []struct {
			BoxID      int `json:"box_id"`
			ObstacleID int `json:"obstacle_id"`
		} `json:"violations"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, 1, resp.Violations[0].BoxID)
	assert.Equal(t, 0, resp.Violations[0].ObstacleID)
	assert.Len(t, resp.Warnings, 1)
}
