// Package server exposes the packing planner over HTTP. The API is
// stateless: every request carries its full input and gets the complete
// result back.
package server

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/StowPack/internal/config"
	"github.com/piwi3910/StowPack/internal/engine"
	"github.com/piwi3910/StowPack/internal/model"
)

// Server wraps the gin router with the default configuration applied to
// requests that omit their own.
type Server struct {
	cfg    config.Config
	router *gin.Engine
}

// PackRequest is the body of POST /api/pack. Boxes are optional: when empty,
// the box population is generated from the warehouse configuration and Seed.
type PackRequest struct {
	Warehouse *model.WarehouseConfig `json:"warehouse,omitempty"`
	Tuning    *model.Tuning          `json:"tuning,omitempty"`
	Boxes     []model.Box            `json:"boxes,omitempty"`
	Seed      int64                  `json:"seed,omitempty"`
}

// PackResponse is the body of a successful pack call.
type PackResponse struct {
	Result  model.PackingResult `json:"result"`
	Density float64             `json:"density"`
}

// CheckRequest is the body of POST /api/check: a result to re-validate.
type CheckRequest struct {
	Warehouse model.WarehouseConfig `json:"warehouse"`
	Result    model.PackingResult   `json:"result"`
}

// New builds a Server from the given configuration.
func New(cfg config.Config) *Server {
	s := &Server{cfg: cfg, router: gin.Default()}

	s.router.GET("/healthz", s.handleHealth)
	api := s.router.Group("/api")
	api.POST("/pack", s.handlePack)
	api.POST("/compare", s.handleCompare)
	api.POST("/check", s.handleCheck)

	return s
}

// Router exposes the underlying handler for testing and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server on the configured address.
func (s *Server) Run() error {
	return s.router.Run(s.cfg.Server.Addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePack(c *gin.Context) {
	var req PackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warehouse, tuning, rng, err := s.resolve(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	boxes := req.Boxes
	if len(boxes) == 0 {
		boxes = engine.GenerateBoxes(warehouse, rng)
	}

	packer := engine.NewPacker(warehouse, tuning, rng)
	result := packer.Pack(c.Request.Context(), boxes)

	c.JSON(http.StatusOK, PackResponse{
		Result:  result,
		Density: model.Density(result.Boxes, warehouse),
	})
}

func (s *Server) handleCompare(c *gin.Context) {
	var req PackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warehouse, tuning, rng, err := s.resolve(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	boxes := req.Boxes
	if len(boxes) == 0 {
		boxes = engine.GenerateBoxes(warehouse, rng)
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	scenarios := engine.BuildDefaultScenarios(tuning)
	results := engine.CompareScenarios(warehouse, scenarios, boxes, seed)
	c.JSON(http.StatusOK, gin.H{"scenarios": results})
}

func (s *Server) handleCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	violations := engine.CheckPathCollisions(req.Result, req.Warehouse)
	c.JSON(http.StatusOK, gin.H{
		"violations": violations,
		"warnings":   engine.FormatPathWarnings(violations),
	})
}

// resolve merges the request overrides with the server configuration and
// validates the outcome.
func (s *Server) resolve(req PackRequest) (model.WarehouseConfig, model.Tuning, *rand.Rand, error) {
	warehouse := s.cfg.Warehouse
	if req.Warehouse != nil {
		warehouse = *req.Warehouse
	}
	tuning := s.cfg.Tuning
	if req.Tuning != nil {
		tuning = *req.Tuning
	}

	if err := warehouse.Validate(); err != nil {
		return model.WarehouseConfig{}, model.Tuning{}, nil, err
	}
	if err := tuning.Validate(); err != nil {
		return model.WarehouseConfig{}, model.Tuning{}, nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return warehouse, tuning, rand.New(rand.NewSource(seed)), nil
}
