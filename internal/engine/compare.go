package engine

import (
	"context"
	"math/rand"

	"github.com/piwi3910/StowPack/internal/model"
)

// ComparisonScenario defines a named tuning variant to compare.
type ComparisonScenario struct {
	Name   string
	Tuning model.Tuning
}

// ComparisonResult holds the planning result and summary statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackingResult
	Density       float64
	UnplacedCount int
	FallbackCount int
}

// CompareScenarios plans the same box set under each scenario and returns
// the results in scenario order. Every scenario gets a fresh random source
// from the same seed, so differences come from the tuning alone.
func CompareScenarios(cfg model.WarehouseConfig, scenarios []ComparisonScenario, boxes []model.Box, seed int64) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		packer := NewPacker(cfg, scenario.Tuning, rand.New(rand.NewSource(seed)))
		result := packer.Pack(context.Background(), boxes)

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			Density:       model.Density(result.Boxes, cfg),
			UnplacedCount: len(result.Boxes) - result.PackedCount(),
			FallbackCount: result.FallbackCount(),
		})
	}
	return results
}

// BuildDefaultScenarios generates what-if variants of the given tuning:
// the other algorithm and a half step size.
func BuildDefaultScenarios(base model.Tuning) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Tuning: base},
	}

	alt := base
	if base.Algorithm == model.AlgorithmGenetic {
		alt.Algorithm = model.AlgorithmGreedy
		scenarios = append(scenarios, ComparisonScenario{Name: "Greedy Algorithm", Tuning: alt})
	} else {
		alt.Algorithm = model.AlgorithmGenetic
		scenarios = append(scenarios, ComparisonScenario{Name: "Genetic Algorithm", Tuning: alt})
	}

	if base.Step > 1 {
		fine := base
		fine.Step = base.Step / 2
		scenarios = append(scenarios, ComparisonScenario{Name: "Half Step", Tuning: fine})
	}

	return scenarios
}
