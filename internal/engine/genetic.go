package engine

import (
	"context"
	"math/rand"
	"sort"

	"github.com/piwi3910/StowPack/internal/model"
)

// GeneticConfig holds parameters for the genetic placement-order optimizer.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns conservative defaults. Every fitness
// evaluation runs the full feasibility-checked placement, so the population
// stays small compared to a plain bin-packing GA.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 12,
		Generations:    24,
		MutationRate:   0.2,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// gene is one placement decision: which box to place next and whether to try
// the rotated orientation first.
type gene struct {
	boxIndex int
	rotated  bool
}

// chromosome is a candidate processing order with rotation preferences.
type chromosome struct {
	genes   []gene
	fitness float64
}

// geneticPlanner searches over box processing orders. The decoder is the
// same placement search the greedy planner uses, so every individual it
// produces satisfies the retrieval-feasibility invariant.
type geneticPlanner struct {
	p              *Packer
	config         GeneticConfig
	base           []model.Box // pristine, unpacked, sorted by id
	retrievalOrder []int
	rng            *rand.Rand
}

// packGenetic runs the GA and returns the decoded best layout, filling paths
// for the committed boxes. On budget exhaustion the best layout found so far
// is kept.
func (p *Packer) packGenetic(ctx context.Context, work []model.Box, retrievalOrder []int, paths map[int]model.Path) []model.Box {
	if len(work) == 0 {
		return work
	}
	ga := &geneticPlanner{
		p:              p,
		config:         DefaultGeneticConfig(),
		base:           work,
		retrievalOrder: retrievalOrder,
		rng:            p.rng,
	}
	best := ga.optimize(ctx)
	boxes, bestPaths, _ := ga.decode(ctx, best)
	for id, path := range bestPaths {
		paths[id] = path
	}
	return boxes
}

// optimize evolves the population and returns the fittest chromosome.
func (ga *geneticPlanner) optimize(ctx context.Context) chromosome {
	population := ga.initPopulation()
	for i := range population {
		population[i].fitness = ga.evaluate(ctx, population[i])
	}

	for gen := 0; gen < ga.config.Generations; gen++ {
		if ctx.Err() != nil {
			break
		}
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, ga.config.PopulationSize)
		elite := ga.config.EliteCount
		if elite > len(population) {
			elite = len(population)
		}
		for i := 0; i < elite; i++ {
			newPop = append(newPop, copyChromosome(population[i]))
		}

		for len(newPop) < ga.config.PopulationSize {
			parent1 := ga.tournamentSelect(population)
			parent2 := ga.tournamentSelect(population)
			child := ga.orderCrossover(parent1, parent2)
			ga.mutate(&child)
			child.fitness = ga.evaluate(ctx, child)
			newPop = append(newPop, child)
		}
		population = newPop
	}

	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
	return population[0]
}

// initPopulation seeds random orderings plus one chromosome in plain id
// order, which mirrors the greedy planner and anchors the search.
func (ga *geneticPlanner) initPopulation() []chromosome {
	n := len(ga.base)
	population := make([]chromosome, ga.config.PopulationSize)
	for i := range population {
		genes := make([]gene, n)
		perm := ga.rng.Perm(n)
		for j := 0; j < n; j++ {
			genes[j] = gene{
				boxIndex: perm[j],
				rotated:  ga.rng.Float64() < 0.5,
			}
		}
		population[i] = chromosome{genes: genes}
	}
	if len(population) > 0 {
		genes := make([]gene, n)
		for j := 0; j < n; j++ {
			genes[j] = gene{boxIndex: j}
		}
		population[0] = chromosome{genes: genes}
	}
	return population
}

// evaluate decodes the chromosome and scores it: packed density minus a
// heavy penalty per unplaced box.
func (ga *geneticPlanner) evaluate(ctx context.Context, c chromosome) float64 {
	boxes, _, err := ga.decode(ctx, c)
	if err != nil {
		return 0
	}
	unplaced := 0
	for _, b := range boxes {
		if !b.Packed {
			unplaced++
		}
	}
	fitness := model.Density(boxes, ga.p.cfg)/100.0 - 0.1*float64(unplaced)
	if fitness < 0 {
		fitness = 0
	}
	return fitness
}

// decode runs the feasibility-checked placement search over a fresh copy of
// the boxes in chromosome order.
func (ga *geneticPlanner) decode(ctx context.Context, c chromosome) ([]model.Box, map[int]model.Path, error) {
	boxes := make([]model.Box, len(ga.base))
	copy(boxes, ga.base)
	paths := make(map[int]model.Path)

	for _, g := range c.genes {
		if _, err := ga.p.placeBox(ctx, boxes, g.boxIndex, ga.retrievalOrder, paths, g.rotated); err != nil {
			return boxes, paths, err
		}
	}
	return boxes, paths, nil
}

// tournamentSelect picks the best of a random tournament.
func (ga *geneticPlanner) tournamentSelect(population []chromosome) chromosome {
	best := population[ga.rng.Intn(len(population))]
	for i := 1; i < ga.config.TournamentSize; i++ {
		candidate := population[ga.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover is Order Crossover (OX1): it copies a segment from the
// first parent and fills the remaining slots in second-parent order.
func (ga *geneticPlanner) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := ga.rng.Intn(n)
	point2 := ga.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]gene, n)}
	inSegment := make(map[int]bool, point2-point1+1)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i].boxIndex] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg.boxIndex] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

// mutate applies swap, rotation-toggle, and (rarer) inversion mutations.
func (ga *geneticPlanner) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if ga.rng.Float64() < ga.config.MutationRate {
		i := ga.rng.Intn(n)
		j := ga.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if ga.rng.Float64() < ga.config.MutationRate {
		i := ga.rng.Intn(n)
		c.genes[i].rotated = !c.genes[i].rotated
	}

	if ga.rng.Float64() < ga.config.MutationRate*0.5 {
		i := ga.rng.Intn(n)
		j := ga.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func copyChromosome(c chromosome) chromosome {
	genes := make([]gene, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
