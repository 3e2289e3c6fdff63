package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/sim"
)

// Objective scores one parameter set; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every point of the grid. Points whose objective fails
// are skipped; an error is returned only if none succeeded or ctx ends.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("grid search: no point could be evaluated")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := objective(ctx, current)
		if err != nil {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, objective, best, bestParams); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// BestAngle finds the throw angle within bounds that gives the longest
// stepped range at the given speed. A whole-degree pass is refined to a
// tenth of a degree around the winner.
func BestAngle(ctx context.Context, engine *sim.Engine, speed float64, b launch.Bounds) (angle, rangeM float64, err error) {
	objective := func(ctx context.Context, params map[string]float64) (float64, error) {
		if _, err := engine.Fly(ctx, launch.Params{Speed: speed, Angle: params["angle"]}); err != nil {
			return 0, err
		}
		return -engine.Snapshot().Range, nil
	}

	coarse := NewGridSearch([]string{"angle"}, [][]float64{
		Linspace(b.AngleMin, b.AngleMax, int(b.AngleMax-b.AngleMin)+1),
	})
	params, _, err := coarse.Search(ctx, objective)
	if err != nil {
		return 0, 0, err
	}

	lo := math.Max(b.AngleMin, params["angle"]-1)
	hi := math.Min(b.AngleMax, params["angle"]+1)
	fine := NewGridSearch([]string{"angle"}, [][]float64{Linspace(lo, hi, int(math.Round((hi-lo)*10))+1)})
	params, score, err := fine.Search(ctx, objective)
	if err != nil {
		return 0, 0, err
	}
	return params["angle"], -score, nil
}
