package metrics

import (
	"math"

	"github.com/san-kum/projectile/internal/dynamo"
)

// EnergyTrace evaluates the system energy at every sample. It returns nil
// for systems that do not expose one.
func EnergyTrace(dyn dynamo.System, r *dynamo.Result) []float64 {
	h, ok := dyn.(dynamo.Hamiltonian)
	if !ok {
		return nil
	}
	trace := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		trace[i] = h.Energy(s.State)
	}
	return trace
}

// MaxDrift is the largest relative departure from the first value.
func MaxDrift(trace []float64) float64 {
	if len(trace) == 0 || trace[0] == 0 {
		return 0
	}
	initial := trace[0]
	drift := 0.0
	for _, e := range trace[1:] {
		drift = math.Max(drift, math.Abs(e-initial)/math.Abs(initial))
	}
	return drift
}
