package dynamo

import "math"

type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Control is an external input vector. The projectile is uncontrolled, so
// callers pass nil.
type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// Sample is one recorded point of a trajectory.
type Sample struct {
	Time  float64
	State State
}

type Result struct {
	Samples     []Sample
	EnergyDrift float64
	StepsTaken  int
}

// Times returns the sample timestamps.
func (r *Result) Times() []float64 {
	times := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		times[i] = s.Time
	}
	return times
}

// Component extracts state index i across all samples.
func (r *Result) Component(i int) []float64 {
	out := make([]float64, 0, len(r.Samples))
	for _, s := range r.Samples {
		if i < len(s.State) {
			out = append(out, s.State[i])
		}
	}
	return out
}
