package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/physics"
)

func TestEulerProjectileStep(t *testing.T) {
	dyn := physics.NewProjectile(9.81)
	integ := NewEuler()

	x0 := physics.LaunchState(7.5, 45)
	x1 := integ.Step(dyn, x0, nil, 0, 0.1)

	v := 7.5 * math.Cos(math.Pi/4)
	if math.Abs(x1[physics.IdxX]-v*0.1) > 1e-12 {
		t.Errorf("x after one step: got %f, want %f", x1[physics.IdxX], v*0.1)
	}
	if math.Abs(x1[physics.IdxY]-v*0.1) > 1e-12 {
		t.Errorf("y after one step: got %f, want %f", x1[physics.IdxY], v*0.1)
	}
	if x1[physics.IdxVX] != x0[physics.IdxVX] {
		t.Errorf("vx must not change: got %f, want %f", x1[physics.IdxVX], x0[physics.IdxVX])
	}
	if math.Abs(x1[physics.IdxVY]-(v-0.981)) > 1e-12 {
		t.Errorf("vy after one step: got %f, want %f", x1[physics.IdxVY], v-0.981)
	}
}

func TestEulerUsesPreStepVelocity(t *testing.T) {
	dyn := physics.NewProjectile(10)
	integ := NewEuler()

	// y advances with the old vy, not the updated one.
	x := integ.Step(dyn, dynamo.State{0, 0, 0, 1}, nil, 0, 0.5)
	if x[physics.IdxY] != 0.5 {
		t.Errorf("expected y=0.5, got %f", x[physics.IdxY])
	}
	if x[physics.IdxVY] != -4 {
		t.Errorf("expected vy=-4, got %f", x[physics.IdxVY])
	}
}

func TestEulerDoesNotMutateInput(t *testing.T) {
	dyn := physics.NewProjectile(9.81)
	x0 := physics.LaunchState(5, 30)
	before := append(dynamo.State(nil), x0...)

	NewEuler().Step(dyn, x0, nil, 0, 0.1)

	for i := range before {
		if x0[i] != before[i] {
			t.Fatalf("input state mutated at %d: %f != %f", i, x0[i], before[i])
		}
	}
}
