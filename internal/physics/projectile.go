package physics

import (
	"math"

	"github.com/san-kum/projectile/internal/dynamo"
)

const StandardGravity = 9.81

// State vector layout.
const (
	IdxX = iota
	IdxY
	IdxVX
	IdxVY
	StateSize
)

type Projectile struct {
	Gravity float64
}

func NewProjectile(gravity float64) *Projectile {
	return &Projectile{Gravity: gravity}
}

func (p *Projectile) StateDim() int   { return StateSize }
func (p *Projectile) ControlDim() int { return 0 }

// Derive returns [vx, vy, 0, -g]. Horizontal velocity is constant.
func (p *Projectile) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[IdxVX], x[IdxVY], 0, -p.Gravity}
}

// Energy is the specific mechanical energy (per unit mass) of the state.
func (p *Projectile) Energy(x dynamo.State) float64 {
	vx, vy := x[IdxVX], x[IdxVY]
	return 0.5*(vx*vx+vy*vy) + p.Gravity*x[IdxY]
}

// LaunchVelocity splits an initial speed into components for an angle in
// degrees above the horizontal.
func LaunchVelocity(speed, angleDeg float64) (vx, vy float64) {
	rad := angleDeg * math.Pi / 180
	return speed * math.Cos(rad), speed * math.Sin(rad)
}

// LaunchState is the state at t=0: origin with the launch velocity.
func LaunchState(speed, angleDeg float64) dynamo.State {
	vx, vy := LaunchVelocity(speed, angleDeg)
	return dynamo.State{0, 0, vx, vy}
}

// Speed is the magnitude of the velocity components of x.
func Speed(x dynamo.State) float64 {
	return math.Sqrt(x[IdxVX]*x[IdxVX] + x[IdxVY]*x[IdxVY])
}
