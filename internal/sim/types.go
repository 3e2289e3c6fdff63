package sim

import (
	"fmt"
	"strings"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/physics"
)

// Phase is the lifecycle position of a flight.
type Phase int

const (
	Idle Phase = iota
	Running
	Stopped
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Flight is the mutable record of one run. It is a plain value, so a copy
// is a consistent snapshot.
type Flight struct {
	InitialSpeed float64
	ThrowAngle   float64

	X, Y   float64
	VX, VY float64

	CurrentSpeed float64
	MaxHeight    float64
	MaxSpeed     float64
	Range        float64

	Steps int
	Time  float64
	Phase Phase
}

func (f *Flight) vector() dynamo.State {
	return dynamo.State{f.X, f.Y, f.VX, f.VY}
}

func (f *Flight) apply(x dynamo.State) {
	f.X = x[physics.IdxX]
	f.Y = x[physics.IdxY]
	f.VX = x[physics.IdxVX]
	f.VY = x[physics.IdxVY]
}

// Summary returns the values reported when the flight lands.
func (f Flight) Summary() Summary {
	return Summary{
		InitialSpeed: f.InitialSpeed,
		ThrowAngle:   f.ThrowAngle,
		Range:        f.Range,
		MaxHeight:    f.MaxHeight,
		MaxSpeed:     f.MaxSpeed,
		Steps:        f.Steps,
		FlightTime:   f.Time,
	}
}

type Summary struct {
	InitialSpeed float64 `json:"initial_speed"`
	ThrowAngle   float64 `json:"throw_angle"`
	Range        float64 `json:"range"`
	MaxHeight    float64 `json:"max_height"`
	MaxSpeed     float64 `json:"max_speed"`
	Steps        int     `json:"steps"`
	FlightTime   float64 `json:"flight_time"`
}

// Lines formats the five summary values shown in the completion dialog.
func (s Summary) Lines() []string {
	return []string{
		fmt.Sprintf("Initial speed: %.1f m/s", s.InitialSpeed),
		fmt.Sprintf("Throw angle: %.1f degrees", s.ThrowAngle),
		fmt.Sprintf("Range: %.2f m", s.Range),
		fmt.Sprintf("Maximum height: %.2f m", s.MaxHeight),
		fmt.Sprintf("Maximum speed: %.2f m/s", s.MaxSpeed),
	}
}

func (s Summary) String() string {
	return strings.Join(s.Lines(), "\n")
}

// FormatSpeed renders the live readout value.
func FormatSpeed(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
