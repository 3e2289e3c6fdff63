package metrics

import (
	"math"

	"github.com/san-kum/projectile/internal/sim"
)

// Reference holds the closed-form values of a drag-free throw from ground
// level, against which stepped runs are compared.
type Reference struct {
	Range       float64
	MaxHeight   float64
	FlightTime  float64
	ImpactSpeed float64
}

func Ideal(speed, angleDeg, gravity float64) Reference {
	rad := angleDeg * math.Pi / 180
	vy := speed * math.Sin(rad)
	return Reference{
		Range:       speed * speed * math.Sin(2*rad) / gravity,
		MaxHeight:   vy * vy / (2 * gravity),
		FlightTime:  2 * vy / gravity,
		ImpactSpeed: speed,
	}
}

// Deviation is summary minus reference, component by component.
type Deviation struct {
	Range      float64
	MaxHeight  float64
	FlightTime float64
	MaxSpeed   float64
}

func Compare(s sim.Summary, ref Reference) Deviation {
	return Deviation{
		Range:      s.Range - ref.Range,
		MaxHeight:  s.MaxHeight - ref.MaxHeight,
		FlightTime: s.FlightTime - ref.FlightTime,
		MaxSpeed:   s.MaxSpeed - ref.ImpactSpeed,
	}
}

// RelativeRange is the range error as a fraction of the ideal range.
func (d Deviation) RelativeRange(ref Reference) float64 {
	if ref.Range == 0 {
		return 0
	}
	return d.Range / ref.Range
}
