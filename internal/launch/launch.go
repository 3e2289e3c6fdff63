// Package launch validates the two user-supplied launch parameters before a
// flight may start.
package launch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformed marks input that is not a number.
	ErrMalformed = errors.New("launch: malformed number")

	// ErrOutOfRange marks a number outside its inclusive bounds.
	ErrOutOfRange = errors.New("launch: value out of range")
)

type Field string

const (
	FieldSpeed Field = "initial speed"
	FieldAngle Field = "throw angle"
)

// Bounds holds the inclusive limits for both fields.
type Bounds struct {
	SpeedMin float64 `yaml:"speed_min"`
	SpeedMax float64 `yaml:"speed_max"`
	AngleMin float64 `yaml:"angle_min"`
	AngleMax float64 `yaml:"angle_max"`
}

func DefaultBounds() Bounds {
	return Bounds{SpeedMin: 5, SpeedMax: 10, AngleMin: 1, AngleMax: 90}
}

// Params are validated launch values: speed in m/s, angle in degrees.
type Params struct {
	Speed float64
	Angle float64
}

// FieldError reports which field failed and how. Kind is ErrMalformed or
// ErrOutOfRange.
type FieldError struct {
	Field Field
	Input string
	Kind  error
	Min   float64
	Max   float64
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Input, e.Kind)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// Message is the text shown to the user.
func (e *FieldError) Message() string {
	if errors.Is(e.Kind, ErrMalformed) {
		return fmt.Sprintf("%s must be a number, got %q", e.Field, e.Input)
	}
	switch e.Field {
	case FieldSpeed:
		return fmt.Sprintf("Initial speed must be between %g and %g m/s!", e.Min, e.Max)
	default:
		return fmt.Sprintf("Throw angle must be between %g and %g degrees!", e.Min, e.Max)
	}
}

// Title is the dialog title for the error.
func (e *FieldError) Title() string {
	return "Invalid data!"
}

// Parse validates raw field text. Speed is checked first; the first failing
// field is returned and nothing else is inspected.
func Parse(speedText, angleText string, b Bounds) (Params, error) {
	speed, err := parseField(FieldSpeed, speedText, b.SpeedMin, b.SpeedMax)
	if err != nil {
		return Params{}, err
	}
	angle, err := parseField(FieldAngle, angleText, b.AngleMin, b.AngleMax)
	if err != nil {
		return Params{}, err
	}
	return Params{Speed: speed, Angle: angle}, nil
}

// Validate applies the same bounds to already-numeric values.
func Validate(p Params, b Bounds) error {
	if err := checkRange(FieldSpeed, p.Speed, b.SpeedMin, b.SpeedMax); err != nil {
		return err
	}
	return checkRange(FieldAngle, p.Angle, b.AngleMin, b.AngleMax)
}

func parseField(f Field, text string, min, max float64) (float64, error) {
	trimmed := strings.TrimSpace(text)
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &FieldError{Field: f, Input: text, Kind: ErrMalformed, Min: min, Max: max}
	}
	if err := checkRange(f, v, min, max); err != nil {
		return 0, err
	}
	return v, nil
}

func checkRange(f Field, v, min, max float64) error {
	// NaN fails both comparisons, so test for the inside instead.
	if !(v >= min && v <= max) {
		return &FieldError{
			Field: f,
			Input: strconv.FormatFloat(v, 'g', -1, 64),
			Kind:  ErrOutOfRange,
			Min:   min,
			Max:   max,
		}
	}
	return nil
}
