package rx

import (
	"errors"
	"fmt"
	"math"

	"lensrec-backend/internal/lens"
)

// ErrInvalidPrescription marks prescriptions rejected before any analysis runs.
var ErrInvalidPrescription = errors.New("invalid prescription")

// Eye holds the refraction values for one eye.
type Eye struct {
	Sphere   float64 `json:"sphere"`
	Cylinder float64 `json:"cylinder"`
	Axis     int     `json:"axis"`
}

// Prescription is the structured Rx supplied with an analysis request.
type Prescription struct {
	RightEye          Eye     `json:"rightEye"`
	LeftEye           Eye     `json:"leftEye"`
	AddPower          float64 `json:"addPower,omitempty"`
	PupillaryDistance float64 `json:"pupillaryDistance,omitempty"`
}

// Frame carries the measurements of the selected frame that affect lens choice.
type Frame struct {
	WrapAngle float64 `json:"wrapAngle,omitempty"`
}

const (
	maxSphere   = 20.0
	maxCylinder = 8.0
	maxAdd      = 4.0
	minPD       = 40.0
	maxPD       = 85.0
)

// Validate rejects out-of-range refraction values. A zero prescription is
// valid; plano lenses are a real order.
func (p Prescription) Validate() error {
	for _, pair := range []struct {
		side string
		eye  Eye
	}{{"rightEye", p.RightEye}, {"leftEye", p.LeftEye}} {
		side, eye := pair.side, pair.eye
		if math.Abs(eye.Sphere) > maxSphere {
			return fmt.Errorf("%w: %s sphere %.2f out of range", ErrInvalidPrescription, side, eye.Sphere)
		}
		if math.Abs(eye.Cylinder) > maxCylinder {
			return fmt.Errorf("%w: %s cylinder %.2f out of range", ErrInvalidPrescription, side, eye.Cylinder)
		}
		if eye.Axis < 0 || eye.Axis > 180 {
			return fmt.Errorf("%w: %s axis %d out of range", ErrInvalidPrescription, side, eye.Axis)
		}
		if eye.Cylinder != 0 && eye.Axis == 0 {
			return fmt.Errorf("%w: %s cylinder without axis", ErrInvalidPrescription, side)
		}
	}
	if p.AddPower < 0 || p.AddPower > maxAdd {
		return fmt.Errorf("%w: add power %.2f out of range", ErrInvalidPrescription, p.AddPower)
	}
	if p.PupillaryDistance != 0 && (p.PupillaryDistance < minPD || p.PupillaryDistance > maxPD) {
		return fmt.Errorf("%w: pupillary distance %.1f out of range", ErrInvalidPrescription, p.PupillaryDistance)
	}
	return nil
}

// Category derives the statistics category implied by the prescription.
func (p Prescription) Category() lens.Category {
	if p.AddPower > 0 {
		return lens.CategoryMultifocal
	}
	return lens.CategorySingleVision
}

// MaxCylinder returns the strongest cylinder magnitude across both eyes.
func (p Prescription) MaxCylinder() float64 {
	return math.Max(math.Abs(p.RightEye.Cylinder), math.Abs(p.LeftEye.Cylinder))
}

// MaxSphere returns the strongest sphere magnitude across both eyes.
func (p Prescription) MaxSphere() float64 {
	return math.Max(math.Abs(p.RightEye.Sphere), math.Abs(p.LeftEye.Sphere))
}
