// Package box models an orthorhombic simulation cell with periodic boundary
// conditions: axis-aligned extents, coordinate wrapping into the central
// cell, and minimum-image distances.
package box

import (
	"errors"
	"fmt"
	"math"
)

// MaxCoordinate is the largest coordinate magnitude accepted by the
// CheckCoordinate guards. Larger values cannot be wrapped reliably.
const MaxCoordinate = 1e6

var (
	// ErrNoPeriodicAxis is returned when all box extents normalize to zero.
	ErrNoPeriodicAxis = errors.New("no periodic axis found")
)

// ErrDimensionMismatch indicates a box extents slice of the wrong length.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d box lengths, got %d", e.Expected, e.Actual)
}

// ErrCoordinateOutOfRange indicates a coordinate component outside the
// [-MaxCoordinate, MaxCoordinate] domain (or NaN).
type ErrCoordinateOutOfRange struct {
	Axis  int
	Value float64
}

func (e *ErrCoordinateOutOfRange) Error() string {
	return fmt.Sprintf("coordinate %g on axis %d outside [%g, %g]", e.Value, e.Axis, -float64(MaxCoordinate), float64(MaxCoordinate))
}

// Box is an orthorhombic periodic cell. An extent of zero marks the axis as
// non-periodic: coordinates on that axis pass through wrapping unchanged and
// never generate periodic images.
//
// Box is immutable after New and safe for concurrent use.
type Box struct {
	lengths [3]float64
	halfMin float64
}

// New creates a Box from three axis extents.
//
// Extents that are NaN, infinite, or <= 0 are normalized to zero
// (non-periodic). At least one axis must remain periodic.
func New(lengths []float64) (*Box, error) {
	if len(lengths) != 3 {
		return nil, &ErrDimensionMismatch{Expected: 3, Actual: len(lengths)}
	}

	b := &Box{}
	for i, l := range lengths {
		if math.IsNaN(l) || math.IsInf(l, 0) || l <= 0 {
			continue
		}
		b.lengths[i] = l
		if half := l / 2; b.halfMin == 0 || half < b.halfMin {
			b.halfMin = half
		}
	}

	if b.halfMin == 0 {
		return nil, ErrNoPeriodicAxis
	}

	return b, nil
}

// Lengths returns the normalized axis extents. Zero means non-periodic.
func (b *Box) Lengths() [3]float64 { return b.lengths }

// Periodic reports whether the given axis (0..2) is periodic.
func (b *Box) Periodic(axis int) bool { return b.lengths[axis] > 0 }

// HalfMinLength returns half the smallest periodic extent: the largest search
// radius for which minimum-image results are unambiguous.
func (b *Box) HalfMinLength() float64 { return b.halfMin }

// Wrap maps p into the central cell: each periodic component is folded into
// [0, L) by subtracting the whole number of box lengths; non-periodic
// components pass through unchanged.
//
// Wrap is idempotent and invariant under translation by whole box lengths.
func (b *Box) Wrap(p [3]float64) [3]float64 {
	for i := 0; i < 3; i++ {
		l := b.lengths[i]
		if l == 0 {
			continue
		}
		w := p[i] - math.Floor(p[i]/l)*l
		// Rounding at either face can land exactly on l or just below 0;
		// fold once more so the [0, l) invariant holds.
		if w < 0 {
			w += l
		}
		if w >= l {
			w -= l
		}
		p[i] = w
	}
	return p
}

// WrapAll wraps every point in pts in place.
func (b *Box) WrapAll(pts [][3]float64) {
	for i := range pts {
		pts[i] = b.Wrap(pts[i])
	}
}

// MinImageDist2 returns the squared distance between p and q under the
// minimum-image convention. Both points must already lie in the central cell.
func (b *Box) MinImageDist2(p, q [3]float64) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		d := p[i] - q[i]
		if l := b.lengths[i]; l > 0 {
			if d > l/2 {
				d -= l
			} else if d < -l/2 {
				d += l
			}
		}
		sum += d * d
	}
	return sum
}

// CheckCoordinate validates a single point against the MaxCoordinate domain.
// NaN components fail the check.
func CheckCoordinate(p [3]float64) error {
	for i, v := range p {
		if !(v >= -MaxCoordinate && v <= MaxCoordinate) {
			return &ErrCoordinateOutOfRange{Axis: i, Value: v}
		}
	}
	return nil
}

// CheckCoordinates validates every point in pts, annotating failures with the
// point's position.
func CheckCoordinates(pts [][3]float64) error {
	for i, p := range pts {
		if err := CheckCoordinate(p); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	return nil
}
