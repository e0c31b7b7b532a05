package pbcgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pbcgo/box"
	"github.com/hupe1980/pbcgo/kdtree"
)

var (
	// ErrNotBuilt is returned when Search is called before a successful
	// SetCoordinates.
	ErrNotBuilt = errors.New("not built: call SetCoordinates first")

	// ErrEmptyInput is returned when SetCoordinates is called with no points.
	ErrEmptyInput = errors.New("empty point set")
)

// ErrInvalidBox indicates malformed box extents: the wrong number of values,
// or no periodic axis at all.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidBox struct {
	Lengths []float64
	cause   error
}

func (e *ErrInvalidBox) Error() string {
	return fmt.Sprintf("invalid box %v: %v", e.Lengths, e.cause)
}

func (e *ErrInvalidBox) Unwrap() error { return e.cause }

// ErrDimensionMismatch indicates a point or query center that is not
// 3-dimensional.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrCoordinateOutOfRange indicates a coordinate component outside the
// representable [-box.MaxCoordinate, box.MaxCoordinate] domain, or NaN.
// Index is the offending point's position, or -1 for a query center.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrCoordinateOutOfRange struct {
	Index int
	Axis  int
	Value float64
	cause error
}

func (e *ErrCoordinateOutOfRange) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("center coordinate %g on axis %d out of range", e.Value, e.Axis)
	}
	return fmt.Sprintf("point %d: coordinate %g on axis %d out of range", e.Index, e.Value, e.Axis)
}

func (e *ErrCoordinateOutOfRange) Unwrap() error { return e.cause }

// ErrInvalidRadius indicates a negative or NaN search radius.
type ErrInvalidRadius struct {
	Radius float64
}

func (e *ErrInvalidRadius) Error() string {
	return fmt.Sprintf("invalid radius: %g", e.Radius)
}

// ErrInvalidLeafCapacity indicates a non-positive leaf capacity option.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidLeafCapacity struct {
	LeafCapacity int
	cause        error
}

func (e *ErrInvalidLeafCapacity) Error() string {
	return fmt.Sprintf("invalid leaf capacity: %d", e.LeafCapacity)
}

func (e *ErrInvalidLeafCapacity) Unwrap() error { return e.cause }

// translateError rewraps subpackage errors into the root taxonomy so that
// callers only ever match against pbcgo types.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, kdtree.ErrEmptyInput) {
		return fmt.Errorf("%w: %w", ErrEmptyInput, err)
	}
	if errors.Is(err, kdtree.ErrNotBuilt) {
		return fmt.Errorf("%w: %w", ErrNotBuilt, err)
	}

	var lc *kdtree.ErrInvalidLeafCapacity
	if errors.As(err, &lc) {
		return &ErrInvalidLeafCapacity{LeafCapacity: lc.LeafCapacity, cause: err}
	}
	var bdm *box.ErrDimensionMismatch
	if errors.As(err, &bdm) {
		return &ErrDimensionMismatch{Expected: bdm.Expected, Actual: bdm.Actual, cause: err}
	}
	var oor *box.ErrCoordinateOutOfRange
	if errors.As(err, &oor) {
		return &ErrCoordinateOutOfRange{Index: -1, Axis: oor.Axis, Value: oor.Value, cause: err}
	}

	return err
}
