package pbcgo

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pbcgo/box"
	"github.com/hupe1980/pbcgo/core"
	"github.com/hupe1980/pbcgo/internal/bitmap"
	"github.com/hupe1980/pbcgo/kdtree"
)

// Searcher performs periodic-aware fixed-radius neighbor searches over a
// static set of 3-D points.
//
// A Searcher starts unbuilt; SetCoordinates wraps the point set into the
// central cell and builds the spatial index. The built index is never
// mutated, so searches are safe to run concurrently. Calling SetCoordinates
// again indexes a new point set and swaps it in atomically: in-flight
// searches keep their consistent view of the previous one.
type Searcher struct {
	box  *box.Box
	opts options
	tree atomic.Pointer[kdtree.Tree]
}

// New creates a Searcher for a cell with the given three axis extents.
//
// Extents that are NaN, infinite, or <= 0 mark the axis as non-periodic; at
// least one axis must remain periodic.
func New(lengths []float64, optFns ...Option) (*Searcher, error) {
	opts := applyOptions(optFns)

	b, err := box.New(lengths)
	if err != nil {
		return nil, &ErrInvalidBox{Lengths: lengths, cause: err}
	}

	// Validate the leaf capacity here so a bad option fails at construction
	// instead of at the first build.
	if _, err := kdtree.New(withLeafCapacity(opts.leafCapacity)); err != nil {
		return nil, translateError(err)
	}

	return &Searcher{box: b, opts: opts}, nil
}

func withLeafCapacity(leafCapacity int) func(o *kdtree.Options) {
	return func(o *kdtree.Options) {
		o.LeafCapacity = leafCapacity
	}
}

// Box returns the Searcher's cell. The Box is immutable.
func (s *Searcher) Box() *box.Box { return s.box }

// Len returns the number of indexed points, zero before the first
// SetCoordinates.
func (s *Searcher) Len() int {
	tree := s.tree.Load()
	if tree == nil {
		return 0
	}
	return tree.Len()
}

// Stats returns statistics about the underlying tree. The zero value is
// returned before the first SetCoordinates.
func (s *Searcher) Stats() kdtree.Stats {
	tree := s.tree.Load()
	if tree == nil {
		return kdtree.Stats{}
	}
	return tree.GetStats()
}

// SetCoordinates wraps the given points into the central cell and indexes
// them, replacing any previously indexed point set. Point identities are
// positions in the input order.
//
// Every point must have exactly three coordinates, each within
// [-box.MaxCoordinate, box.MaxCoordinate]. The input is copied; the caller's
// slices are never retained. On error the previous index, if any, stays in
// place.
func (s *Searcher) SetCoordinates(points [][]float64) error {
	start := time.Now()
	err := s.setCoordinates(points)
	s.opts.metricsCollector.RecordBuild(len(points), time.Since(start), err)
	s.opts.logger.LogBuild(len(points), err)
	return err
}

func (s *Searcher) setCoordinates(points [][]float64) error {
	if len(points) == 0 {
		return ErrEmptyInput
	}

	pts := make([][3]float64, len(points))
	for i, p := range points {
		if len(p) != 3 {
			return &ErrDimensionMismatch{Expected: 3, Actual: len(p)}
		}
		pts[i] = [3]float64{p[0], p[1], p[2]}
	}

	for i, p := range pts {
		if err := box.CheckCoordinate(p); err != nil {
			return asOutOfRange(err, i)
		}
	}

	s.box.WrapAll(pts)

	tree, err := kdtree.New(withLeafCapacity(s.opts.leafCapacity))
	if err != nil {
		return translateError(err)
	}
	if err := tree.Build(pts); err != nil {
		return translateError(err)
	}

	s.tree.Store(tree)

	return nil
}

// Search returns the indices of all points within radius of center under
// the minimum-image convention, ascending and duplicate-free, boundary
// inclusive.
//
// The center is wrapped into the central cell; the index is then queried
// once from the wrapped center and once from every periodic image the
// search sphere reaches, and the per-image hits are merged. A radius larger
// than half the smallest periodic box length is clamped to that bound (and
// the clamp logged), since beyond it minimum-image results are ambiguous.
func (s *Searcher) Search(center []float64, radius float64) ([]core.PointID, error) {
	start := time.Now()
	ids, images, err := s.search(center, radius)
	s.opts.metricsCollector.RecordSearch(images, len(ids), time.Since(start), err)
	s.opts.logger.LogSearch(radius, images, len(ids), err)
	return ids, err
}

func (s *Searcher) search(center []float64, radius float64) ([]core.PointID, int, error) {
	tree := s.tree.Load()
	if tree == nil {
		return nil, 0, ErrNotBuilt
	}

	c, err := s.checkCenter(center)
	if err != nil {
		return nil, 0, err
	}
	radius, err = s.checkRadius(radius)
	if err != nil {
		return nil, 0, err
	}

	wrapped := s.box.Wrap(c)
	images := s.box.QueryImages(wrapped, radius)

	// A point near several flagged faces is reachable from more than one
	// image; the bitmap collapses duplicates and yields ascending IDs.
	rb := bitmap.New()
	for _, img := range images {
		hits, err := tree.RadiusSearch(img, radius)
		if err != nil {
			return nil, len(images), translateError(err)
		}
		for _, hit := range hits {
			rb.Add(hit.ID)
		}
	}

	return rb.ToPointIDs(), len(images), nil
}

// BruteSearch returns the same result as Search via a linear scan over all
// indexed points using minimum-image distances. It shares Search's
// validation, radius clamp, and sorted-unique contract, and serves as the
// verification oracle for the tree-backed path.
func (s *Searcher) BruteSearch(center []float64, radius float64) ([]core.PointID, error) {
	tree := s.tree.Load()
	if tree == nil {
		return nil, ErrNotBuilt
	}

	c, err := s.checkCenter(center)
	if err != nil {
		return nil, err
	}
	radius, err = s.checkRadius(radius)
	if err != nil {
		return nil, err
	}

	wrapped := s.box.Wrap(c)
	r2 := radius * radius

	// Like Search, the result is never nil, just empty.
	ids := make([]core.PointID, 0)
	for i := 0; i < tree.Len(); i++ {
		id := core.PointID(i)
		if s.box.MinImageDist2(wrapped, tree.PointAt(id)) <= r2 {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// SearchBatch runs one Search per center, fanned out across GOMAXPROCS
// goroutines. results[i] corresponds to centers[i]. The first failing
// search cancels the rest; ctx cancellation aborts the remaining searches
// with ctx.Err().
func (s *Searcher) SearchBatch(ctx context.Context, centers [][]float64, radius float64) ([][]core.PointID, error) {
	results := make([][]core.PointID, len(centers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, center := range centers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			ids, err := s.Search(center, radius)
			if err != nil {
				return err
			}
			results[i] = ids

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// checkCenter validates a query center's shape and numeric domain.
func (s *Searcher) checkCenter(center []float64) ([3]float64, error) {
	if len(center) != 3 {
		return [3]float64{}, &ErrDimensionMismatch{Expected: 3, Actual: len(center)}
	}

	c := [3]float64{center[0], center[1], center[2]}
	if err := box.CheckCoordinate(c); err != nil {
		return [3]float64{}, asOutOfRange(err, -1)
	}

	return c, nil
}

// checkRadius rejects negative and NaN radii and clamps the rest to half
// the smallest periodic box length.
func (s *Searcher) checkRadius(radius float64) (float64, error) {
	if math.IsNaN(radius) || radius < 0 {
		return 0, &ErrInvalidRadius{Radius: radius}
	}

	if limit := s.box.HalfMinLength(); radius > limit {
		s.opts.logger.LogRadiusClamp(radius, limit)
		return limit, nil
	}

	return radius, nil
}

// asOutOfRange lifts a box coordinate-range error into the root taxonomy,
// attaching the point's position (-1 for query centers).
func asOutOfRange(err error, index int) error {
	var oor *box.ErrCoordinateOutOfRange
	if errors.As(err, &oor) {
		return &ErrCoordinateOutOfRange{Index: index, Axis: oor.Axis, Value: oor.Value, cause: err}
	}
	return err
}
