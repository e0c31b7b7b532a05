// Package kdtree provides a balanced three-dimensional k-d tree with bucketed
// leaves and fixed-radius queries. The tree has no notion of periodicity;
// callers that need periodic semantics query it once per periodic image.
package kdtree

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/pbcgo/core"
)

var (
	// ErrEmptyInput is returned when Build is called with no points.
	ErrEmptyInput = errors.New("kdtree: empty point set")

	// ErrNotBuilt is returned when the tree is queried before a successful Build.
	ErrNotBuilt = errors.New("kdtree: not built")
)

// ErrInvalidLeafCapacity indicates a non-positive leaf capacity.
type ErrInvalidLeafCapacity struct {
	LeafCapacity int
}

func (e *ErrInvalidLeafCapacity) Error() string {
	return fmt.Sprintf("invalid leaf capacity: %d", e.LeafCapacity)
}

// Options contains configuration options for the tree.
type Options struct {
	// LeafCapacity is the maximum number of points stored in a leaf bucket.
	// Smaller buckets mean deeper trees with tighter pruning; larger buckets
	// trade depth for linear scans inside the leaves.
	LeafCapacity int
}

// DefaultOptions contains the default configuration options for the tree.
var DefaultOptions = Options{
	LeafCapacity: 10,
}

// leafAxis marks a node as a leaf bucket.
const leafAxis = int8(-1)

// node is one cell of the flattened tree. Internal nodes carry the split
// plane and child indexes; leaves carry a span into the permutation array.
type node struct {
	axis        int8
	split       float64
	left, right int32
	start, end  int32
}

// Result is a single radius query hit.
type Result struct {
	// ID is the dense input-order identifier of the matched point.
	ID core.PointID

	// Distance is the Euclidean distance from the query center.
	Distance float64
}

// Tree is a balanced k-d tree over 3-D points.
//
// A Tree is immutable after Build: concurrent RadiusSearch calls are safe,
// but Build must not run concurrently with queries.
type Tree struct {
	opts  Options
	pts   [][3]float64
	perm  []core.PointID
	nodes []node
	root  int32
	built bool
}

// New creates a new empty tree.
func New(optFns ...func(o *Options)) (*Tree, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.LeafCapacity < 1 {
		return nil, &ErrInvalidLeafCapacity{LeafCapacity: opts.LeafCapacity}
	}

	return &Tree{opts: opts, root: -1}, nil
}

// Len returns the number of indexed points (zero before Build).
func (t *Tree) Len() int { return len(t.pts) }

// LeafCapacity returns the configured leaf bucket size.
func (t *Tree) LeafCapacity() int { return t.opts.LeafCapacity }

// PointAt returns the stored coordinates of the point with the given ID.
// The ID must be less than Len().
func (t *Tree) PointAt(id core.PointID) [3]float64 { return t.pts[id] }

// Build indexes the given points, replacing any previous contents. Points are
// copied into tree-owned storage; later mutation of the caller's slice has no
// effect. Point IDs are positions in the input order.
//
// Build selects the widest-spread axis at every level and splits at the
// median, so the tree is balanced for an expected O(n log n) total cost.
func (t *Tree) Build(points [][3]float64) error {
	if len(points) == 0 {
		return ErrEmptyInput
	}

	if uint64(len(points)) > uint64(core.MaxPointID) {
		return fmt.Errorf("kdtree: point count %d exceeds %d", len(points), core.MaxPointID)
	}

	pts := make([][3]float64, len(points))
	copy(pts, points)

	perm := make([]core.PointID, len(points))
	for i := range perm {
		perm[i] = core.PointID(i)
	}

	t.pts = pts
	t.perm = perm
	t.nodes = make([]node, 0, 2*(len(points)/t.opts.LeafCapacity+1))
	t.root = t.buildRange(0, int32(len(points)))
	t.built = true

	return nil
}

// buildRange builds the subtree over perm[start:end] and returns its node index.
func (t *Tree) buildRange(start, end int32) int32 {
	idx := int32(len(t.nodes))

	if int(end-start) <= t.opts.LeafCapacity {
		t.nodes = append(t.nodes, node{axis: leafAxis, start: start, end: end})
		return idx
	}

	axis, spread := t.widestAxis(start, end)
	if spread == 0 {
		// Every point in the span is identical; splitting cannot help.
		t.nodes = append(t.nodes, node{axis: leafAxis, start: start, end: end})
		return idx
	}

	mid := start + (end-start)/2
	t.selectNth(axis, start, end, mid)

	t.nodes = append(t.nodes, node{axis: int8(axis), split: t.coord(mid, axis)})
	left := t.buildRange(start, mid)
	right := t.buildRange(mid, end)
	t.nodes[idx].left = left
	t.nodes[idx].right = right

	return idx
}

// widestAxis returns the axis with the largest coordinate spread over
// perm[start:end], along with that spread.
func (t *Tree) widestAxis(start, end int32) (int, float64) {
	lo := t.pts[t.perm[start]]
	hi := lo
	for i := start + 1; i < end; i++ {
		p := t.pts[t.perm[i]]
		for ax := 0; ax < 3; ax++ {
			if p[ax] < lo[ax] {
				lo[ax] = p[ax]
			}
			if p[ax] > hi[ax] {
				hi[ax] = p[ax]
			}
		}
	}

	axis, spread := 0, hi[0]-lo[0]
	for ax := 1; ax < 3; ax++ {
		if s := hi[ax] - lo[ax]; s > spread {
			axis, spread = ax, s
		}
	}
	return axis, spread
}

func (t *Tree) coord(i int32, axis int) float64 {
	return t.pts[t.perm[i]][axis]
}

// selectNth partially sorts perm[start:end] by the given axis so that the
// element at k is in its sorted position: everything left of k compares <=
// and everything right compares >= (quickselect).
func (t *Tree) selectNth(axis int, start, end, k int32) {
	for end-start > 1 {
		p := t.partition(axis, start, end)
		switch {
		case k < p:
			end = p
		case k > p:
			start = p + 1
		default:
			return
		}
	}
}

// partition is a Lomuto partition around a median-of-three pivot.
func (t *Tree) partition(axis int, start, end int32) int32 {
	mid := start + (end-start)/2
	last := end - 1

	// Move the median of (start, mid, last) to last as the pivot.
	if t.coord(mid, axis) < t.coord(start, axis) {
		t.swap(mid, start)
	}
	if t.coord(last, axis) < t.coord(start, axis) {
		t.swap(last, start)
	}
	if t.coord(mid, axis) < t.coord(last, axis) {
		t.swap(mid, last)
	}
	pivot := t.coord(last, axis)

	i := start
	for j := start; j < last; j++ {
		if t.coord(j, axis) < pivot {
			t.swap(i, j)
			i++
		}
	}
	t.swap(i, last)
	return i
}

func (t *Tree) swap(i, j int32) {
	t.perm[i], t.perm[j] = t.perm[j], t.perm[i]
}

// RadiusSearch returns every indexed point within radius of center, boundary
// inclusive. Distances are compared squared internally; the square root is
// taken only for reported hits. Result order follows tree traversal; callers
// needing a canonical order must sort.
//
// A negative or NaN radius returns no hits.
func (t *Tree) RadiusSearch(center [3]float64, radius float64) ([]Result, error) {
	if !t.built {
		return nil, ErrNotBuilt
	}

	if radius < 0 {
		return nil, nil
	}
	r2 := radius * radius

	var out []Result

	stack := make([]int32, 0, 64)
	stack = append(stack, t.root)

	for len(stack) > 0 {
		n := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if n.axis == leafAxis {
			for _, id := range t.perm[n.start:n.end] {
				if d2 := dist2(t.pts[id], center); d2 <= r2 {
					out = append(out, Result{ID: id, Distance: math.Sqrt(d2)})
				}
			}
			continue
		}

		// Always descend the near side; the far side only if the search
		// sphere reaches across the split plane.
		d := center[n.axis] - n.split
		if d <= 0 {
			stack = append(stack, n.left)
			if d*d <= r2 {
				stack = append(stack, n.right)
			}
		} else {
			stack = append(stack, n.right)
			if d*d <= r2 {
				stack = append(stack, n.left)
			}
		}
	}

	return out, nil
}

func dist2(p, q [3]float64) float64 {
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	dz := p[2] - q[2]
	return dx*dx + dy*dy + dz*dz
}
