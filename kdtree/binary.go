package kdtree

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/pbcgo/core"
)

// Binary layout: a fixed little-endian header (leaf capacity, point count,
// node count, root), then point coordinates, the permutation array, and the
// node records. Callers should provide buffered readers and writers.

// maxDecodeCount caps decoded point and node counts against corrupt headers.
const maxDecodeCount = 100_000_000

const (
	headerSize      = 4 + 8 + 8 + 4
	pointRecordSize = 3 * 8
	nodeRecordSize  = 1 + 8 + 4*4
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// WriteTo writes the built tree to w in binary format.
//
// It matches the io.WriterTo interface for toolchain friendliness.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	if !t.built {
		return 0, ErrNotBuilt
	}

	cw := &countingWriter{w: w}
	le := binary.LittleEndian

	var hdr [headerSize]byte
	le.PutUint32(hdr[0:4], uint32(t.opts.LeafCapacity))
	le.PutUint64(hdr[4:12], uint64(len(t.pts)))
	le.PutUint64(hdr[12:20], uint64(len(t.nodes)))
	le.PutUint32(hdr[20:24], uint32(t.root))
	if _, err := cw.Write(hdr[:]); err != nil {
		return cw.n, err
	}

	var pb [pointRecordSize]byte
	for _, p := range t.pts {
		le.PutUint64(pb[0:8], math.Float64bits(p[0]))
		le.PutUint64(pb[8:16], math.Float64bits(p[1]))
		le.PutUint64(pb[16:24], math.Float64bits(p[2]))
		if _, err := cw.Write(pb[:]); err != nil {
			return cw.n, err
		}
	}

	for _, id := range t.perm {
		le.PutUint32(pb[0:4], uint32(id))
		if _, err := cw.Write(pb[:4]); err != nil {
			return cw.n, err
		}
	}

	var nb [nodeRecordSize]byte
	for _, n := range t.nodes {
		nb[0] = byte(n.axis)
		le.PutUint64(nb[1:9], math.Float64bits(n.split))
		le.PutUint32(nb[9:13], uint32(n.left))
		le.PutUint32(nb[13:17], uint32(n.right))
		le.PutUint32(nb[17:21], uint32(n.start))
		le.PutUint32(nb[21:25], uint32(n.end))
		if _, err := cw.Write(nb[:]); err != nil {
			return cw.n, err
		}
	}

	return cw.n, nil
}

// ReadFrom reads a tree from r in binary format, replacing any previous
// contents. The decoded structure is validated so that a corrupt stream
// cannot produce out-of-bounds node references.
//
// It matches the io.ReaderFrom interface for toolchain friendliness.
func (t *Tree) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	le := binary.LittleEndian

	var hdr [headerSize]byte
	if _, err := io.ReadFull(cr, hdr[:]); err != nil {
		return cr.n, err
	}

	leafCap := int(le.Uint32(hdr[0:4]))
	pointCount := le.Uint64(hdr[4:12])
	nodeCount := le.Uint64(hdr[12:20])
	root := int32(le.Uint32(hdr[20:24]))

	if leafCap < 1 {
		return cr.n, &ErrInvalidLeafCapacity{LeafCapacity: leafCap}
	}
	if pointCount == 0 {
		return cr.n, ErrEmptyInput
	}
	if pointCount > maxDecodeCount {
		return cr.n, fmt.Errorf("kdtree: point count %d exceeds limit", pointCount)
	}
	if nodeCount == 0 || nodeCount > 2*pointCount {
		return cr.n, fmt.Errorf("kdtree: node count %d out of range", nodeCount)
	}
	if uint64(root) >= nodeCount {
		return cr.n, fmt.Errorf("kdtree: root %d out of range", root)
	}

	pts := make([][3]float64, pointCount)
	var pb [pointRecordSize]byte
	for i := range pts {
		if _, err := io.ReadFull(cr, pb[:]); err != nil {
			return cr.n, fmt.Errorf("kdtree: failed to read points: %w", err)
		}
		pts[i][0] = math.Float64frombits(le.Uint64(pb[0:8]))
		pts[i][1] = math.Float64frombits(le.Uint64(pb[8:16]))
		pts[i][2] = math.Float64frombits(le.Uint64(pb[16:24]))
	}

	perm := make([]core.PointID, pointCount)
	for i := range perm {
		if _, err := io.ReadFull(cr, pb[:4]); err != nil {
			return cr.n, fmt.Errorf("kdtree: failed to read permutation: %w", err)
		}
		id := le.Uint32(pb[0:4])
		if uint64(id) >= pointCount {
			return cr.n, fmt.Errorf("kdtree: permutation entry %d out of range", id)
		}
		perm[i] = core.PointID(id)
	}

	nodes := make([]node, nodeCount)
	var nb [nodeRecordSize]byte
	for i := range nodes {
		if _, err := io.ReadFull(cr, nb[:]); err != nil {
			return cr.n, fmt.Errorf("kdtree: failed to read nodes: %w", err)
		}
		n := node{
			axis:  int8(nb[0]),
			split: math.Float64frombits(le.Uint64(nb[1:9])),
			left:  int32(le.Uint32(nb[9:13])),
			right: int32(le.Uint32(nb[13:17])),
			start: int32(le.Uint32(nb[17:21])),
			end:   int32(le.Uint32(nb[21:25])),
		}
		if err := validateNode(n, int32(i), nodeCount, pointCount); err != nil {
			return cr.n, err
		}
		nodes[i] = n
	}

	t.opts.LeafCapacity = leafCap
	t.pts = pts
	t.perm = perm
	t.nodes = nodes
	t.root = root
	t.built = true

	return cr.n, nil
}

func validateNode(n node, idx int32, nodeCount, pointCount uint64) error {
	if n.axis == leafAxis {
		if n.start < 0 || n.end < n.start || uint64(n.end) > pointCount {
			return fmt.Errorf("kdtree: leaf span [%d, %d) out of range", n.start, n.end)
		}
		return nil
	}
	if n.axis < 0 || n.axis > 2 {
		return fmt.Errorf("kdtree: node axis %d out of range", n.axis)
	}
	// Children always follow their parent, which also rules out cycles.
	if n.left <= idx || uint64(n.left) >= nodeCount || n.right <= idx || uint64(n.right) >= nodeCount {
		return fmt.Errorf("kdtree: node children (%d, %d) out of range", n.left, n.right)
	}
	return nil
}
