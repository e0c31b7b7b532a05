// Package bitmap provides the roaring-backed set used to merge per-image
// query hits into one deduplicated, ascending result.
package bitmap

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pbcgo/core"
)

// ResultBitmap accumulates point IDs across per-image radius queries.
// It wraps a 32-bit Roaring Bitmap: duplicate hits collapse on Add and
// extraction is ascending by construction.
type ResultBitmap struct {
	rb *roaring.Bitmap
}

// New creates a new empty result bitmap.
func New() *ResultBitmap {
	return &ResultBitmap{
		rb: roaring.New(),
	}
}

// Add adds a PointID to the bitmap.
func (b *ResultBitmap) Add(id core.PointID) {
	b.rb.Add(uint32(id))
}

// Contains checks if a PointID is in the bitmap.
func (b *ResultBitmap) Contains(id core.PointID) bool {
	return b.rb.Contains(uint32(id))
}

// IsEmpty returns true if the bitmap is empty.
func (b *ResultBitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Cardinality returns the number of elements in the bitmap.
func (b *ResultBitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// ToPointIDs returns the contents as ascending sorted unique point IDs.
func (b *ResultBitmap) ToPointIDs() []core.PointID {
	arr := b.rb.ToArray()
	ids := make([]core.PointID, len(arr))
	for i, v := range arr {
		ids[i] = core.PointID(v)
	}
	return ids
}
