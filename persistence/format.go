// Package persistence provides the binary snapshot format: a fixed header,
// an optionally compressed tree payload, and a CRC32 trailer.
package persistence

import "errors"

const (
	// MagicNumber identifies pbcgo snapshot files (ASCII: "PBC1")
	MagicNumber = 0x50424331
	// Version is the current snapshot format version (v1.0.0)
	Version = 0x00010000
)

// FlagHasTree marks snapshots that carry a built tree payload. Snapshots
// taken before the first SetCoordinates carry box and options only.
const FlagHasTree = 1 << 0

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrInvalidCompression = errors.New("invalid compression type")
)

// FileHeader is the 64-byte header at the start of every snapshot file.
type FileHeader struct {
	Magic        uint32 // 0x50424331 ("PBC1")
	Version      uint32 // File format version
	Compression  uint8  // CompressionType of the tree payload
	Padding1     [3]byte
	Flags        uint32     // FlagHasTree et al.
	BoxLengths   [3]float64 // Normalized box extents (zero = non-periodic axis)
	LeafCapacity uint32     // Tree leaf bucket size
	Padding2     [4]byte
	Reserved     [16]byte // Future use
}
