package core

// PointID is a dense identifier for a point within a point set: its position
// in the input order passed to SetCoordinates. It is strictly 32-bit,
// allowing for max 4 Billion points per set.
// Used for all hot-path structures (leaf buckets, result bitmaps).
type PointID uint32

// MaxPointID is the maximum possible value for a PointID.
const MaxPointID = ^PointID(0)
