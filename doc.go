// Package pbcgo provides fixed-radius neighbor search over 3-D points under
// periodic boundary conditions.
//
// Points live in an orthorhombic simulation cell; along each periodic axis a
// point leaving one face reappears at the opposite face, so a query's true
// neighbors may sit on the "other side" of the cell. The Searcher wraps all
// coordinates into the central cell, indexes them in a k-d tree, and answers
// a radius query by also searching from the periodic images of the center
// that the search sphere reaches: up to two centers near a face, four near
// an edge, eight near a corner.
//
// # Quick Start
//
//	s, err := pbcgo.New([]float64{10, 10, 10})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = s.SetCoordinates([][]float64{
//	    {2, 2, 2},
//	    {5, 5, 5},
//	    {11, -11, 11}, // wraps to (1, 9, 1)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ids, err := s.Search([]float64{11, 2, 2}, 1.5)
//	// ids is ascending, duplicate-free; resolve them back into the
//	// caller's own point records by input position.
//
// # Semantics
//
// A box extent that is NaN, infinite, or <= 0 marks that axis as
// non-periodic: coordinates pass through unwrapped and never generate
// images. Results are point positions in SetCoordinates input order,
// ascending and duplicate-free, boundary inclusive (distance <= radius).
// Searches beyond half the smallest periodic box length are clamped to that
// bound, since larger radii are ambiguous under the minimum-image
// convention; the clamp is reported through the configured Logger.
//
// # Concurrency
//
// A built Searcher is read-only: any number of Search, BruteSearch, and
// SearchBatch calls may run concurrently. SetCoordinates builds a fresh
// index and swaps it in atomically, so rebuilding does not disturb
// in-flight searches.
//
// # Snapshots
//
// A built Searcher can be saved with SaveToFile/SaveToWriter and restored
// with NewFromFile/NewFromReader without rebuilding the tree. Snapshots are
// checksummed and optionally compressed (LZ4 or ZSTD).
package pbcgo
