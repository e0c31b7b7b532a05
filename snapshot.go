package pbcgo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/pbcgo/box"
	"github.com/hupe1980/pbcgo/kdtree"
	"github.com/hupe1980/pbcgo/persistence"
)

// Snapshot layout: a checksummed FileHeader, an optional compressed tree
// payload (absent when the Searcher was never built), and a CRC32 trailer
// over everything before it.

// SaveToWriter writes a snapshot of the Searcher to w. Runtime-only options
// (logger, metrics) are not persisted; the loader supplies its own.
func (s *Searcher) SaveToWriter(w io.Writer) error {
	start := time.Now()
	err := s.saveToWriter(w)
	s.opts.metricsCollector.RecordSnapshotSave(time.Since(start), err)
	s.opts.logger.LogSnapshotSave(s.Len(), err)
	return err
}

func (s *Searcher) saveToWriter(w io.Writer) error {
	tree := s.tree.Load()

	hdr := persistence.FileHeader{
		Magic:        persistence.MagicNumber,
		Version:      persistence.Version,
		Compression:  uint8(s.opts.snapshotCompression),
		BoxLengths:   s.box.Lengths(),
		LeafCapacity: uint32(s.opts.leafCapacity),
	}
	if tree != nil {
		hdr.Flags |= persistence.FlagHasTree
		hdr.LeafCapacity = uint32(tree.LeafCapacity())
	}

	cw := persistence.NewChecksumWriter(w)
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return err
	}

	if tree != nil {
		var buf bytes.Buffer
		if _, err := tree.WriteTo(&buf); err != nil {
			return translateError(err)
		}
		if err := persistence.WriteBlock(cw, buf.Bytes(), s.opts.snapshotCompression); err != nil {
			return err
		}
	}

	// The trailer itself is not part of the checksummed stream.
	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	_, err := w.Write(trailer[:])
	return err
}

// SaveToFile writes a snapshot to the given path atomically (temp file plus
// rename).
func (s *Searcher) SaveToFile(filename string) error {
	return persistence.SaveToFile(filename, s.SaveToWriter)
}

// NewFromReader restores a Searcher from a snapshot, including the built
// tree, so the loaded instance answers searches without a rebuild. The
// snapshot's leaf capacity wins over any WithLeafCapacity option, since the
// tree payload was built with it; logger, metrics, and snapshot compression
// options apply as usual.
func NewFromReader(r io.Reader, optFns ...Option) (*Searcher, error) {
	opts := applyOptions(optFns)

	start := time.Now()
	s, err := loadSnapshot(r, opts)
	opts.metricsCollector.RecordSnapshotLoad(time.Since(start), err)
	if err != nil {
		opts.logger.LogSnapshotLoad(0, err)
		return nil, err
	}
	opts.logger.LogSnapshotLoad(s.Len(), nil)

	return s, nil
}

// NewFromFile restores a Searcher from a snapshot file.
func NewFromFile(filename string, optFns ...Option) (*Searcher, error) {
	var s *Searcher
	err := persistence.LoadFromFile(filename, func(r io.Reader) error {
		var err error
		s, err = NewFromReader(r, optFns...)
		return err
	})
	return s, err
}

func loadSnapshot(r io.Reader, opts options) (*Searcher, error) {
	cr := persistence.NewChecksumReader(r)

	var hdr persistence.FileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if hdr.Magic != persistence.MagicNumber {
		return nil, persistence.ErrInvalidMagic
	}
	if hdr.Version != persistence.Version {
		return nil, persistence.ErrInvalidVersion
	}
	compression := persistence.CompressionType(hdr.Compression)
	if !compression.Valid() {
		return nil, fmt.Errorf("%w: %d", persistence.ErrInvalidCompression, hdr.Compression)
	}
	if hdr.LeafCapacity < 1 {
		return nil, &ErrInvalidLeafCapacity{LeafCapacity: int(hdr.LeafCapacity)}
	}

	b, err := box.New(hdr.BoxLengths[:])
	if err != nil {
		return nil, &ErrInvalidBox{Lengths: hdr.BoxLengths[:], cause: err}
	}

	opts.leafCapacity = int(hdr.LeafCapacity)
	s := &Searcher{box: b, opts: opts}

	if hdr.Flags&persistence.FlagHasTree != 0 {
		payload, err := persistence.ReadBlock(cr, compression)
		if err != nil {
			return nil, err
		}

		tree, err := kdtree.New(withLeafCapacity(opts.leafCapacity))
		if err != nil {
			return nil, translateError(err)
		}
		if _, err := tree.ReadFrom(bytes.NewReader(payload)); err != nil {
			return nil, translateError(err)
		}

		s.tree.Store(tree)
	}

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return nil, err
	}
	if err := cr.Verify(binary.LittleEndian.Uint32(trailer[:])); err != nil {
		return nil, err
	}

	return s, nil
}
