package persistence

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadBlock(t *testing.T) {
	compressible := bytes.Repeat([]byte("pbcgo-block-0123"), 2048)

	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(ct.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteBlock(&buf, compressible, ct))

			if ct != CompressionNone {
				// Repetitive data must actually shrink.
				assert.Less(t, buf.Len(), len(compressible))
			}

			got, err := ReadBlock(&buf, ct)
			require.NoError(t, err)
			assert.Equal(t, compressible, got)
		})
	}

	t.Run("IncompressibleStoredRaw", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		data := make([]byte, 4096)
		rng.Read(data)

		for _, ct := range []CompressionType{CompressionLZ4, CompressionZSTD} {
			var buf bytes.Buffer
			require.NoError(t, WriteBlock(&buf, data, ct))
			assert.Equal(t, blockHeaderSize+len(data), buf.Len())

			got, err := ReadBlock(&buf, ct)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteBlock(&buf, nil, CompressionZSTD))

		got, err := ReadBlock(&buf, CompressionZSTD)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("InvalidType", func(t *testing.T) {
		var buf bytes.Buffer
		err := WriteBlock(&buf, []byte("x"), CompressionType(99))
		assert.ErrorIs(t, err, ErrInvalidCompression)
	})

	t.Run("Truncated", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteBlock(&buf, compressible, CompressionLZ4))

		raw := buf.Bytes()
		for _, cut := range []int{0, 4, blockHeaderSize, len(raw) - 1} {
			_, err := ReadBlock(bytes.NewReader(raw[:cut]), CompressionLZ4)
			assert.Error(t, err, "cut at %d", cut)
		}
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteBlock(&buf, compressible, CompressionZSTD))

		raw := buf.Bytes()
		raw[blockHeaderSize+2] ^= 0xFF

		_, err := ReadBlock(bytes.NewReader(raw), CompressionZSTD)
		assert.Error(t, err)
	})
}

func TestCompressionType(t *testing.T) {
	assert.True(t, CompressionNone.Valid())
	assert.True(t, CompressionLZ4.Valid())
	assert.True(t, CompressionZSTD.Valid())
	assert.False(t, CompressionType(3).Valid())

	assert.Equal(t, "none", CompressionNone.String())
	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "zstd", CompressionZSTD.String())
	assert.Equal(t, "unknown(7)", CompressionType(7).String())
}

func TestChecksum(t *testing.T) {
	payload := []byte("snapshot payload bytes")

	t.Run("WriterReaderAgree", func(t *testing.T) {
		var buf bytes.Buffer
		cw := NewChecksumWriter(&buf)
		_, err := cw.Write(payload)
		require.NoError(t, err)

		cr := NewChecksumReader(&buf)
		got := make([]byte, len(payload))
		_, err = cr.Read(got)
		require.NoError(t, err)

		assert.Equal(t, payload, got)
		assert.Equal(t, cw.Sum(), cr.Sum())
		assert.NoError(t, cr.Verify(cw.Sum()))
	})

	t.Run("Mismatch", func(t *testing.T) {
		cr := NewChecksumReader(bytes.NewReader(payload))
		_, err := cr.Read(make([]byte, len(payload)))
		require.NoError(t, err)

		err = cr.Verify(0xDEADBEEF)
		require.Error(t, err)

		var mismatch *ChecksumMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, uint32(0xDEADBEEF), mismatch.Expected)
		assert.Equal(t, cr.Sum(), mismatch.Actual)
	})
}

func TestSaveToFile(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.bin")

		require.NoError(t, SaveToFile(path, func(w io.Writer) error {
			_, err := w.Write([]byte("content"))
			return err
		}))

		var got []byte
		require.NoError(t, LoadFromFile(path, func(r io.Reader) error {
			var err error
			got, err = io.ReadAll(r)
			return err
		}))
		assert.Equal(t, []byte("content"), got)
	})

	t.Run("NoTempFileLeftBehind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "snapshot.bin")

		require.NoError(t, SaveToFile(path, func(w io.Writer) error {
			_, err := w.Write([]byte("x"))
			return err
		}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "snapshot.bin", entries[0].Name())
	})

	t.Run("WriteErrorLeavesNoFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "snapshot.bin")

		wantErr := errors.New("boom")
		err := SaveToFile(path, func(w io.Writer) error { return wantErr })
		assert.ErrorIs(t, err, wantErr)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("LoadMissingFile", func(t *testing.T) {
		err := LoadFromFile(filepath.Join(t.TempDir(), "absent.bin"), func(r io.Reader) error { return nil })
		assert.Error(t, err)
	})
}
