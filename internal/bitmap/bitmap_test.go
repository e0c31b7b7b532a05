package bitmap

import (
	"testing"

	"github.com/hupe1980/pbcgo/core"
	"github.com/stretchr/testify/assert"
)

func TestResultBitmap(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		b := New()
		assert.True(t, b.IsEmpty())
		assert.Equal(t, uint64(0), b.Cardinality())
		assert.Empty(t, b.ToPointIDs())
	})

	t.Run("DeduplicatesAndSorts", func(t *testing.T) {
		b := New()
		for _, id := range []core.PointID{42, 7, 42, 0, 7, 1000000} {
			b.Add(id)
		}

		assert.False(t, b.IsEmpty())
		assert.Equal(t, uint64(4), b.Cardinality())
		assert.Equal(t, []core.PointID{0, 7, 42, 1000000}, b.ToPointIDs())
	})

	t.Run("Contains", func(t *testing.T) {
		b := New()
		b.Add(3)

		assert.True(t, b.Contains(3))
		assert.False(t, b.Contains(4))
	})
}
