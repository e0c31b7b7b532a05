package box

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		b, err := New([]float64{10, 20, 30})
		require.NoError(t, err)
		assert.Equal(t, [3]float64{10, 20, 30}, b.Lengths())
		assert.Equal(t, 5.0, b.HalfMinLength())
		assert.True(t, b.Periodic(0))
		assert.True(t, b.Periodic(2))
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		for _, lengths := range [][]float64{nil, {}, {10}, {10, 10}, {10, 10, 10, 10}} {
			_, err := New(lengths)
			require.Error(t, err)

			var dm *ErrDimensionMismatch
			require.ErrorAs(t, err, &dm)
			assert.Equal(t, 3, dm.Expected)
			assert.Equal(t, len(lengths), dm.Actual)
		}
	})

	t.Run("NoPeriodicAxis", func(t *testing.T) {
		for _, lengths := range [][]float64{
			{0, 0, 0},
			{-1, 0, -3},
			{math.NaN(), math.Inf(1), math.Inf(-1)},
		} {
			_, err := New(lengths)
			assert.ErrorIs(t, err, ErrNoPeriodicAxis)
		}
	})

	t.Run("NormalizesNonFinite", func(t *testing.T) {
		b, err := New([]float64{math.NaN(), 10, -5})
		require.NoError(t, err)
		assert.Equal(t, [3]float64{0, 10, 0}, b.Lengths())
		assert.False(t, b.Periodic(0))
		assert.True(t, b.Periodic(1))
		assert.False(t, b.Periodic(2))
		assert.Equal(t, 5.0, b.HalfMinLength())
	})

	t.Run("HalfMinSkipsZeroAxes", func(t *testing.T) {
		b, err := New([]float64{0, 4, 100})
		require.NoError(t, err)
		assert.Equal(t, 2.0, b.HalfMinLength())
	})
}

func TestWrap(t *testing.T) {
	b, err := New([]float64{10, 10, 10})
	require.NoError(t, err)

	t.Run("InsideUnchanged", func(t *testing.T) {
		assert.Equal(t, [3]float64{2, 5, 9.5}, b.Wrap([3]float64{2, 5, 9.5}))
		assert.Equal(t, [3]float64{0, 0, 0}, b.Wrap([3]float64{0, 0, 0}))
	})

	t.Run("AboveUpperFace", func(t *testing.T) {
		assert.Equal(t, [3]float64{1, 2, 3}, b.Wrap([3]float64{11, 2, 3}))
		assert.Equal(t, [3]float64{1, 1, 3}, b.Wrap([3]float64{21, 21, 3}))
	})

	t.Run("Negative", func(t *testing.T) {
		assert.Equal(t, [3]float64{9, 2, 9}, b.Wrap([3]float64{-11, 2, 11}))
		assert.Equal(t, [3]float64{0, 9.5, 1}, b.Wrap([3]float64{-10, -0.5, -39}))
	})

	t.Run("UpperBoundExclusive", func(t *testing.T) {
		got := b.Wrap([3]float64{10, 20, -10})
		assert.Equal(t, [3]float64{0, 0, 0}, got)
	})

	t.Run("Idempotent", func(t *testing.T) {
		for _, p := range [][3]float64{
			{11, -11, 11},
			{-0.3, 99.9, 1e5},
			{2, 2, 2},
		} {
			once := b.Wrap(p)
			assert.Equal(t, once, b.Wrap(once))
		}
	})

	t.Run("TranslationInvariant", func(t *testing.T) {
		p := [3]float64{2.5, 7.25, 0.75}
		for _, n := range []float64{-3, -1, 1, 4} {
			shifted := [3]float64{p[0] + n*10, p[1] + n*10, p[2] + n*10}
			got := b.Wrap(shifted)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, p[i], got[i], 1e-9)
			}
		}
	})

	t.Run("StaysInHalfOpenCell", func(t *testing.T) {
		tiny, err := New([]float64{0.1, 0.1, 0.1})
		require.NoError(t, err)

		for _, p := range [][3]float64{
			{-1e-17, 1e6, -1e6},
			{0.1 - 1e-18, -0.05, 1e5 + 0.0251},
		} {
			got := tiny.Wrap(p)
			for i := 0; i < 3; i++ {
				assert.GreaterOrEqual(t, got[i], 0.0)
				assert.Less(t, got[i], 0.1)
			}
		}
	})

	t.Run("NonPeriodicPassthrough", func(t *testing.T) {
		mixed, err := New([]float64{0, 10, 0})
		require.NoError(t, err)
		assert.Equal(t, [3]float64{-42, 3, 1e5}, mixed.Wrap([3]float64{-42, 13, 1e5}))
	})
}

func TestWrapAll(t *testing.T) {
	b, err := New([]float64{10, 10, 10})
	require.NoError(t, err)

	pts := [][3]float64{{11, -11, 11}, {2, 2, 2}}
	b.WrapAll(pts)
	assert.Equal(t, [3]float64{1, 9, 1}, pts[0])
	assert.Equal(t, [3]float64{2, 2, 2}, pts[1])
}

func TestMinImageDist2(t *testing.T) {
	b, err := New([]float64{10, 10, 10})
	require.NoError(t, err)

	t.Run("Direct", func(t *testing.T) {
		assert.InDelta(t, 3.0, b.MinImageDist2([3]float64{2, 2, 2}, [3]float64{3, 3, 3}), 1e-12)
	})

	t.Run("AcrossFace", func(t *testing.T) {
		// 9.5 and 0.5 are a distance 1 apart through the x face.
		assert.InDelta(t, 1.0, b.MinImageDist2([3]float64{9.5, 5, 5}, [3]float64{0.5, 5, 5}), 1e-12)
	})

	t.Run("AcrossCorner", func(t *testing.T) {
		d2 := b.MinImageDist2([3]float64{9.9, 9.9, 9.9}, [3]float64{0.1, 0.1, 0.1})
		assert.InDelta(t, 3*0.04, d2, 1e-12)
	})

	t.Run("NonPeriodicAxis", func(t *testing.T) {
		mixed, err := New([]float64{10, 0, 10})
		require.NoError(t, err)
		// y is non-periodic: 9 apart stays 9 apart.
		d2 := mixed.MinImageDist2([3]float64{5, 0.5, 5}, [3]float64{5, 9.5, 5})
		assert.InDelta(t, 81.0, d2, 1e-12)
	})

	t.Run("Symmetric", func(t *testing.T) {
		p, q := [3]float64{0.2, 5, 9.8}, [3]float64{9.9, 4, 0.3}
		assert.Equal(t, b.MinImageDist2(p, q), b.MinImageDist2(q, p))
	})
}

func TestCheckCoordinate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, CheckCoordinate([3]float64{0, -1e6, 1e6}))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		err := CheckCoordinate([3]float64{0, 1e6 + 1, 0})
		require.Error(t, err)

		var oor *ErrCoordinateOutOfRange
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, 1, oor.Axis)
		assert.Equal(t, 1e6+1, oor.Value)
	})

	t.Run("NaN", func(t *testing.T) {
		err := CheckCoordinate([3]float64{math.NaN(), 0, 0})
		var oor *ErrCoordinateOutOfRange
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, 0, oor.Axis)
	})
}

func TestCheckCoordinates(t *testing.T) {
	pts := [][3]float64{{1, 2, 3}, {4, 5, -2e6}, {7, 8, 9}}
	err := CheckCoordinates(pts)
	require.Error(t, err)

	var oor *ErrCoordinateOutOfRange
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 2, oor.Axis)
	assert.Contains(t, err.Error(), "point 1")

	assert.NoError(t, CheckCoordinates(pts[:1]))
	assert.NoError(t, CheckCoordinates(nil))
}
