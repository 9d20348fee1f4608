package excel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WorkingRobot/Lumina/core/errors"
	"github.com/WorkingRobot/Lumina/core/excel"
)

func TestSubrowSheetGet(t *testing.T) {
	m := newTestModule(t)
	s, err := excel.OpenSubrowSheet[foodRow](m)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, uint32(5), s.TotalSubrowCount())

	c, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), c.RowID())
	assert.Equal(t, uint16(3), c.Count())

	for i := uint16(0); i < c.Count(); i++ {
		row, err := c.At(i)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), row.ID)
		assert.Equal(t, i, row.Sub)
		assert.Equal(t, 200+uint32(i), row.Value)
	}

	_, err = c.At(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSubrowNotFound)
}

func TestSubrowSheetZeroSubrows(t *testing.T) {
	m := newTestModule(t)
	s, err := excel.OpenSubrowSheet[foodRow](m)
	require.NoError(t, err)

	// Row 1 is indexed with zero subrows: present in the file, absent to
	// consumers.
	assert.False(t, s.HasRow(1))
	_, err = s.Get(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRowNotFound)

	c := s.GetOrDefault(1)
	assert.Equal(t, uint16(0), c.Count())
	_, err = c.At(0)
	assert.Error(t, err)
}

func TestSubrowSheetGetSubrow(t *testing.T) {
	m := newTestModule(t)
	s, err := excel.OpenSubrowSheet[foodRow](m)
	require.NoError(t, err)

	row, err := s.GetSubrow(0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), row.Value)

	_, err = s.GetSubrow(0, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSubrowNotFound)

	_, err = s.GetSubrow(5, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRowNotFound)
}

func TestSubrowSheetGetAt(t *testing.T) {
	m := newTestModule(t)
	s, err := excel.OpenSubrowSheet[foodRow](m)
	require.NoError(t, err)

	c, err := s.GetAt(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), c.RowID())

	_, err = s.GetAt(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
}

func TestSubrowSheetIteration(t *testing.T) {
	m := newTestModule(t)
	s, err := excel.OpenSubrowSheet[foodRow](m)
	require.NoError(t, err)

	type pair struct {
		row uint32
		sub uint16
	}
	var got []pair
	it := s.Subrows()
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, pair{row.ID, row.Sub})
	}

	// Zero-subrow row 1 is skipped entirely.
	want := []pair{{0, 0}, {0, 1}, {2, 0}, {2, 1}, {2, 2}}
	assert.Equal(t, want, got)
}

func TestSubrowVariantGuard(t *testing.T) {
	m := newTestModule(t)

	// itemRow targets a flat sheet; the subrow facade refuses it.
	_, err := excel.OpenSubrowSheet[itemRow](m)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedVariant)
}

func TestCachedSubrowIdentity(t *testing.T) {
	m := newTestModule(t)
	s, err := excel.OpenSubrowSheet[*cachedFoodRow](m)
	require.NoError(t, err)

	a, err := s.GetSubrow(2, 1)
	require.NoError(t, err)
	b, err := s.GetSubrow(2, 1)
	require.NoError(t, err)
	assert.Same(t, a, b)

	// Neighboring subrows occupy their own flat-cache slots.
	c, err := s.GetSubrow(2, 0)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, uint32(200), c.Value)

	// The iterator publishes into the same slots.
	it := s.Subrows()
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		if row.ID == 2 && row.Sub == 1 {
			assert.Same(t, a, row)
		}
	}
}
