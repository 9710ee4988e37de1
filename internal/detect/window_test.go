package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidney_monitor/internal/models"
)

func TestNewWindowBufferRejectsZero(t *testing.T) {
	_, err := NewWindowBuffer(0)
	assert.Error(t, err)

	_, err = NewWindowBuffer(-1)
	assert.Error(t, err)
}

func TestWindowBufferFillsAndResets(t *testing.T) {
	wb, err := NewWindowBuffer(3)
	require.NoError(t, err)
	assert.Equal(t, 3, wb.Capacity())

	window, full := wb.Push(models.ProjectedVector{1, 0})
	assert.False(t, full)
	assert.Nil(t, window)
	assert.Equal(t, 1, wb.Len())

	window, full = wb.Push(models.ProjectedVector{2, 0})
	assert.False(t, full)
	assert.Equal(t, 2, wb.Len())

	window, full = wb.Push(models.ProjectedVector{3, 0})
	require.True(t, full)
	require.Len(t, window, 3)

	// Порядок поступления сохраняется
	assert.Equal(t, models.ProjectedVector{1, 0}, window[0])
	assert.Equal(t, models.ProjectedVector{2, 0}, window[1])
	assert.Equal(t, models.ProjectedVector{3, 0}, window[2])

	// После выдачи окна буфер пуст
	assert.Equal(t, 0, wb.Len())
}

func TestWindowBufferSizeOne(t *testing.T) {
	wb, err := NewWindowBuffer(1)
	require.NoError(t, err)

	window, full := wb.Push(models.ProjectedVector{7, 7})
	require.True(t, full)
	require.Len(t, window, 1)
	assert.Equal(t, 0, wb.Len())
}

func TestWindowBufferConsecutiveWindows(t *testing.T) {
	wb, err := NewWindowBuffer(2)
	require.NoError(t, err)

	wb.Push(models.ProjectedVector{1, 0})
	first, full := wb.Push(models.ProjectedVector{2, 0})
	require.True(t, full)

	wb.Push(models.ProjectedVector{3, 0})
	second, full := wb.Push(models.ProjectedVector{4, 0})
	require.True(t, full)

	// Окна не пересекаются
	assert.Equal(t, models.ProjectedVector{1, 0}, first[0])
	assert.Equal(t, models.ProjectedVector{3, 0}, second[0])
}
