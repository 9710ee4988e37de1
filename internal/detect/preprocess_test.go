package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidney_monitor/internal/models"
	"kidney_monitor/internal/refmodel"
)

func scaleModel() *refmodel.ReferenceModel {
	return &refmodel.ReferenceModel{
		Scaler: refmodel.Scaler{
			Mean:  []float64{1, 2, 3},
			Scale: []float64{1, 2, 3},
		},
		PCA: refmodel.Projection{
			Components: [][]float64{
				{1, 0, 0},
				{0, 1, 0},
				{0, 0, 1},
			},
		},
		Clusters: refmodel.ClusterSet{
			Centroids: [][]float64{{0, 0, 0}},
		},
	}
}

func TestTransformMeanMapsToZero(t *testing.T) {
	p := NewPreprocessor(scaleModel())

	out, err := p.Transform(models.FeatureVector{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectedVector{0, 0, 0}, out)
}

func TestTransformStandardizes(t *testing.T) {
	p := NewPreprocessor(scaleModel())

	// (2-1)/1, (4-2)/2, (6-3)/3 → единичный вектор
	out, err := p.Transform(models.FeatureVector{2, 4, 6})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectedVector{1, 1, 1}, out)
}

func TestTransformProjects(t *testing.T) {
	model := scaleModel()
	model.PCA.Components = [][]float64{{1, 1, 1}}

	p := NewPreprocessor(model)

	out, err := p.Transform(models.FeatureVector{2, 4, 6})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 3.0, out[0], 1e-12)
}

func TestTransformDeterministic(t *testing.T) {
	p := NewPreprocessor(scaleModel())

	in := models.FeatureVector{4.2, 1.1, 9.7}
	first, err := p.Transform(in)
	require.NoError(t, err)
	second, err := p.Transform(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTransformShapeMismatch(t *testing.T) {
	p := NewPreprocessor(scaleModel())

	_, err := p.Transform(models.FeatureVector{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = p.Transform(nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
