package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidney_monitor/internal/models"
	"kidney_monitor/internal/refmodel"
)

// testModel референсная модель с единичной проекцией и одним центроидом [1, 0].
// JS-дистанция от [1,0] до центроида равна 0, от [0.5,0.5] — примерно 0.46.
func testModel() *refmodel.ReferenceModel {
	return &refmodel.ReferenceModel{
		Scaler: refmodel.Scaler{
			Mean:  []float64{0, 0},
			Scale: []float64{1, 1},
		},
		PCA: refmodel.Projection{
			Components: [][]float64{{1, 0}, {0, 1}},
		},
		Clusters: refmodel.ClusterSet{
			Centroids: [][]float64{{1, 0}},
		},
	}
}

func TestEvaluateHalfWindowRaisesModerate(t *testing.T) {
	d := NewDetector(testModel(), DefaultJSThreshold, DefaultAlertFraction)

	window := []models.ProjectedVector{
		{1, 0}, {1, 0}, {0.5, 0.5}, {0.5, 0.5},
	}

	signal, err := d.Evaluate(window)
	require.NoError(t, err)

	assert.True(t, signal.Raised)
	assert.Equal(t, 0.5, signal.FractionExceeded)
	assert.Equal(t, 2, signal.ExceededCount)
	assert.Equal(t, 4, signal.TotalSamples)
	assert.Equal(t, models.SeverityModerate, signal.Severity)
}

func TestEvaluateFullWindowRaisesHigh(t *testing.T) {
	d := NewDetector(testModel(), DefaultJSThreshold, DefaultAlertFraction)

	window := []models.ProjectedVector{
		{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5},
	}

	signal, err := d.Evaluate(window)
	require.NoError(t, err)

	assert.True(t, signal.Raised)
	assert.Equal(t, 1.0, signal.FractionExceeded)
	assert.Equal(t, models.SeverityHigh, signal.Severity)
}

func TestEvaluateThreeOfFourRaisesHigh(t *testing.T) {
	// 0.75 выше границы тяжести 0.7
	d := NewDetector(testModel(), DefaultJSThreshold, DefaultAlertFraction)

	window := []models.ProjectedVector{
		{1, 0}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5},
	}

	signal, err := d.Evaluate(window)
	require.NoError(t, err)

	assert.True(t, signal.Raised)
	assert.Equal(t, 0.75, signal.FractionExceeded)
	assert.Equal(t, models.SeverityHigh, signal.Severity)
}

func TestEvaluateNormalWindowNotRaised(t *testing.T) {
	d := NewDetector(testModel(), DefaultJSThreshold, DefaultAlertFraction)

	window := []models.ProjectedVector{
		{1, 0}, {1, 0}, {1, 0}, {1, 0},
	}

	signal, err := d.Evaluate(window)
	require.NoError(t, err)

	assert.False(t, signal.Raised)
	assert.Equal(t, 0.0, signal.FractionExceeded)
	assert.Equal(t, 0, signal.ExceededCount)
	assert.Empty(t, signal.Severity)
	assert.Equal(t, 0.0, signal.MeanCentroidDistance)
}

func TestEvaluateOneOfFourBelowAlertFraction(t *testing.T) {
	d := NewDetector(testModel(), DefaultJSThreshold, DefaultAlertFraction)

	window := []models.ProjectedVector{
		{1, 0}, {1, 0}, {1, 0}, {0.5, 0.5},
	}

	signal, err := d.Evaluate(window)
	require.NoError(t, err)

	assert.False(t, signal.Raised)
	assert.Equal(t, 0.25, signal.FractionExceeded)
	assert.Equal(t, 1, signal.ExceededCount)
}

func TestEvaluateEmptyWindow(t *testing.T) {
	d := NewDetector(testModel(), DefaultJSThreshold, DefaultAlertFraction)

	_, err := d.Evaluate(nil)
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

func TestEvaluateNoCentroids(t *testing.T) {
	model := testModel()
	model.Clusters.Centroids = nil

	d := NewDetector(model, DefaultJSThreshold, DefaultAlertFraction)
	_, err := d.Evaluate([]models.ProjectedVector{{1, 0}})
	assert.ErrorIs(t, err, refmodel.ErrInvalidModel)
}

func TestEvaluatePicksNearestCentroid(t *testing.T) {
	// Вектор совпадает со вторым центроидом: минимальная дистанция нулевая
	model := testModel()
	model.Clusters.Centroids = [][]float64{{1, 0}, {0.5, 0.5}}

	d := NewDetector(model, DefaultJSThreshold, DefaultAlertFraction)

	signal, err := d.Evaluate([]models.ProjectedVector{{0.5, 0.5}})
	require.NoError(t, err)

	assert.False(t, signal.Raised)
	assert.Equal(t, 0, signal.ExceededCount)
}
