package refmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validModel() *ReferenceModel {
	return &ReferenceModel{
		Scaler: Scaler{
			Mean:  []float64{1, 2},
			Scale: []float64{0.5, 1.5},
		},
		PCA: Projection{
			Components: [][]float64{{1, 0}},
		},
		Clusters: ClusterSet{
			Centroids: [][]float64{{0}, {1}},
		},
	}
}

func TestLoadValidFile(t *testing.T) {
	model, err := Load(filepath.Join("testdata", "reference_model.json"))
	require.NoError(t, err)

	assert.Equal(t, 2, model.InputDim())
	assert.Equal(t, 1, model.Rank())
	assert.Len(t, model.Clusters.Centroids, 3)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "no_such_model.json"))
	assert.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateAcceptsConsistentModel(t *testing.T) {
	assert.NoError(t, validModel().Validate())
}

func TestValidateEmptyMean(t *testing.T) {
	m := validModel()
	m.Scaler.Mean = nil
	assert.ErrorIs(t, m.Validate(), ErrInvalidModel)
}

func TestValidateScaleLengthMismatch(t *testing.T) {
	m := validModel()
	m.Scaler.Scale = []float64{0.5}
	assert.ErrorIs(t, m.Validate(), ErrInvalidModel)
}

func TestValidateZeroScale(t *testing.T) {
	m := validModel()
	m.Scaler.Scale = []float64{0.5, 0}
	assert.ErrorIs(t, m.Validate(), ErrInvalidModel)
}

func TestValidateEmptyProjection(t *testing.T) {
	m := validModel()
	m.PCA.Components = nil
	assert.ErrorIs(t, m.Validate(), ErrInvalidModel)
}

func TestValidateComponentLengthMismatch(t *testing.T) {
	m := validModel()
	m.PCA.Components = [][]float64{{1, 0, 0}}
	assert.ErrorIs(t, m.Validate(), ErrInvalidModel)
}

func TestValidateNoCentroids(t *testing.T) {
	m := validModel()
	m.Clusters.Centroids = nil
	assert.ErrorIs(t, m.Validate(), ErrInvalidModel)
}

func TestValidateCentroidRankMismatch(t *testing.T) {
	m := validModel()
	m.Clusters.Centroids = [][]float64{{0, 1}}
	assert.ErrorIs(t, m.Validate(), ErrInvalidModel)
}

func TestLoadRejectsInconsistentModel(t *testing.T) {
	// Валидация выполняется при загрузке, а не только при явном вызове
	path := filepath.Join(t.TempDir(), "inconsistent.json")
	data := `{"scaler":{"mean":[1,2],"scale":[1,0]},"pca":{"components":[[1,0]]},"clusters":{"centroids":[[0]]}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidModel)
}
