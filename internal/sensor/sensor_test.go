package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesDerivation(t *testing.T) {
	f := Features(60, 4.5, 1.2)

	require.Len(t, f, 5)
	assert.Equal(t, 4.5, f[0])          // электролит
	assert.Equal(t, 270.0, f[1])        // клиренс = 60 * 4.5
	assert.InDelta(t, 324.0, f[2], 1e-9) // эффективность = 270 * 1.2
	assert.Equal(t, 60.0, f[3])         // мочевина
	assert.Equal(t, 1.2, f[4])          // креатинин
}

func TestReadDeterministicWithSeed(t *testing.T) {
	a := NewMicroneedleArray("dev-1", 42)
	b := NewMicroneedleArray("dev-2", 42)

	for i := 0; i < 5; i++ {
		ra, fa, err := a.Read()
		require.NoError(t, err)
		rb, fb, err := b.Read()
		require.NoError(t, err)

		assert.Equal(t, ra, rb, "чтение %d", i)
		assert.Equal(t, fa, fb, "признаки %d", i)
	}
}

func TestReadFeatureVectorConsistency(t *testing.T) {
	a := NewMicroneedleArray("dev-1", 7)

	for i := 0; i < 10; i++ {
		reading, features, err := a.Read()
		require.NoError(t, err)
		require.Len(t, features, 5)

		// Вектор признаков выводится из первичных маркеров показания
		assert.Equal(t, reading.Electrolyte, features[0])
		assert.Equal(t, reading.BUN*reading.Electrolyte, features[1])
		assert.Equal(t, features[1]*reading.Creatinine, features[2])
		assert.Equal(t, reading.BUN, features[3])
		assert.Equal(t, reading.Creatinine, features[4])
	}
}

func TestReadPhysiologicalBounds(t *testing.T) {
	a := NewMicroneedleArray("dev-1", 99)

	for i := 0; i < 50; i++ {
		reading, _, err := a.Read()
		require.NoError(t, err)

		assert.GreaterOrEqual(t, reading.EGFR, MinEGFR)
		assert.Greater(t, reading.Creatinine, 0.0)
		assert.Greater(t, reading.BUN, 0.0)
		assert.Contains(t, conditions, reading.Condition)
	}
}

func TestDeviceID(t *testing.T) {
	a := NewMicroneedleArray("kidney-007", 1)
	assert.Equal(t, "kidney-007", a.DeviceID())
}

func TestSourceInterface(t *testing.T) {
	var _ Source = NewMicroneedleArray("dev", 0)
}
