package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(150, 0, 100))
	assert.Equal(t, 42.5, Clamp(42.5, 0, 100))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 40.5, Round1(40.45000001))
	assert.Equal(t, 100.0, Round1(99.99999))
	assert.Equal(t, 79.9, Round1(79.94))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestEuclidean(t *testing.T) {
	assert.Equal(t, 5.0, Euclidean([]float64{0, 0}, []float64{3, 4}))
	assert.Equal(t, 0.0, Euclidean([]float64{1, 2}, []float64{1, 2}))
	assert.True(t, math.IsNaN(Euclidean([]float64{1}, []float64{1, 2})))
}

func TestJensenShannonIdentical(t *testing.T) {
	// Идентичные распределения дают нулевую дистанцию
	assert.InDelta(t, 0.0, JensenShannon([]float64{1, 0}, []float64{1, 0}), 1e-12)
	assert.InDelta(t, 0.0, JensenShannon([]float64{0.3, 0.7}, []float64{0.3, 0.7}), 1e-12)
}

func TestJensenShannonSymmetric(t *testing.T) {
	p := []float64{0.8, 0.2}
	q := []float64{0.1, 0.9}
	assert.InDelta(t, JensenShannon(p, q), JensenShannon(q, p), 1e-12)
}

func TestJensenShannonNormalizesInput(t *testing.T) {
	// Ненормированные векторы приводятся к единичной сумме
	a := JensenShannon([]float64{2, 2}, []float64{1, 0})
	b := JensenShannon([]float64{0.5, 0.5}, []float64{1, 0})
	assert.InDelta(t, a, b, 1e-12)
	assert.Greater(t, a, 0.1)
}

func TestJensenShannonClampsNegatives(t *testing.T) {
	// Отрицательные компоненты обнуляются перед нормировкой
	a := JensenShannon([]float64{1, -3}, []float64{1, 0})
	assert.InDelta(t, 0.0, a, 1e-12)
}

func TestJensenShannonZeroMass(t *testing.T) {
	// Вектор с нулевой массой максимально удалён
	assert.Equal(t, MaxJSDistance, JensenShannon([]float64{-1, -2}, []float64{1, 0}))
	assert.Equal(t, MaxJSDistance, JensenShannon([]float64{0, 0}, []float64{0.5, 0.5}))
}

func TestJensenShannonBounded(t *testing.T) {
	// Дистанция всегда в [0, sqrt(ln 2)]
	cases := [][2][]float64{
		{{1, 0, 0}, {0, 0, 1}},
		{{0.2, 0.3, 0.5}, {0.5, 0.3, 0.2}},
		{{10, 1, 1}, {1, 1, 10}},
	}
	for _, c := range cases {
		d := JensenShannon(c[0], c[1])
		assert.GreaterOrEqual(t, d, 0.0)
		assert.LessOrEqual(t, d, MaxJSDistance+1e-12)
	}
}

func TestSafeFloat(t *testing.T) {
	assert.Equal(t, 0.0, SafeFloat(math.NaN()))
	assert.Equal(t, 0.0, SafeFloat(math.Inf(1)))
	assert.Equal(t, 3.14, SafeFloat(3.14))
}
