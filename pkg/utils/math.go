package utils

import (
	"math"
)

// MaxJSDistance максимальное значение JS-дистанции (sqrt(ln 2), натуральный логарифм)
var MaxJSDistance = math.Sqrt(math.Ln2)

func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

// Clamp ограничивает значение диапазоном [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Round1 округляет до одного знака после запятой
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Mean вычисляет среднее значение
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Euclidean вычисляет евклидово расстояние между векторами одинаковой длины
func Euclidean(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.NaN()
	}

	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// JensenShannon вычисляет JS-дистанцию (корень из JS-дивергенции) между векторами.
// Векторы приводятся к вероятностным распределениям: отрицательные компоненты
// обнуляются, затем вектор нормируется на единичную сумму. Вектор с нулевой
// массой после обнуления считается максимально удалённым.
func JensenShannon(p, q []float64) float64 {
	if len(p) != len(q) {
		return math.NaN()
	}

	pn := normalizeDistribution(p)
	qn := normalizeDistribution(q)
	if pn == nil || qn == nil {
		return MaxJSDistance
	}

	div := 0.0
	for i := range pn {
		m := 0.5 * (pn[i] + qn[i])
		if pn[i] > 0 {
			div += 0.5 * pn[i] * math.Log(pn[i]/m)
		}
		if qn[i] > 0 {
			div += 0.5 * qn[i] * math.Log(qn[i]/m)
		}
	}

	// Численный шум может дать слегка отрицательную дивергенцию
	if div < 0 {
		div = 0
	}
	return math.Sqrt(div)
}

// normalizeDistribution обнуляет отрицательные компоненты и нормирует сумму к 1.
// Возвращает nil, если после обнуления масса вектора нулевая.
func normalizeDistribution(v []float64) []float64 {
	sum := 0.0
	out := make([]float64, len(v))
	for i, x := range v {
		if x > 0 && !math.IsNaN(x) && !math.IsInf(x, 0) {
			out[i] = x
			sum += x
		}
	}

	if sum <= 0 {
		return nil
	}

	for i := range out {
		out[i] /= sum
	}
	return out
}
