// internal/detect/detector.go
package detect

import (
	"errors"
	"fmt"
	"math"

	"kidney_monitor/internal/models"
	"kidney_monitor/internal/refmodel"
	"kidney_monitor/pkg/utils"
)

// ErrEmptyWindow защитная проверка: пустое окно не должно возникать
// при корректной работе WindowBuffer
var ErrEmptyWindow = errors.New("пустое окно")

const (
	// DefaultJSThreshold порог JS-дистанции до ближайшего центроида
	DefaultJSThreshold = 0.1

	// DefaultAlertFraction доля окна выше порога для срабатывания алерта
	DefaultAlertFraction = 0.5

	// SeverityHighFraction граница между MODERATE и HIGH тяжестью
	SeverityHighFraction = 0.7
)

// Detector оценивает окна проецированных векторов на аномальность.
// Для каждого вектора берётся минимальная JS-дистанция до центроидов;
// алерт поднимается, когда доля векторов выше порога достигает alertFraction.
type Detector struct {
	model         *refmodel.ReferenceModel
	threshold     float64
	alertFraction float64
}

// NewDetector создает детектор аномалий с заданной политикой алертов
func NewDetector(model *refmodel.ReferenceModel, threshold, alertFraction float64) *Detector {
	return &Detector{
		model:         model,
		threshold:     threshold,
		alertFraction: alertFraction,
	}
}

// Evaluate оценивает одно заполненное окно и возвращает сигнал аномалии
func (d *Detector) Evaluate(window []models.ProjectedVector) (*models.AnomalySignal, error) {
	if len(window) == 0 {
		return nil, ErrEmptyWindow
	}

	centroids := d.model.Clusters.Centroids
	if len(centroids) == 0 {
		return nil, fmt.Errorf("%w: нет центроидов кластеров", refmodel.ErrInvalidModel)
	}

	exceeded := 0
	distanceSum := 0.0

	for _, sample := range window {
		minJS := math.Inf(1)
		minDist := math.Inf(1)

		for _, centroid := range centroids {
			// Евклидово расстояние — только диагностика, не участвует в решении
			if dist := utils.Euclidean(sample, centroid); dist < minDist {
				minDist = dist
			}
			if js := utils.JensenShannon(sample, centroid); js < minJS {
				minJS = js
			}
		}

		distanceSum += minDist
		if minJS > d.threshold {
			exceeded++
		}
	}

	fraction := float64(exceeded) / float64(len(window))

	signal := &models.AnomalySignal{
		Raised:               fraction >= d.alertFraction,
		FractionExceeded:     fraction,
		ExceededCount:        exceeded,
		TotalSamples:         len(window),
		MeanCentroidDistance: distanceSum / float64(len(window)),
	}

	if signal.Raised {
		if fraction > SeverityHighFraction {
			signal.Severity = models.SeverityHigh
		} else {
			signal.Severity = models.SeverityModerate
		}
	}

	return signal, nil
}
