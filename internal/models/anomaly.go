package models

// Severity тяжесть аномалии
type Severity string

const (
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
)

// AnomalySignal результат оценки одного окна проецированных векторов
type AnomalySignal struct {
	Raised           bool     `json:"raised"`
	FractionExceeded float64  `json:"exceeded_threshold_percentage"` // доля векторов выше порога, [0,1]
	ExceededCount    int      `json:"num_samples_exceeding"`
	TotalSamples     int      `json:"total_samples"`
	Severity         Severity `json:"severity,omitempty"` // имеет смысл только при Raised

	// Диагностика: среднее евклидово расстояние до ближайшего центроида по окну
	MeanCentroidDistance float64 `json:"mean_centroid_distance"`
}
