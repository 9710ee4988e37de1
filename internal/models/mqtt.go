package models

// PrimaryBiomarkers первичные маркеры в телеметрии
type PrimaryBiomarkers struct {
	BUN         float64 `json:"bun_level"`
	Electrolyte float64 `json:"electrolyte_level"`
	Creatinine  float64 `json:"creatinine_level"`
}

// ExtendedBiomarkers расширенная панель в телеметрии
type ExtendedBiomarkers struct {
	Albumin    float64 `json:"albumin"`
	Phosphorus float64 `json:"phosphorus"`
	Calcium    float64 `json:"calcium"`
	Hemoglobin float64 `json:"hemoglobin"`
	BloodPH    float64 `json:"blood_ph"`
	Sodium     float64 `json:"sodium"`
	Chloride   float64 `json:"chloride"`
	EGFR       float64 `json:"egfr"`
}

// TelemetryMessage рутинная телеметрия: показания + производные признаки
type TelemetryMessage struct {
	DeviceID   string             `json:"device_id"`
	SensorType string             `json:"sensor_type"`
	Primary    PrimaryBiomarkers  `json:"primary_biomarkers"`
	Extended   ExtendedBiomarkers `json:"extended_biomarkers"`
	Features   []float64          `json:"features"`
	Timestamp  int64              `json:"timestamp"`
}

// AssessmentMessage запись оценки риска
type AssessmentMessage struct {
	DeviceID       string  `json:"device_id"`
	AssessmentType string  `json:"assessment_type"`
	Score          float64 `json:"kidney_score"`
	RiskLevel      string  `json:"risk_level"`
	Stage          string  `json:"stage"`
	Recommendation string  `json:"recommendation"`
	EGFR           float64 `json:"egfr"`
	Timestamp      int64   `json:"timestamp"`
}

// AlertMessage алерт: аномалия биомаркеров или критический уровень риска
type AlertMessage struct {
	DeviceID  string `json:"device_id"`
	Alert     string `json:"alert"`
	AlertType string `json:"alert_type"`
	Severity  string `json:"severity"`
	Timestamp int64  `json:"timestamp"`

	// Поля аномалии (alert_type = biomarker_deviation)
	FractionExceeded float64 `json:"exceeded_threshold_percentage,omitempty"`
	ExceededCount    int     `json:"num_samples_exceeding,omitempty"`
	TotalSamples     int     `json:"total_samples,omitempty"`

	// Поля риска (alert_type = risk_level)
	Score          float64 `json:"kidney_score,omitempty"`
	Stage          string  `json:"ckd_stage,omitempty"`
	EGFR           float64 `json:"egfr,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`
}
