package models

// FeatureVector сырой вектор признаков для пайплайна детекции аномалий
type FeatureVector []float64

// ProjectedVector вектор признаков после стандартизации и проекции
type ProjectedVector []float64

// BiomarkerReading полная панель биомаркеров с микроигольного массива
type BiomarkerReading struct {
	// Первичные маркеры функции почек
	BUN         float64 `json:"bun_level"`         // mg/dL
	Electrolyte float64 `json:"electrolyte_level"` // mEq/L (K+)
	Creatinine  float64 `json:"creatinine_level"`  // mg/dL

	// Расширенная панель
	Albumin    float64 `json:"albumin"`    // g/dL
	Phosphorus float64 `json:"phosphorus"` // mg/dL
	Calcium    float64 `json:"calcium"`    // mg/dL
	Hemoglobin float64 `json:"hemoglobin"` // g/dL
	BloodPH    float64 `json:"blood_ph"`   // pH
	Sodium     float64 `json:"sodium"`     // mEq/L
	Chloride   float64 `json:"chloride"`   // mEq/L
	EGFR       float64 `json:"egfr"`       // mL/min/1.73m²

	// Симулируемое состояние пациента (только для эмуляции)
	Condition string `json:"patient_condition,omitempty"`
}
