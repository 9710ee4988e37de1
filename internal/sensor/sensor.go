// internal/sensor/sensor.go
package sensor

import (
	"math"
	"math/rand"

	"kidney_monitor/internal/models"
)

// Source источник показаний: одно чтение BiomarkerReading + FeatureVector за вызов.
// Реализация может быть аппаратной или симулированной; тесты подставляют
// детерминированную последовательность.
type Source interface {
	Read() (*models.BiomarkerReading, models.FeatureVector, error)
}

// Параметры калибровки микроигольного массива
const (
	NoiseFactor = 0.05 // 5% шум сенсора
	MinEGFR     = 10.0
)

// biomarkerRange нормальный и аномальный диапазоны биомаркера
type biomarkerRange struct {
	NormalMin, NormalMax     float64
	AbnormalMin, AbnormalMax float64
}

// Диапазоны биомаркеров для комплексной оценки функции почек
var biomarkerRanges = map[string]biomarkerRange{
	"albumin":    {3.5, 5.0, 1.5, 3.4},   // g/dL
	"phosphorus": {2.5, 4.5, 4.6, 8.0},   // mg/dL
	"calcium":    {8.5, 10.5, 6.0, 8.4},  // mg/dL
	"hemoglobin": {12.0, 16.0, 7.0, 11.9}, // g/dL
	"blood_ph":   {7.35, 7.45, 7.0, 7.34},
	"sodium":     {135, 145, 125, 134}, // mEq/L
	"chloride":   {98, 107, 85, 97},    // mEq/L
}

// Симулируемые состояния пациента
var conditions = []string{"normal", "early_ckd", "advanced_ckd", "esrd"}

// MicroneedleArray симулированный микроигольный сенсорный массив.
// Реализует Source; при фиксированном seed выдаёт воспроизводимую последовательность.
type MicroneedleArray struct {
	deviceID string
	rng      *rand.Rand
}

// NewMicroneedleArray создает симулятор массива с заданным seed
func NewMicroneedleArray(deviceID string, seed int64) *MicroneedleArray {
	return &MicroneedleArray{
		deviceID: deviceID,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// DeviceID идентификатор устройства
func (a *MicroneedleArray) DeviceID() string {
	return a.deviceID
}

// Read симулирует полную панель биохимии крови с микроигольного массива
func (a *MicroneedleArray) Read() (*models.BiomarkerReading, models.FeatureVector, error) {
	condition := conditions[a.rng.Intn(len(conditions))]

	// Первичные маркеры функции почек выводятся из базовых показаний сенсоров
	urea := a.sample("albumin", condition) * 15 // эквивалент BUN
	electrolyte := a.sample("sodium", condition) / 30
	creatinine := a.sample("albumin", condition) * 2

	// Упрощённая оценка eGFR: ~140 / креатинин
	egfr := math.Max(MinEGFR, 140/math.Max(creatinine, 0.5))

	reading := &models.BiomarkerReading{
		BUN:         urea,
		Electrolyte: electrolyte,
		Creatinine:  creatinine,
		Albumin:     a.sample("albumin", condition),
		Phosphorus:  a.sample("phosphorus", condition),
		Calcium:     a.sample("calcium", condition),
		Hemoglobin:  a.sample("hemoglobin", condition),
		BloodPH:     a.sample("blood_ph", condition),
		Sodium:      a.sample("sodium", condition),
		Chloride:    a.sample("chloride", condition),
		EGFR:        math.Round(egfr*10) / 10,
		Condition:   condition,
	}

	return reading, Features(urea, electrolyte, creatinine), nil
}

// sample симулирует одно показание сенсора для биомаркера
func (a *MicroneedleArray) sample(biomarker, condition string) float64 {
	r, ok := biomarkerRanges[biomarker]
	if !ok {
		return 0.0
	}

	min, max := r.NormalMin, r.NormalMax
	if condition != "normal" {
		min, max = r.AbnormalMin, r.AbnormalMax
	}

	reading := min + a.rng.Float64()*(max-min)
	noise := -NoiseFactor + a.rng.Float64()*2*NoiseFactor
	reading *= 1 + noise

	return math.Round(reading*100) / 100
}

// Features собирает вектор признаков для пайплайна аномалий из первичных маркеров
func Features(urea, electrolyte, creatinine float64) models.FeatureVector {
	clearanceRate := urea * electrolyte            // индикатор клиренса мочевины
	dialysisEfficiency := clearanceRate * creatinine

	return models.FeatureVector{electrolyte, clearanceRate, dialysisEfficiency, urea, creatinine}
}
