// internal/risk/scorer.go
package risk

import (
	"errors"
	"fmt"
	"math"

	"kidney_monitor/internal/models"
	"kidney_monitor/pkg/utils"
)

// ErrInvalidReading показания биомаркеров некорректны, оценка пропускается
var ErrInvalidReading = errors.New("невалидные показания биомаркеров")

// Веса подскоров в композитной оценке (клиническая значимость)
const (
	WeightUrea       = 0.25
	WeightCreatinine = 0.35
	WeightEGFR       = 0.30
	WeightAlbumin    = 0.10
)

// Базовые уровни для подскоров
const (
	BUNBaseline        = 20.0 // mg/dL
	CreatinineBaseline = 1.0  // mg/dL
)

// Scorer вычисляет композитную оценку функции почек и классификацию риска.
// Чистое детерминированное вычисление, состояния не имеет.
type Scorer struct{}

// NewScorer создает оценщик риска
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score вычисляет оценку риска по показаниям биомаркеров
func (s *Scorer) Score(reading *models.BiomarkerReading) (*models.RiskAssessment, error) {
	if err := validateReading(reading); err != nil {
		return nil, err
	}

	// Подскоры, каждый ограничен [0, 100]
	ureaScore := utils.Clamp(100-(reading.BUN-BUNBaseline)*2, 0, 100)
	creatinineScore := utils.Clamp(100-(reading.Creatinine-CreatinineBaseline)*30, 0, 100)
	egfrScore := utils.Clamp(reading.EGFR, 0, 100)
	albuminScore := utils.Clamp(reading.Albumin*20, 0, 100)

	score := utils.Round1(ureaScore*WeightUrea +
		creatinineScore*WeightCreatinine +
		egfrScore*WeightEGFR +
		albuminScore*WeightAlbumin)

	level := levelForScore(score)

	return &models.RiskAssessment{
		Score:          score,
		Level:          level,
		Stage:          StageForEGFR(reading.EGFR),
		Recommendation: recommendationFor(level),
		EGFR:           reading.EGFR,
	}, nil
}

// levelForScore отображает композитный скор в уровень риска.
// Границы проверяются сверху вниз: >= 80 LOW, >= 60 MODERATE, >= 40 HIGH, иначе CRITICAL.
func levelForScore(score float64) models.RiskLevel {
	switch {
	case score >= 80:
		return models.RiskLow
	case score >= 60:
		return models.RiskModerate
	case score >= 40:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// StageForEGFR определяет стадию хронической болезни почек по eGFR
func StageForEGFR(egfr float64) string {
	switch {
	case egfr >= 90:
		return "Stage 1 (Normal)"
	case egfr >= 60:
		return "Stage 2 (Mild decrease)"
	case egfr >= 45:
		return "Stage 3a (Moderate decrease)"
	case egfr >= 30:
		return "Stage 3b (Moderate decrease)"
	case egfr >= 15:
		return "Stage 4 (Severe decrease)"
	default:
		return "Stage 5 (Kidney failure)"
	}
}

// recommendationFor фиксированная рекомендация для каждого уровня риска
func recommendationFor(level models.RiskLevel) string {
	switch level {
	case models.RiskLow:
		return "Continue routine monitoring"
	case models.RiskModerate:
		return "Increase monitoring frequency, lifestyle modifications"
	case models.RiskHigh:
		return "Immediate nephrology consultation required"
	default:
		return "Emergency medical intervention needed"
	}
}

// validateReading проверяет, что все поля, участвующие в формулах, числовые.
// Ни одна формула не вычисляется на частично валидных данных.
func validateReading(reading *models.BiomarkerReading) error {
	if reading == nil {
		return fmt.Errorf("%w: nil", ErrInvalidReading)
	}

	fields := map[string]float64{
		"bun":        reading.BUN,
		"creatinine": reading.Creatinine,
		"egfr":       reading.EGFR,
		"albumin":    reading.Albumin,
	}

	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: поле %s не является числом", ErrInvalidReading, name)
		}
	}

	return nil
}
