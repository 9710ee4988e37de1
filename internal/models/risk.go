package models

// RiskLevel дискретный уровень риска почечной недостаточности
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Severe возвращает true для уровней, требующих критического алерта
func (r RiskLevel) Severe() bool {
	return r == RiskHigh || r == RiskCritical
}

// RiskAssessment результат оценки функции почек за один цикл
type RiskAssessment struct {
	Score          float64   `json:"kidney_score"` // композитный скор 0-100
	Level          RiskLevel `json:"risk_level"`
	Stage          string    `json:"stage"` // стадия ХБП по eGFR
	Recommendation string    `json:"recommendation"`
	EGFR           float64   `json:"egfr"`
}
