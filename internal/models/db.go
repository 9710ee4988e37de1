package models

import (
	"time"

	"github.com/google/uuid"
)

// MonitorSession единая таблица сессии мониторинга одного устройства
type MonitorSession struct {
	// Основные идентификаторы
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeviceID string    `json:"device_id" gorm:"type:varchar(100);not null;index"`

	// Метаданные сессии
	StartTime time.Time  `json:"start_time" gorm:"not null;index"`
	EndTime   *time.Time `json:"end_time" gorm:"index"` // null пока сессия активна

	// Временные ряды биомаркеров как аппендабельные JSONB массивы
	BUNData        TimeSeries `json:"bun_data" gorm:"serializer:json;type:jsonb"`
	CreatinineData TimeSeries `json:"creatinine_data" gorm:"serializer:json;type:jsonb"`
	ScoreData      TimeSeries `json:"score_data" gorm:"serializer:json;type:jsonb"` // композитный скор

	// Последняя оценка риска
	LastRiskLevel string  `json:"last_risk_level" gorm:"type:varchar(20)"`
	LastScore     float64 `json:"last_score"`
	LastStage     string  `json:"last_stage" gorm:"type:varchar(50)"`
}

// TimeSeries оптимизированная структура для аппенда
type TimeSeries struct {
	Points   []SeriesPoint `json:"points"`
	LastTime float64       `json:"last_time"`
	Count    int           `json:"count"`
}

// SeriesPoint одна точка данных
type SeriesPoint struct {
	T float64 `json:"t"` // время в секундах от начала сессии
	V float64 `json:"v"` // значение
}

func (MonitorSession) TableName() string {
	return "monitor_sessions"
}

// Alert сохранённый алерт устройства
type Alert struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;index"`
	DeviceID  string    `json:"device_id" gorm:"type:varchar(100);not null;index"`
	AlertType string    `json:"alert_type" gorm:"type:varchar(50);not null"`
	Severity  string    `json:"severity" gorm:"type:varchar(20)"`
	Message   string    `json:"message" gorm:"type:text"`
	Payload   string    `json:"payload" gorm:"type:jsonb"` // исходное MQTT сообщение
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
}

func (Alert) TableName() string {
	return "alerts"
}
