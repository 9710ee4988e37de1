// internal/monitor/loop.go
package monitor

import (
	"context"
	"log"
	"time"

	"kidney_monitor/internal/detect"
	"kidney_monitor/internal/models"
	"kidney_monitor/internal/risk"
	"kidney_monitor/internal/sensor"
)

// Sink приёмник уведомлений: три вида сообщений ядра.
// Доставка fire-and-forget: ошибка доставки логируется и не прерывает цикл.
type Sink interface {
	PublishTelemetry(msg *models.TelemetryMessage) error
	PublishAssessment(msg *models.AssessmentMessage) error
	PublishAlert(msg *models.AlertMessage) error
}

// Monitor цикл выборки: одно показание за цикл, оценка риска каждый цикл,
// детекция аномалий при заполнении окна. Все зависимости передаются явно.
type Monitor struct {
	deviceID string
	source   sensor.Source
	sink     Sink

	preprocessor *detect.Preprocessor
	window       *detect.WindowBuffer
	detector     *detect.Detector
	scorer       *risk.Scorer

	interval time.Duration
}

// New создает монитор с явными зависимостями
func New(
	deviceID string,
	source sensor.Source,
	sink Sink,
	preprocessor *detect.Preprocessor,
	window *detect.WindowBuffer,
	detector *detect.Detector,
	scorer *risk.Scorer,
	interval time.Duration,
) *Monitor {
	return &Monitor{
		deviceID:     deviceID,
		source:       source,
		sink:         sink,
		preprocessor: preprocessor,
		window:       window,
		detector:     detector,
		scorer:       scorer,
		interval:     interval,
	}
}

// Run запускает цикл мониторинга до отмены контекста.
// Сигнал остановки проверяется только между циклами.
func (m *Monitor) Run(ctx context.Context) error {
	log.Printf("🚀 Мониторинг устройства %s запущен (интервал %s)", m.deviceID, m.interval)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Цикл мониторинга остановлен")
			return ctx.Err()
		case <-timer.C:
		}

		m.Cycle()
		timer.Reset(m.interval)
	}
}

// Cycle выполняет один цикл выборки. Ошибки цикла логируются и не
// прерывают мониторинг; частично заполненное окно при этом сохраняется.
func (m *Monitor) Cycle() {
	reading, features, err := m.source.Read()
	if err != nil {
		log.Printf("❌ Ошибка чтения сенсора: %v", err)
		return
	}

	now := time.Now().Unix()

	// Телеметрия отправляется каждый цикл
	telemetry := &models.TelemetryMessage{
		DeviceID:   m.deviceID,
		SensorType: "microneedle_array",
		Primary: models.PrimaryBiomarkers{
			BUN:         reading.BUN,
			Electrolyte: reading.Electrolyte,
			Creatinine:  reading.Creatinine,
		},
		Extended: models.ExtendedBiomarkers{
			Albumin:    reading.Albumin,
			Phosphorus: reading.Phosphorus,
			Calcium:    reading.Calcium,
			Hemoglobin: reading.Hemoglobin,
			BloodPH:    reading.BloodPH,
			Sodium:     reading.Sodium,
			Chloride:   reading.Chloride,
			EGFR:       reading.EGFR,
		},
		Features:  features,
		Timestamp: now,
	}
	if err := m.sink.PublishTelemetry(telemetry); err != nil {
		log.Printf("⚠️ Не удалось отправить телеметрию: %v", err)
	}

	// Оценка риска независима от пайплайна аномалий
	m.assessRisk(reading, now)

	// Пайплайн аномалий: препроцессинг → окно → детекция
	m.detectAnomaly(features, now)
}

// assessRisk оценивает риск и публикует результат; при критическом уровне — алерт
func (m *Monitor) assessRisk(reading *models.BiomarkerReading, now int64) {
	assessment, err := m.scorer.Score(reading)
	if err != nil {
		log.Printf("⚠️ Оценка риска пропущена: %v", err)
		return
	}

	msg := &models.AssessmentMessage{
		DeviceID:       m.deviceID,
		AssessmentType: "kidney_function_analysis",
		Score:          assessment.Score,
		RiskLevel:      string(assessment.Level),
		Stage:          assessment.Stage,
		Recommendation: assessment.Recommendation,
		EGFR:           assessment.EGFR,
		Timestamp:      now,
	}
	if err := m.sink.PublishAssessment(msg); err != nil {
		log.Printf("⚠️ Не удалось отправить оценку риска: %v", err)
	}

	if assessment.Level.Severe() {
		alert := &models.AlertMessage{
			DeviceID:       m.deviceID,
			Alert:          "Critical Kidney Function Alert - " + string(assessment.Level) + " Risk",
			AlertType:      "risk_level",
			Severity:       string(assessment.Level),
			Score:          assessment.Score,
			Stage:          assessment.Stage,
			EGFR:           assessment.EGFR,
			Recommendation: assessment.Recommendation,
			Timestamp:      now,
		}
		if err := m.sink.PublishAlert(alert); err != nil {
			log.Printf("⚠️ Не удалось отправить критический алерт: %v", err)
		}
	}
}

// detectAnomaly прогоняет вектор через препроцессор и окно;
// при заполнении окна выполняет детекцию и публикует алерт при срабатывании
func (m *Monitor) detectAnomaly(features models.FeatureVector, now int64) {
	projected, err := m.preprocessor.Transform(features)
	if err != nil {
		// Показание отбрасывается, окно не меняется
		log.Printf("⚠️ Препроцессинг пропущен: %v", err)
		return
	}

	window, full := m.window.Push(projected)
	if !full {
		return
	}

	signal, err := m.detector.Evaluate(window)
	if err != nil {
		log.Printf("❌ Детекция аномалий не выполнена: %v", err)
		return
	}

	if !signal.Raised {
		log.Printf("Аномалий не обнаружено: %d из %d выше порога",
			signal.ExceededCount, signal.TotalSamples)
		return
	}

	log.Printf("🚨 Обнаружена аномалия биомаркеров: %d из %d выше порога, тяжесть %s",
		signal.ExceededCount, signal.TotalSamples, signal.Severity)

	alert := &models.AlertMessage{
		DeviceID:         m.deviceID,
		Alert:            "Kidney Function Anomaly Detected",
		AlertType:        "biomarker_deviation",
		Severity:         string(signal.Severity),
		FractionExceeded: signal.FractionExceeded,
		ExceededCount:    signal.ExceededCount,
		TotalSamples:     signal.TotalSamples,
		Timestamp:        now,
	}
	if err := m.sink.PublishAlert(alert); err != nil {
		log.Printf("⚠️ Не удалось отправить алерт аномалии: %v", err)
	}
}
