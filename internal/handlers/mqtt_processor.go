// internal/handlers/mqtt_processor.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"kidney_monitor/internal/models"

	"gorm.io/gorm"
)

// MQTTStreamProcessor обрабатывает потоковые данные устройств из MQTT
type MQTTStreamProcessor struct {
	// Компоненты
	sessionManager *SessionManager
	dataBuffer     *DataBuffer
	db             *gorm.DB

	// Каналы для потоковой обработки
	telemetryChannel  chan *models.TelemetryMessage
	assessmentChannel chan *models.AssessmentMessage
	alertChannel      chan *models.AlertMessage

	// Управление
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMQTTStreamProcessor создает новый процессор потоковых данных
func NewMQTTStreamProcessor(
	sessionManager *SessionManager,
	dataBuffer *DataBuffer,
	db *gorm.DB,
) *MQTTStreamProcessor {
	ctx, cancel := context.WithCancel(context.Background())

	processor := &MQTTStreamProcessor{
		sessionManager:    sessionManager,
		dataBuffer:        dataBuffer,
		db:                db,
		telemetryChannel:  make(chan *models.TelemetryMessage, 1000),
		assessmentChannel: make(chan *models.AssessmentMessage, 1000),
		alertChannel:      make(chan *models.AlertMessage, 1000),
		ctx:               ctx,
		cancel:            cancel,
	}

	// Запуск воркеров
	processor.wg.Add(4)
	go processor.telemetryWorker()  // Телеметрия → буфер БД
	go processor.assessmentWorker() // Оценки риска
	go processor.alertWorker()      // Алерты
	go processor.bufferWorker()     // Периодический флаш

	log.Println("🚀 MQTT Stream Processor запущен")
	return processor
}

// HandleIncomingMQTT главный обработчик MQTT сообщений.
// Формат топика: kidney/{device_id}/{telemetry|assessment|alert}
func (p *MQTTStreamProcessor) HandleIncomingMQTT(topic string, payload []byte) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 {
		log.Printf("⚠️ Неверный формат топика: %s", topic)
		return
	}

	deviceID := parts[1]
	kind := parts[2]

	switch kind {
	case "telemetry":
		var msg models.TelemetryMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("❌ Ошибка парсинга телеметрии: %v", err)
			return
		}
		if msg.DeviceID == "" {
			msg.DeviceID = deviceID
		}
		select {
		case p.telemetryChannel <- &msg:
		default:
			log.Printf("⚠️ Канал телеметрии переполнен, пропускаем сообщение")
		}

	case "assessment":
		var msg models.AssessmentMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("❌ Ошибка парсинга оценки риска: %v", err)
			return
		}
		if msg.DeviceID == "" {
			msg.DeviceID = deviceID
		}
		select {
		case p.assessmentChannel <- &msg:
		default:
			log.Printf("⚠️ Канал оценок переполнен, пропускаем сообщение")
		}

	case "alert":
		var msg models.AlertMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("❌ Ошибка парсинга алерта: %v", err)
			return
		}
		if msg.DeviceID == "" {
			msg.DeviceID = deviceID
		}
		select {
		case p.alertChannel <- &msg:
		default:
			log.Printf("⚠️ Канал алертов переполнен, пропускаем сообщение")
		}

	default:
		log.Printf("⚠️ Неизвестный тип сообщения: %s", kind)
	}
}

// telemetryWorker обрабатывает входящую телеметрию
func (p *MQTTStreamProcessor) telemetryWorker() {
	defer p.wg.Done()

	for {
		select {
		case msg := <-p.telemetryChannel:
			p.processTelemetry(msg)
		case <-p.ctx.Done():
			log.Println("🛑 Telemetry worker остановлен")
			return
		}
	}
}

// processTelemetry обрабатывает одно сообщение телеметрии
func (p *MQTTStreamProcessor) processTelemetry(msg *models.TelemetryMessage) {
	session := p.ensureSession(msg.DeviceID)
	if session == nil {
		return
	}

	elapsed := time.Since(session.StartTime).Seconds()
	p.dataBuffer.AddDataPoint(session.ID, SeriesBUN, msg.Primary.BUN, elapsed)
	p.dataBuffer.AddDataPoint(session.ID, SeriesCreatinine, msg.Primary.Creatinine, elapsed)
}

// assessmentWorker обрабатывает оценки риска
func (p *MQTTStreamProcessor) assessmentWorker() {
	defer p.wg.Done()

	for {
		select {
		case msg := <-p.assessmentChannel:
			session := p.ensureSession(msg.DeviceID)
			if session == nil {
				continue
			}

			elapsed := time.Since(session.StartTime).Seconds()
			p.dataBuffer.AddDataPoint(session.ID, SeriesScore, msg.Score, elapsed)
			p.sessionManager.UpdateLastAssessment(session.ID, msg.RiskLevel, msg.Stage, msg.Score)
		case <-p.ctx.Done():
			log.Println("🛑 Assessment worker остановлен")
			return
		}
	}
}

// alertWorker сохраняет алерты в БД
func (p *MQTTStreamProcessor) alertWorker() {
	defer p.wg.Done()

	for {
		select {
		case msg := <-p.alertChannel:
			p.persistAlert(msg)
		case <-p.ctx.Done():
			log.Println("🛑 Alert worker остановлен")
			return
		}
	}
}

// persistAlert записывает алерт в таблицу alerts
func (p *MQTTStreamProcessor) persistAlert(msg *models.AlertMessage) {
	session := p.ensureSession(msg.DeviceID)
	if session == nil {
		return
	}

	payload, _ := json.Marshal(msg)
	alert := &models.Alert{
		SessionID: session.ID,
		DeviceID:  msg.DeviceID,
		AlertType: msg.AlertType,
		Severity:  msg.Severity,
		Message:   msg.Alert,
		Payload:   string(payload),
		CreatedAt: time.Now().UTC(),
	}

	if err := p.db.Create(alert).Error; err != nil {
		log.Printf("❌ Не удалось сохранить алерт для %s: %v", msg.DeviceID, err)
		return
	}

	log.Printf("🚨 Сохранён алерт %s (%s) для устройства %s", msg.AlertType, msg.Severity, msg.DeviceID)
}

// ensureSession возвращает активную сессию устройства, создавая её при необходимости
func (p *MQTTStreamProcessor) ensureSession(deviceID string) *models.MonitorSession {
	session := p.sessionManager.GetActiveSession(deviceID)
	if session != nil {
		return session
	}

	session, err := p.sessionManager.StartSession(deviceID)
	if err != nil {
		log.Printf("❌ Ошибка создания автосессии для %s: %v", deviceID, err)
		return nil
	}

	log.Printf("✅ Автоматически создана сессия для устройства: %s", deviceID)
	return session
}

// bufferWorker периодически флашит буфер в БД
func (p *MQTTStreamProcessor) bufferWorker() {
	defer p.wg.Done()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.dataBuffer.FlushAll()
		case <-p.ctx.Done():
			// Финальный флаш
			p.dataBuffer.FlushAll()
			log.Println("🛑 Buffer worker остановлен")
			return
		}
	}
}

// Stop останавливает процессор
func (p *MQTTStreamProcessor) Stop() {
	log.Println("🛑 Остановка MQTT Stream Processor...")
	p.cancel()
	p.wg.Wait()
	close(p.telemetryChannel)
	close(p.assessmentChannel)
	close(p.alertChannel)
	log.Println("✅ MQTT Stream Processor остановлен")
}
