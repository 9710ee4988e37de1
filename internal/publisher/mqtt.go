// internal/publisher/mqtt.go
package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"kidney_monitor/configs"
	"kidney_monitor/internal/models"
)

const publishTimeout = 2 * time.Second

// MQTTPublisher публикует сообщения ядра в MQTT брокер.
// Топики: kidney/{device_id}/{telemetry|assessment|alert}
type MQTTPublisher struct {
	client   mqtt.Client
	deviceID string
	qos      byte
}

// NewMQTTPublisher подключается к брокеру и создает издателя
func NewMQTTPublisher(cfg configs.MQTTConfig, deviceID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(fmt.Sprintf("%s-%d", deviceID, time.Now().Unix()))

	if cfg.Username != "" && cfg.Password != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
		log.Printf("MQTT аутентификация: пользователь %s", cfg.Username)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.OnConnect = func(c mqtt.Client) {
		fmt.Println("✓ Подключение к MQTT брокеру установлено")
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		log.Printf("Соединение с MQTT брокером потеряно: %v", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT подключение не удалось: %w", token.Error())
	}

	return &MQTTPublisher{
		client:   client,
		deviceID: deviceID,
		qos:      byte(cfg.QoS),
	}, nil
}

// PublishTelemetry публикует рутинную телеметрию
func (p *MQTTPublisher) PublishTelemetry(msg *models.TelemetryMessage) error {
	return p.publish("telemetry", msg)
}

// PublishAssessment публикует оценку риска
func (p *MQTTPublisher) PublishAssessment(msg *models.AssessmentMessage) error {
	return p.publish("assessment", msg)
}

// PublishAlert публикует алерт
func (p *MQTTPublisher) PublishAlert(msg *models.AlertMessage) error {
	return p.publish("alert", msg)
}

func (p *MQTTPublisher) publish(kind string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	topic := fmt.Sprintf("kidney/%s/%s", p.deviceID, kind)
	token := p.client.Publish(topic, p.qos, false, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("таймаут отправки MQTT в топик %s", topic)
	}
	return token.Error()
}

// Close отключается от брокера
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
