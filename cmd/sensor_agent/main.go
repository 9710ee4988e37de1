// cmd/sensor_agent/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kidney_monitor/configs"
	"kidney_monitor/internal/detect"
	"kidney_monitor/internal/monitor"
	"kidney_monitor/internal/publisher"
	"kidney_monitor/internal/refmodel"
	"kidney_monitor/internal/risk"
	"kidney_monitor/internal/sensor"
)

func main() {
	log.Println(" === KIDNEY MONITOR: SENSOR AGENT ===")

	// 1. Загрузка конфигурации
	cfg := configs.LoadConfig()
	log.Printf("Конфигурация загружена: MQTT=%s, окно=%d, порог=%.3f",
		cfg.MQTT.Broker, cfg.Monitor.WindowSize, cfg.Monitor.JSThreshold)

	// 2. Загрузка референсной модели (фатально при несогласованности)
	model, err := refmodel.Load(cfg.Model.Path)
	if err != nil {
		log.Fatalf("Ошибка загрузки референсной модели: %v", err)
	}
	log.Printf("Референсная модель загружена: вход=%d, проекция=%d, центроидов=%d",
		model.InputDim(), model.Rank(), len(model.Clusters.Centroids))

	// 3. Подключение к MQTT брокеру
	sink, err := publisher.NewMQTTPublisher(cfg.MQTT, cfg.Monitor.DeviceID)
	if err != nil {
		log.Fatalf("Ошибка MQTT: %v", err)
	}
	defer sink.Close()

	// 4. Сборка пайплайна детекции
	window, err := detect.NewWindowBuffer(cfg.Monitor.WindowSize)
	if err != nil {
		log.Fatalf("Ошибка конфигурации окна: %v", err)
	}

	source := sensor.NewMicroneedleArray(cfg.Monitor.DeviceID, time.Now().UnixNano())

	mon := monitor.New(
		cfg.Monitor.DeviceID,
		source,
		sink,
		detect.NewPreprocessor(model),
		window,
		detect.NewDetector(model, cfg.Monitor.JSThreshold, cfg.Monitor.AlertFraction),
		risk.NewScorer(),
		time.Duration(cfg.Monitor.SampleInterval)*time.Second,
	)

	// 5. Graceful shutdown: остановка проверяется между циклами
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Graceful shutdown...")
		cancel()
	}()

	log.Println("[SYSTEM] Инициализация протоколов оценки функции почек...")
	if err := mon.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("❌ Ошибка цикла мониторинга: %v", err)
	}

	log.Println("Сенсорный агент полностью остановлен")
}
