// configs/config.go
package configs

import (
	"os"
	"strconv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	MQTT     MQTTConfig
	Monitor  MonitorConfig
	Model    ModelConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

type AppConfig struct {
	Port     string // HTTP_PORT из .env
	LogLevel string
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      int
}

// MonitorConfig параметры цикла мониторинга и детекции аномалий
type MonitorConfig struct {
	DeviceID       string
	WindowSize     int     // размер окна для детекции аномалий (W >= 1)
	JSThreshold    float64 // порог JS-дивергенции
	AlertFraction  float64 // доля окна для срабатывания алерта
	SampleInterval int     // пауза между циклами, секунды
}

type ModelConfig struct {
	Path string // путь к JSON файлу с референсной моделью
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() *Config {

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "kidney_user"),
			Password: getEnv("DB_PASSWORD", "kidney_password"),
			DBName:   getEnv("DB_NAME", "kidney_monitor"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "Europe/Moscow"),
		},
		App: AppConfig{
			Port:     getEnv("HTTP_PORT", "8080"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		MQTT: MQTTConfig{
			Broker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
			ClientID: getEnv("MQTT_CLIENT_ID", "kidney_monitor_service"),
			Username: getEnv("MQTT_USERNAME", ""),
			Password: getEnv("MQTT_PASSWORD", ""),
			QoS:      getEnvAsInt("MQTT_QOS", 1),
		},
		Monitor: MonitorConfig{
			DeviceID:       getEnv("DEVICE_ID", "MICRONEEDLE-ARRAY-0001"),
			WindowSize:     getEnvAsInt("MONITOR_WINDOW_SIZE", 4),
			JSThreshold:    getEnvAsFloat("MONITOR_JS_THRESHOLD", 0.1),
			AlertFraction:  getEnvAsFloat("MONITOR_ALERT_FRACTION", 0.5),
			SampleInterval: getEnvAsInt("MONITOR_SAMPLE_INTERVAL", 5),
		},
		Model: ModelConfig{
			Path: getEnv("MODEL_PATH", "models/reference_model.json"),
		},
	}
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt получает переменную окружения как int
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat получает переменную окружения как float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
