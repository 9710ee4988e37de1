// internal/database/migrations.go
package database

import (
	"fmt"
	"log"

	"kidney_monitor/internal/models"

	"gorm.io/gorm"
)

// RunMigrations выполняет миграции базы данных
func RunMigrations(db *gorm.DB) error {
	log.Println("🔄 Запуск миграций базы данных...")

	// Автоматические миграции GORM
	err := db.AutoMigrate(
		&models.MonitorSession{},
		&models.Alert{},
		&models.User{},
	)

	if err != nil {
		return fmt.Errorf("ошибка миграции: %w", err)
	}

	// Создаем индексы для оптимизации запросов
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("ошибка создания индексов: %w", err)
	}

	log.Println("✅ Миграции выполнены успешно")
	return nil
}

// createIndexes создает дополнительные индексы
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Составные индексы для быстрого поиска
		"CREATE INDEX IF NOT EXISTS idx_monitor_sessions_device_active ON monitor_sessions(device_id, end_time) WHERE end_time IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_monitor_sessions_start_time_desc ON monitor_sessions(start_time DESC)",
		"CREATE INDEX IF NOT EXISTS idx_alerts_device_created ON alerts(device_id, created_at DESC)",

		// GIN индексы для JSONB полей
		"CREATE INDEX IF NOT EXISTS idx_monitor_sessions_bun_gin ON monitor_sessions USING GIN (bun_data)",
		"CREATE INDEX IF NOT EXISTS idx_monitor_sessions_score_gin ON monitor_sessions USING GIN (score_data)",

		// Частичный индекс только для активных сессий
		"CREATE INDEX IF NOT EXISTS idx_active_monitor_sessions ON monitor_sessions(device_id, start_time) WHERE end_time IS NULL",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Не удалось создать индекс: %s, ошибка: %v", indexSQL, err)
		}
	}

	return nil
}
