// internal/handlers/session_manager.go
package handlers

import (
	"fmt"
	"log"
	"sync"
	"time"

	"kidney_monitor/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionManager управляет жизненным циклом сессий мониторинга устройств
type SessionManager struct {
	db             *gorm.DB
	activeSessions map[string]*models.MonitorSession
	sessionsLock   sync.RWMutex
	dataBuffer     *DataBuffer
}

// NewSessionManager создает новый менеджер сессий
func NewSessionManager(db *gorm.DB, dataBuffer *DataBuffer) *SessionManager {
	manager := &SessionManager{
		db:             db,
		activeSessions: make(map[string]*models.MonitorSession),
		dataBuffer:     dataBuffer,
	}

	log.Println("Session Manager инициализирован")
	return manager
}

// StartSession создает и запускает новую сессию мониторинга
func (sm *SessionManager) StartSession(deviceID string) (*models.MonitorSession, error) {
	sm.sessionsLock.Lock()
	defer sm.sessionsLock.Unlock()

	// Проверяем, нет ли уже активной сессии для этого устройства
	if existing := sm.activeSessions[deviceID]; existing != nil {
		return nil, fmt.Errorf("активная сессия уже существует для устройства %s", deviceID)
	}

	session := &models.MonitorSession{
		ID:             uuid.New(),
		DeviceID:       deviceID,
		StartTime:      time.Now().UTC(),
		BUNData:        emptySeries(),
		CreatinineData: emptySeries(),
		ScoreData:      emptySeries(),
	}

	// Сохраняем в БД
	if err := sm.db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("не удалось создать сессию в БД: %w", err)
	}

	sm.activeSessions[deviceID] = session

	log.Printf("Запущена сессия %s для устройства %s", session.ID.String(), deviceID)
	return session, nil
}

func emptySeries() models.TimeSeries {
	return models.TimeSeries{
		Points:   []models.SeriesPoint{},
		Count:    0,
		LastTime: 0,
	}
}

// StopSession завершает активную сессию
func (sm *SessionManager) StopSession(sessionID uuid.UUID) (*models.MonitorSession, error) {
	sm.sessionsLock.Lock()
	defer sm.sessionsLock.Unlock()

	var targetDeviceID string
	var targetSession *models.MonitorSession

	for deviceID, session := range sm.activeSessions {
		if session.ID == sessionID {
			targetDeviceID = deviceID
			targetSession = session
			break
		}
	}

	if targetSession == nil {
		return nil, fmt.Errorf("активная сессия %s не найдена", sessionID.String())
	}

	now := time.Now().UTC()
	targetSession.EndTime = &now

	if err := sm.db.Model(targetSession).Update("end_time", now).Error; err != nil {
		return nil, fmt.Errorf("не удалось обновить сессию в БД: %w", err)
	}

	delete(sm.activeSessions, targetDeviceID)

	// Очищаем буфер данных для этой сессии
	sm.dataBuffer.RemoveSessionBuffer(sessionID)

	log.Printf("✅ Завершена сессия %s для устройства %s", sessionID.String(), targetDeviceID)
	return targetSession, nil
}

// GetActiveSession возвращает активную сессию для устройства
func (sm *SessionManager) GetActiveSession(deviceID string) *models.MonitorSession {
	sm.sessionsLock.RLock()
	defer sm.sessionsLock.RUnlock()
	return sm.activeSessions[deviceID]
}

// GetAllActiveSessions возвращает все активные сессии
func (sm *SessionManager) GetAllActiveSessions() []*models.MonitorSession {
	sm.sessionsLock.RLock()
	defer sm.sessionsLock.RUnlock()

	sessions := make([]*models.MonitorSession, 0, len(sm.activeSessions))
	for _, session := range sm.activeSessions {
		sessions = append(sessions, session)
	}

	return sessions
}

// GetActiveSessionCount возвращает количество активных сессий
func (sm *SessionManager) GetActiveSessionCount() int {
	sm.sessionsLock.RLock()
	defer sm.sessionsLock.RUnlock()
	return len(sm.activeSessions)
}

// GetSession получает сессию из БД по ID
func (sm *SessionManager) GetSession(sessionID uuid.UUID) (*models.MonitorSession, error) {
	var session models.MonitorSession
	if err := sm.db.First(&session, "id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateLastAssessment обновляет последнюю оценку риска сессии
func (sm *SessionManager) UpdateLastAssessment(sessionID uuid.UUID, level, stage string, score float64) {
	if err := sm.db.Model(&models.MonitorSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"last_risk_level": level,
			"last_stage":      stage,
			"last_score":      score,
		}).Error; err != nil {
		log.Printf("⚠️ Не удалось обновить оценку сессии %s: %v", sessionID, err)
	}
}

// GetAllDevices возвращает список всех устройств из БД
func (sm *SessionManager) GetAllDevices() []string {
	var devices []string
	sm.db.Model(&models.MonitorSession{}).
		Distinct("device_id").
		Pluck("device_id", &devices)
	return devices
}

// GetSessionStatistics возвращает статистику сессий
func (sm *SessionManager) GetSessionStatistics() map[string]interface{} {
	stats := make(map[string]interface{})

	activeSessions := sm.GetAllActiveSessions()
	stats["active_sessions_count"] = len(activeSessions)

	deviceStats := make(map[string]interface{})
	for _, session := range activeSessions {
		duration := time.Since(session.StartTime).Seconds()
		deviceStats[session.DeviceID] = map[string]interface{}{
			"session_id":      session.ID.String(),
			"start_time":      session.StartTime,
			"duration":        duration,
			"last_risk_level": session.LastRiskLevel,
		}
	}
	stats["devices"] = deviceStats

	var totalSessions int64
	sm.db.Model(&models.MonitorSession{}).Count(&totalSessions)
	stats["total_sessions"] = totalSessions

	return stats
}

// CleanupInactiveSessions проверяет и очищает зависшие сессии
func (sm *SessionManager) CleanupInactiveSessions() {
	sm.sessionsLock.Lock()
	defer sm.sessionsLock.Unlock()

	var sessionsToRemove []string
	threshold := time.Now().Add(-24 * time.Hour)

	for deviceID, session := range sm.activeSessions {
		if session.StartTime.Before(threshold) {
			now := time.Now().UTC()
			session.EndTime = &now
			sm.db.Model(session).Update("end_time", now)

			sessionsToRemove = append(sessionsToRemove, deviceID)
			log.Printf("Принудительно завершена зависшая сессия: %s", session.ID.String())
		}
	}

	for _, deviceID := range sessionsToRemove {
		delete(sm.activeSessions, deviceID)
	}

	if len(sessionsToRemove) > 0 {
		log.Printf("Очищено %d зависших сессий", len(sessionsToRemove))
	}
}
