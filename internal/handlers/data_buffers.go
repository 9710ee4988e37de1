// internal/handlers/data_buffers.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"kidney_monitor/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Имена временных рядов сессии
const (
	SeriesBUN        = "bun"
	SeriesCreatinine = "creatinine"
	SeriesScore      = "score"
)

// DataBuffer управляет буферизацией точек биомаркеров для записи в БД
type DataBuffer struct {
	db             *gorm.DB
	sessionBuffers map[uuid.UUID]*SessionDataBuffer
	mu             sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

// SessionDataBuffer буфер для одной сессии
type SessionDataBuffer struct {
	SessionID        uuid.UUID
	BUNBuffer        []models.SeriesPoint
	CreatinineBuffer []models.SeriesPoint
	ScoreBuffer      []models.SeriesPoint
	LastFlush        time.Time
	mu               sync.Mutex
}

// NewDataBuffer создает новый буфер данных
func NewDataBuffer(db *gorm.DB) *DataBuffer {
	ctx, cancel := context.WithCancel(context.Background())

	buffer := &DataBuffer{
		db:             db,
		sessionBuffers: make(map[uuid.UUID]*SessionDataBuffer),
		ctx:            ctx,
		cancel:         cancel,
	}

	// Запуск автофлаша
	buffer.wg.Add(1)
	go buffer.autoFlushWorker()

	log.Println("Data Buffer инициализирован")
	return buffer
}

// AddDataPoint добавляет точку данных в буфер
func (db *DataBuffer) AddDataPoint(sessionID uuid.UUID, series string, value, timeSec float64) {
	db.mu.RLock()
	sessionBuffer, exists := db.sessionBuffers[sessionID]
	db.mu.RUnlock()

	if !exists {
		db.mu.Lock()
		if sessionBuffer, exists = db.sessionBuffers[sessionID]; !exists {
			sessionBuffer = &SessionDataBuffer{
				SessionID:        sessionID,
				BUNBuffer:        make([]models.SeriesPoint, 0, 100),
				CreatinineBuffer: make([]models.SeriesPoint, 0, 100),
				ScoreBuffer:      make([]models.SeriesPoint, 0, 100),
				LastFlush:        time.Now(),
			}
			db.sessionBuffers[sessionID] = sessionBuffer
		}
		db.mu.Unlock()
	}

	sessionBuffer.mu.Lock()
	defer sessionBuffer.mu.Unlock()

	point := models.SeriesPoint{
		T: timeSec,
		V: value,
	}

	switch series {
	case SeriesBUN:
		sessionBuffer.BUNBuffer = append(sessionBuffer.BUNBuffer, point)
	case SeriesCreatinine:
		sessionBuffer.CreatinineBuffer = append(sessionBuffer.CreatinineBuffer, point)
	case SeriesScore:
		sessionBuffer.ScoreBuffer = append(sessionBuffer.ScoreBuffer, point)
	}

	totalPoints := len(sessionBuffer.BUNBuffer) + len(sessionBuffer.CreatinineBuffer) + len(sessionBuffer.ScoreBuffer)
	timeSinceFlush := time.Since(sessionBuffer.LastFlush)

	if totalPoints >= 100 || timeSinceFlush > 30*time.Second {
		go db.flushSessionAsync(sessionID)
	}
}

// FlushAll флашит все буферы
func (db *DataBuffer) FlushAll() {
	db.mu.RLock()
	var sessionIDs []uuid.UUID
	for sessionID := range db.sessionBuffers {
		sessionIDs = append(sessionIDs, sessionID)
	}
	db.mu.RUnlock()

	for _, sessionID := range sessionIDs {
		db.flushSessionAsync(sessionID)
	}
}

// flushSessionAsync асинхронно флашит буфер сессии
func (db *DataBuffer) flushSessionAsync(sessionID uuid.UUID) {
	db.mu.RLock()
	sessionBuffer, exists := db.sessionBuffers[sessionID]
	db.mu.RUnlock()

	if !exists {
		return
	}

	sessionBuffer.mu.Lock()

	// Копируем данные для флаша
	bunPoints := make([]models.SeriesPoint, len(sessionBuffer.BUNBuffer))
	copy(bunPoints, sessionBuffer.BUNBuffer)
	creatininePoints := make([]models.SeriesPoint, len(sessionBuffer.CreatinineBuffer))
	copy(creatininePoints, sessionBuffer.CreatinineBuffer)
	scorePoints := make([]models.SeriesPoint, len(sessionBuffer.ScoreBuffer))
	copy(scorePoints, sessionBuffer.ScoreBuffer)

	// Очищаем буферы
	sessionBuffer.BUNBuffer = sessionBuffer.BUNBuffer[:0]
	sessionBuffer.CreatinineBuffer = sessionBuffer.CreatinineBuffer[:0]
	sessionBuffer.ScoreBuffer = sessionBuffer.ScoreBuffer[:0]
	sessionBuffer.LastFlush = time.Now()

	sessionBuffer.mu.Unlock()

	if len(bunPoints) == 0 && len(creatininePoints) == 0 && len(scorePoints) == 0 {
		return
	}

	// Записываем в БД
	if err := db.writeToDatabase(sessionID, bunPoints, creatininePoints, scorePoints); err != nil {
		log.Printf("❌ Ошибка записи в БД для сессии %s: %v", sessionID, err)
	} else {
		log.Printf("💾 Записано в БД: сессия %s, BUN=%d, Creatinine=%d, Score=%d точек",
			sessionID, len(bunPoints), len(creatininePoints), len(scorePoints))
	}
}

// writeToDatabase записывает данные в БД пакетно через jsonb аппенд
func (db *DataBuffer) writeToDatabase(sessionID uuid.UUID, bunPoints, creatininePoints, scorePoints []models.SeriesPoint) error {
	updates := make(map[string]interface{})

	appendSeries := func(column string, points []models.SeriesPoint) {
		if len(points) == 0 {
			return
		}
		pointsJSON, _ := json.Marshal(points)
		lastTimeStr := strconv.FormatFloat(points[len(points)-1].T, 'f', -1, 64)

		updates[column] = gorm.Expr(
			`jsonb_set(
       jsonb_set(
         jsonb_set(`+column+`,
           '{points}', COALESCE(`+column+`->'points','[]'::jsonb) || ?::jsonb),
         '{count}', (COALESCE((`+column+`->>'count')::int, 0) + ?)::text::jsonb),
       '{last_time}', ?::text::jsonb)`,
			string(pointsJSON),
			len(points),
			lastTimeStr,
		)
	}

	appendSeries("bun_data", bunPoints)
	appendSeries("creatinine_data", creatininePoints)
	appendSeries("score_data", scorePoints)

	return db.db.Model(&models.MonitorSession{}).
		Where("id = ?", sessionID).
		Updates(updates).Error
}

// RemoveSessionBuffer удаляет буфер завершенной сессии
func (db *DataBuffer) RemoveSessionBuffer(sessionID uuid.UUID) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.sessionBuffers[sessionID]; exists {
		// Финальный флаш перед удалением
		go db.flushSessionAsync(sessionID)
		delete(db.sessionBuffers, sessionID)
		log.Printf("Удален буфер сессии: %s", sessionID)
	}
}

// autoFlushWorker периодически флашит старые буферы
func (db *DataBuffer) autoFlushWorker() {
	defer db.wg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			db.flushOldBuffers()
		case <-db.ctx.Done():
			db.finalFlush()
			log.Println("Auto flush worker остановлен")
			return
		}
	}
}

// flushOldBuffers флашит буферы, которые давно не флашились
func (db *DataBuffer) flushOldBuffers() {
	db.mu.RLock()
	var sessionsToFlush []uuid.UUID

	for sessionID, sessionBuffer := range db.sessionBuffers {
		if time.Since(sessionBuffer.LastFlush) > 15*time.Second {
			sessionsToFlush = append(sessionsToFlush, sessionID)
		}
	}
	db.mu.RUnlock()

	for _, sessionID := range sessionsToFlush {
		go db.flushSessionAsync(sessionID)
	}
}

// finalFlush финальный флаш при остановке
func (db *DataBuffer) finalFlush() {
	log.Println("🔄 Финальный флаш буферов...")

	db.mu.RLock()
	var sessionIDs []uuid.UUID
	for sessionID := range db.sessionBuffers {
		sessionIDs = append(sessionIDs, sessionID)
	}
	db.mu.RUnlock()

	for _, sessionID := range sessionIDs {
		db.flushSessionAsync(sessionID)
	}

	// Ждем завершения всех операций
	time.Sleep(2 * time.Second)
	log.Println("Финальный флаш завершен")
}

// Stop останавливает буфер
func (db *DataBuffer) Stop() {
	log.Println("Остановка Data Buffer...")
	db.cancel()
	db.wg.Wait()
	log.Println("Data Buffer остановлен")
}
