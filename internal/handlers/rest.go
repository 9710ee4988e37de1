package handlers

import (
	"net/http"
	"time"

	"kidney_monitor/internal/auth"
	"kidney_monitor/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title Kidney Monitor API
// @version 1.0
// @description API системы мониторинга функции почек (микроигольный сенсорный массив)

// @host localhost:8080
// @BasePath /api/v1

// @tag.name sessions
// @tag.description Управление сессиями мониторинга

// @tag.name alerts
// @tag.description Алерты аномалий и критического риска

// @tag.name monitoring
// @tag.description Мониторинг состояния сервиса

// RESTAPIServer обрабатывает REST API запросы
type RESTAPIServer struct {
	sessionManager *SessionManager
	mqttProcessor  *MQTTStreamProcessor
	db             *gorm.DB
	userService    *auth.UserService
	jwtMiddleware  *auth.JWTMiddleware
}

// SessionRequest запрос для создания сессии
// @Description Данные для создания новой сессии мониторинга
type SessionRequest struct {
	DeviceID string `json:"device_id" binding:"required" example:"MICRONEEDLE-ARRAY-0001"` // Идентификатор устройства
}

// SessionResponse ответ с информацией о сессии
// @Description Информация о сессии мониторинга
type SessionResponse struct {
	SessionID     string     `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440001"` // UUID сессии
	DeviceID      string     `json:"device_id" example:"MICRONEEDLE-ARRAY-0001"`                // Идентификатор устройства
	Status        string     `json:"status" example:"active" enums:"active,stopped"`            // Статус сессии
	StartTime     time.Time  `json:"start_time" example:"2023-09-01T10:00:00Z"`                 // Время начала сессии
	EndTime       *time.Time `json:"end_time,omitempty" example:"2023-09-01T11:30:00Z"`         // Время окончания (если завершена)
	Duration      int        `json:"duration" example:"5400"`                                   // Продолжительность в секундах
	LastRiskLevel string     `json:"last_risk_level,omitempty" example:"MODERATE"`              // Последний уровень риска
	LastScore     float64    `json:"last_score,omitempty" example:"72.5"`                       // Последний композитный скор
}

// SessionDataResponse временные ряды сессии
// @Description Данные биомаркеров, собранные во время сессии
type SessionDataResponse struct {
	SessionID      string      `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440001"` // UUID сессии
	BUNData        interface{} `json:"bun_data"`                                                  // Ряд BUN
	CreatinineData interface{} `json:"creatinine_data"`                                           // Ряд креатинина
	ScoreData      interface{} `json:"score_data"`                                                // Ряд композитного скора
	TotalPoints    int         `json:"total_points" example:"1250"`                               // Общее количество точек
}

// AlertsResponse список алертов устройства
// @Description Последние алерты для устройства
type AlertsResponse struct {
	DeviceID string         `json:"device_id" example:"MICRONEEDLE-ARRAY-0001"` // Идентификатор устройства
	Alerts   []models.Alert `json:"alerts"`                                     // Список алертов
	Count    int            `json:"count" example:"3"`                          // Количество алертов
}

// DevicesResponse список устройств
// @Description Список всех известных устройств
type DevicesResponse struct {
	Devices []string `json:"devices"`           // Список идентификаторов устройств
	Count   int      `json:"count" example:"2"` // Количество устройств
}

// HealthResponse состояние сервиса
// @Description Информация о состоянии и работоспособности сервиса
type HealthResponse struct {
	Status         string    `json:"status" example:"healthy"`                 // Статус сервиса
	Service        string    `json:"service" example:"Kidney Monitor"`         // Название сервиса
	Timestamp      time.Time `json:"timestamp" example:"2023-09-01T10:00:00Z"` // Время проверки
	ActiveSessions int       `json:"active_sessions" example:"3"`              // Количество активных сессий
}

// CleanupResponse результат очистки сессий
// @Description Результат операции очистки зависших сессий
type CleanupResponse struct {
	Message        string `json:"message" example:"Очистка сессий выполнена"` // Сообщение о результате
	ActiveSessions int    `json:"active_sessions" example:"2"`                // Активных сессий после очистки
}

// ErrorResponse стандартный ответ об ошибке
// @Description Стандартная структура ответа об ошибке
type ErrorResponse struct {
	Error   string `json:"error" example:"Неверный формат данных"`     // Описание ошибки
	Details string `json:"details,omitempty" example:"field required"` // Дополнительные детали
}

// SuccessResponse стандартный ответ об успехе
// @Description Стандартная структура успешного ответа
type SuccessResponse struct {
	Message string      `json:"message" example:"Операция выполнена успешно"` // Сообщение об успехе
	Data    interface{} `json:"data,omitempty"`                               // Дополнительные данные
}

// NewRESTAPIServer создает новый REST API сервер
func NewRESTAPIServer(
	sessionManager *SessionManager,
	mqttProcessor *MQTTStreamProcessor,
	db *gorm.DB,
	userService *auth.UserService,
	jwtMiddleware *auth.JWTMiddleware,
) *RESTAPIServer {
	return &RESTAPIServer{
		sessionManager: sessionManager,
		mqttProcessor:  mqttProcessor,
		db:             db,
		userService:    userService,
		jwtMiddleware:  jwtMiddleware,
	}
}

// SetupRoutes настраивает маршруты REST API
func (api *RESTAPIServer) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:80", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	// API группа
	apiGroup := r.Group("/api/v1")

	// === АУТЕНТИФИКАЦИЯ ===
	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", api.Register)
		authGroup.POST("/login", api.Login)
		authGroup.POST("/refresh", api.Refresh)
	}

	// === УПРАВЛЕНИЕ СЕССИЯМИ (требует авторизации) ===
	sessions := apiGroup.Group("/sessions")
	sessions.Use(api.jwtMiddleware.RequireAuth())
	{
		sessions.POST("/start", api.StartSession)
		sessions.POST("/stop/:session_id", api.StopSession)
		sessions.GET("/active", api.GetActiveSessions)
		sessions.GET("/:session_id/data", api.GetSessionData)
	}

	// === УСТРОЙСТВА И АЛЕРТЫ (требует авторизации) ===
	devices := apiGroup.Group("/devices")
	devices.Use(api.jwtMiddleware.RequireAuth())
	{
		devices.GET("/", api.GetDevices)
		devices.GET("/:device_id/alerts", api.GetDeviceAlerts)
	}

	// === МОНИТОРИНГ СЕРВИСА ===
	monitoring := apiGroup.Group("/monitoring")
	{
		monitoring.GET("/health", api.HealthCheck)
		monitoring.POST("/cleanup", api.CleanupSessions)
	}

	return r
}

// Register регистрация нового пользователя
// @Summary Регистрация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Данные пользователя"
// @Success 200 {object} auth.AuthResponse "Пользователь зарегистрирован"
// @Failure 400 {object} ErrorResponse "Неверный формат данных"
// @Router /auth/register [post]
func (api *RESTAPIServer) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Неверный формат данных", Details: err.Error()})
		return
	}

	resp, err := api.userService.RegisterWithTokens(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Login вход пользователя
// @Summary Вход пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Учетные данные"
// @Success 200 {object} auth.AuthResponse "Успешный вход"
// @Failure 401 {object} ErrorResponse "Неверные учетные данные"
// @Router /auth/login [post]
func (api *RESTAPIServer) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Неверный формат данных", Details: err.Error()})
		return
	}

	resp, err := api.userService.LoginWithTokens(c, &req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh обновление токенов
// @Summary Обновление access токена по refresh токену
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} auth.AuthResponse "Токены обновлены"
// @Failure 401 {object} ErrorResponse "Невалидный refresh токен"
// @Router /auth/refresh [post]
func (api *RESTAPIServer) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Неверный формат данных", Details: err.Error()})
		return
	}

	resp, err := api.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// StartSession запускает новую сессию мониторинга
// @Summary Запуск новой сессии мониторинга
// @Description Создает новую сессию мониторинга для указанного устройства
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body SessionRequest true "Данные для создания сессии"
// @Success 200 {object} SuccessResponse{data=SessionResponse} "Сессия успешно запущена"
// @Failure 400 {object} ErrorResponse "Неверный формат данных"
// @Failure 409 {object} ErrorResponse "Сессия для устройства уже активна"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /sessions/start [post]
func (api *RESTAPIServer) StartSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Неверный формат данных",
			Details: err.Error(),
		})
		return
	}

	// Проверка активной сессии
	if activeSession := api.sessionManager.GetActiveSession(req.DeviceID); activeSession != nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "Сессия для устройства уже активна",
			Details: "active_session_id: " + activeSession.ID.String(),
		})
		return
	}

	session, err := api.sessionManager.StartSession(req.DeviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Не удалось создать сессию",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Сессия успешно запущена",
		Data:    sessionResponse(session, "active"),
	})
}

// StopSession завершает активную сессию
// @Summary Завершение активной сессии мониторинга
// @Tags sessions
// @Produce json
// @Param session_id path string true "UUID сессии" format(uuid)
// @Success 200 {object} SuccessResponse{data=SessionResponse} "Сессия успешно завершена"
// @Failure 400 {object} ErrorResponse "Неверный ID сессии"
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /sessions/stop/{session_id} [post]
func (api *RESTAPIServer) StopSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Неверный ID сессии"})
		return
	}

	session, err := api.sessionManager.StopSession(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Сессия не найдена или уже завершена"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Сессия успешно завершена",
		Data:    sessionResponse(session, "stopped"),
	})
}

// GetActiveSessions возвращает все активные сессии
// @Summary Список активных сессий
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]interface{} "Активные сессии"
// @Router /sessions/active [get]
func (api *RESTAPIServer) GetActiveSessions(c *gin.Context) {
	sessions := api.sessionManager.GetAllActiveSessions()

	responses := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, sessionResponse(session, "active"))
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": responses,
		"count":    len(responses),
	})
}

// GetSessionData возвращает временные ряды сессии
// @Summary Данные биомаркеров сессии
// @Tags sessions
// @Produce json
// @Param session_id path string true "UUID сессии" format(uuid)
// @Success 200 {object} SessionDataResponse "Данные сессии"
// @Failure 400 {object} ErrorResponse "Неверный ID сессии"
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /sessions/{session_id}/data [get]
func (api *RESTAPIServer) GetSessionData(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Неверный ID сессии"})
		return
	}

	session, err := api.sessionManager.GetSession(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Сессия не найдена"})
		return
	}

	c.JSON(http.StatusOK, SessionDataResponse{
		SessionID:      session.ID.String(),
		BUNData:        session.BUNData,
		CreatinineData: session.CreatinineData,
		ScoreData:      session.ScoreData,
		TotalPoints:    session.BUNData.Count + session.CreatinineData.Count + session.ScoreData.Count,
	})
}

// GetDevices возвращает список всех устройств
// @Summary Список устройств
// @Tags alerts
// @Produce json
// @Success 200 {object} DevicesResponse "Список устройств"
// @Router /devices [get]
func (api *RESTAPIServer) GetDevices(c *gin.Context) {
	devices := api.sessionManager.GetAllDevices()
	c.JSON(http.StatusOK, DevicesResponse{
		Devices: devices,
		Count:   len(devices),
	})
}

// GetDeviceAlerts возвращает последние алерты устройства
// @Summary Последние алерты устройства
// @Tags alerts
// @Produce json
// @Param device_id path string true "Идентификатор устройства"
// @Success 200 {object} AlertsResponse "Алерты устройства"
// @Router /devices/{device_id}/alerts [get]
func (api *RESTAPIServer) GetDeviceAlerts(c *gin.Context) {
	deviceID := c.Param("device_id")

	var alerts []models.Alert
	if err := api.db.Where("device_id = ?", deviceID).
		Order("created_at DESC").
		Limit(50).
		Find(&alerts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Не удалось получить алерты",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, AlertsResponse{
		DeviceID: deviceID,
		Alerts:   alerts,
		Count:    len(alerts),
	})
}

// HealthCheck проверка здоровья сервиса
// @Summary Проверка состояния сервиса
// @Tags monitoring
// @Produce json
// @Success 200 {object} HealthResponse "Состояние сервиса"
// @Router /monitoring/health [get]
func (api *RESTAPIServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:         "healthy",
		Service:        "Kidney Monitor",
		Timestamp:      time.Now().UTC(),
		ActiveSessions: api.sessionManager.GetActiveSessionCount(),
	})
}

// CleanupSessions очистка зависших сессий
// @Summary Очистка зависших сессий
// @Tags monitoring
// @Produce json
// @Success 200 {object} CleanupResponse "Результат очистки"
// @Router /monitoring/cleanup [post]
func (api *RESTAPIServer) CleanupSessions(c *gin.Context) {
	api.sessionManager.CleanupInactiveSessions()
	c.JSON(http.StatusOK, CleanupResponse{
		Message:        "Очистка сессий выполнена",
		ActiveSessions: api.sessionManager.GetActiveSessionCount(),
	})
}

// sessionResponse собирает DTO сессии
func sessionResponse(session *models.MonitorSession, status string) SessionResponse {
	duration := 0
	if session.EndTime != nil {
		duration = int(session.EndTime.Sub(session.StartTime).Seconds())
	} else {
		duration = int(time.Since(session.StartTime).Seconds())
	}

	return SessionResponse{
		SessionID:     session.ID.String(),
		DeviceID:      session.DeviceID,
		Status:        status,
		StartTime:     session.StartTime,
		EndTime:       session.EndTime,
		Duration:      duration,
		LastRiskLevel: session.LastRiskLevel,
		LastScore:     session.LastScore,
	}
}
