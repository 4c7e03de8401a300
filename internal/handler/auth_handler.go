package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/musictheory-api/internal/service"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Структуры запросов и ответов

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	DeviceID string `json:"device_id" binding:"omitempty"`
}

// RefreshTokenRequest представляет запрос на обновление токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	DeviceID     string `json:"device_id" binding:"omitempty"`
}

// LogoutRequest представляет запрос на выход
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest представляет запрос на изменение пароля
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// RevokeSessionRequest представляет запрос на отзыв отдельной сессии
type RevokeSessionRequest struct {
	SessionID uint `json:"session_id" binding:"required"`
}

// Register обрабатывает запрос на регистрацию.
// Новый пользователь сразу получает пару токенов.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	user, err := h.authService.RegisterUser(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.authService.LoginUser(req.Email, req.Password, deviceIDOf(c, ""), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		// Пользователь создан, но логин не удался: пусть войдет явно
		log.Printf("[AuthHandler] Ошибка выдачи токенов после регистрации пользователя ID=%d: %v", user.ID, err)
		c.JSON(http.StatusCreated, gin.H{"user": user})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":          resp.User,
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"token_type":    "Bearer",
	})
}

// Login обрабатывает запрос на вход
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error(), "error_type": "invalid_request"})
		return
	}

	resp, err := h.authService.LoginUser(req.Email, req.Password, deviceIDOf(c, req.DeviceID), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          resp.User,
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"token_type":    "Bearer",
	})
}

// RefreshToken обновляет пару токенов по refresh токену
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Требуется refresh-токен", "error_type": "token_invalid"})
		return
	}

	resp, err := h.authService.RefreshTokens(req.RefreshToken, deviceIDOf(c, req.DeviceID), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"token_type":    "Bearer",
	})
}

// Logout отзывает refresh токен текущей сессии
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Требуется refresh-токен", "error_type": "token_invalid"})
		return
	}

	if err := h.authService.LogoutUser(req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// LogoutAllDevices отзывает все сессии пользователя
func (h *AuthHandler) LogoutAllDevices(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	if err := h.authService.LogoutAllDevices(userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Выход из всех сессий выполнен успешно"})
}

// GetMe возвращает информацию о текущем пользователе
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"role":          user.Role,
		"current_level": user.CurrentLevel,
		"strategy":      user.Strategy,
		"total_score":   user.TotalScore,
		"best_streak":   user.BestStreak,
	})
}

// ChangePassword обрабатывает запрос на изменение пароля пользователя
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	if err := h.authService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	log.Printf("[AuthHandler] Пароль изменен для пользователя ID=%d", userID)
	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}

// GetActiveSessions возвращает список активных сессий пользователя
func (h *AuthHandler) GetActiveSessions(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	sessions, err := h.authService.GetUserActiveSessions(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// RevokeSession отзывает отдельную сессию пользователя
func (h *AuthHandler) RevokeSession(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req RevokeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные запроса", "error_type": "invalid_request"})
		return
	}

	owned, err := h.authService.IsSessionOwnedByUser(userID, req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "Сессия не найдена", "error_type": "session_not_found"})
		return
	}

	if err := h.authService.RevokeSession(req.SessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Сессия успешно завершена", "session_id": req.SessionID})
}

// deviceIDOf возвращает идентификатор устройства из запроса или User-Agent как запасной вариант
func deviceIDOf(c *gin.Context, requested string) string {
	if requested != "" {
		return requested
	}
	return c.Request.UserAgent()
}
