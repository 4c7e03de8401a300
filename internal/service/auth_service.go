package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/domain/repository"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
	"github.com/yourusername/musictheory-api/pkg/auth"
)

// AuthService предоставляет методы для аутентификации и управления сессиями
type AuthService struct {
	userRepo         repository.UserRepository
	jwtService       *auth.JWTService
	refreshTokenRepo repository.RefreshTokenRepository
	emailService     EmailService

	sessionLimit        int
	refreshLifetimeDays int
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	refreshTokenRepo repository.RefreshTokenRepository,
	emailService EmailService,
	sessionLimit int,
	refreshLifetimeDays int,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if refreshTokenRepo == nil {
		return nil, fmt.Errorf("RefreshTokenRepository is required for AuthService")
	}
	if emailService == nil {
		emailService = &NoopEmailService{}
	}
	if sessionLimit <= 0 {
		sessionLimit = 5
	}
	if refreshLifetimeDays <= 0 {
		refreshLifetimeDays = 30
	}

	return &AuthService{
		userRepo:            userRepo,
		jwtService:          jwtService,
		refreshTokenRepo:    refreshTokenRepo,
		emailService:        emailService,
		sessionLimit:        sessionLimit,
		refreshLifetimeDays: refreshLifetimeDays,
	}, nil
}

// RegisterInput содержит данные для регистрации
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResponse содержит данные для ответа на запрос авторизации
type AuthResponse struct {
	User         *entity.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// RegisterUser регистрирует нового пользователя
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	if input.Username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(input.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	// Проверяем, существует ли пользователь с таким username
	_, err = s.userRepo.GetByUsername(input.Username)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this username already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}

	user := &entity.User{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Отправляем приветственное письмо в фоне, регистрацию оно не блокирует
	go func(email, username string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.emailService.SendWelcome(ctx, email, username); err != nil {
			log.Printf("[AuthService] Ошибка отправки приветственного письма для %s: %v", email, err)
		}
	}(user.Email, user.Username)

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d (%s)", user.ID, user.Email)
	return user, nil
}

// LoginUser аутентифицирует пользователя и возвращает пару токенов
func (s *AuthService) LoginUser(email, password, deviceID, ipAddress, userAgent string) (*AuthResponse, error) {
	user, err := s.AuthenticateUser(email, password)
	if err != nil {
		return nil, err
	}

	resp, err := s.issueTokenPair(user, deviceID, ipAddress, userAgent)
	if err != nil {
		log.Printf("[AuthService] Ошибка генерации токенов для пользователя ID=%d: %v", user.ID, err)
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	log.Printf("[AuthService] Пользователь ID=%d (%s) успешно вошел в систему", user.ID, user.Email)
	return resp, nil
}

// RefreshTokens обновляет пару токенов по refresh токену (с ротацией)
func (s *AuthService) RefreshTokens(refreshToken, deviceID, ipAddress, userAgent string) (*AuthResponse, error) {
	stored, err := s.refreshTokenRepo.GetTokenByValue(hashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: refresh token not found", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !stored.IsValid() {
		return nil, fmt.Errorf("%w: refresh token", apperrors.ErrExpiredToken)
	}

	user, err := s.userRepo.GetByID(stored.UserID)
	if err != nil {
		return nil, err
	}

	// Ротация: старый токен отзывается, выдается новая пара
	if err := s.refreshTokenRepo.MarkTokenAsExpiredByID(stored.ID); err != nil {
		log.Printf("[AuthService] Ошибка отзыва старого refresh токена ID=%d: %v", stored.ID, err)
		return nil, err
	}

	resp, err := s.issueTokenPair(user, deviceID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	log.Printf("[AuthService] Токены успешно обновлены для пользователя ID=%d", user.ID)
	return resp, nil
}

// AuthenticateUser проверяет учетные данные пользователя без создания токенов
func (s *AuthService) AuthenticateUser(email, password string) (*entity.User, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Printf("[AuthService] Пользователь с email %s не найден: %v", email, err)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль для пользователя с email %s", email)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return user, nil
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// ChangePassword изменяет пароль пользователя и отзывает все refresh токены
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(oldPassword) {
		return fmt.Errorf("%w: incorrect old password", apperrors.ErrUnauthorized)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	// UserRepo.UpdatePassword выполняет хеширование и использует прямой SQL-запрос
	// для обхода хука BeforeSave и предотвращения двойного хеширования
	if err := s.userRepo.UpdatePassword(userID, newPassword); err != nil {
		return err
	}

	return s.LogoutAllDevices(userID)
}

// LogoutUser отзывает указанный refresh токен
func (s *AuthService) LogoutUser(refreshToken string) error {
	err := s.refreshTokenRepo.MarkTokenAsExpired(hashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Токен уже недействителен, считаем логаут успешным
			return nil
		}
		log.Printf("[AuthService] Ошибка отзыва refresh токена: %v", err)
		return err
	}

	log.Printf("[AuthService] Refresh токен успешно отозван")
	return nil
}

// LogoutAllDevices отзывает все refresh токены пользователя
func (s *AuthService) LogoutAllDevices(userID uint) error {
	if err := s.refreshTokenRepo.MarkAllAsExpiredForUser(userID); err != nil {
		log.Printf("[AuthService] Ошибка при отзыве всех refresh токенов пользователя ID=%d: %v", userID, err)
		return fmt.Errorf("logout all devices failed: %w", err)
	}

	log.Printf("[AuthService] Все сессии для пользователя ID=%d завершены", userID)
	return nil
}

// GetUserActiveSessions возвращает активные сессии пользователя
func (s *AuthService) GetUserActiveSessions(userID uint) ([]map[string]interface{}, error) {
	sessions, err := s.refreshTokenRepo.GetActiveTokensForUser(userID)
	if err != nil {
		log.Printf("[AuthService] Ошибка получения активных сессий для пользователя ID=%d: %v", userID, err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessionDetails []map[string]interface{}
	for _, session := range sessions {
		sessionDetails = append(sessionDetails, session.SessionInfo())
	}
	return sessionDetails, nil
}

// IsSessionOwnedByUser проверяет, принадлежит ли сессия пользователю
func (s *AuthService) IsSessionOwnedByUser(userID, sessionID uint) (bool, error) {
	token, err := s.refreshTokenRepo.GetTokenByID(sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return token.UserID == userID, nil
}

// RevokeSession отзывает отдельную сессию по ID
func (s *AuthService) RevokeSession(sessionID uint) error {
	return s.refreshTokenRepo.MarkTokenAsExpiredByID(sessionID)
}

// CleanupExpiredTokens удаляет из БД просроченные refresh токены
func (s *AuthService) CleanupExpiredTokens() error {
	deleted, err := s.refreshTokenRepo.CleanupExpiredTokens()
	if err != nil {
		return fmt.Errorf("cleanup expired tokens failed: %w", err)
	}
	if deleted > 0 {
		log.Printf("[AuthService] Удалено просроченных refresh токенов: %d", deleted)
	}
	return nil
}

// issueTokenPair выдает access + refresh пару и применяет лимит сессий
func (s *AuthService) issueTokenPair(user *entity.User, deviceID, ipAddress, userAgent string) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	refreshValue := generateRefreshToken()

	expiresAt := time.Now().Add(time.Duration(s.refreshLifetimeDays) * 24 * time.Hour)
	stored := entity.NewRefreshToken(user.ID, hashRefreshToken(refreshValue), deviceID, ipAddress, userAgent, expiresAt)
	if _, err := s.refreshTokenRepo.CreateToken(stored); err != nil {
		return nil, err
	}

	// Лимит одновременных сессий: самые старые отзываются
	if err := s.refreshTokenRepo.MarkOldestAsExpiredForUser(user.ID, s.sessionLimit); err != nil {
		log.Printf("[AuthService] Ошибка применения лимита сессий для пользователя ID=%d: %v", user.ID, err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
	}, nil
}

// generateRefreshToken генерирует случайное значение refresh токена.
// Два UUID дают 244 бита энтропии; клиенту уходит значение, в БД — его хеш.
func generateRefreshToken() string {
	return uuid.NewString() + "." + uuid.NewString()
}

// hashRefreshToken возвращает SHA-256 хеш токена; в БД хранятся только хеши
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// normalizeEmail приводит email к стандартному виду: trim пробелов + lowercase
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
