package service

import (
	"log"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/domain/repository"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
)

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, progressRepo repository.ProgressRepository) *UserService {
	return &UserService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
	}
}

// GetLeaderboard возвращает пагинированный список пользователей для лидерборда.
func (s *UserService) GetLeaderboard(page, pageSize int) (*dto.PaginatedLeaderboardResponse, error) {
	// Валидация параметров пагинации
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10 // Значение по умолчанию
	} else if pageSize > 100 {
		pageSize = 100 // Максимальный лимит
	}

	offset := (page - 1) * pageSize

	// Получаем данные из репозитория
	users, total, err := s.userRepo.GetLeaderboard(pageSize, offset)
	if err != nil {
		log.Printf("[UserService] Ошибка при получении лидерборда из репозитория: %v", err)
		return nil, err
	}

	// Преобразуем пользователей в DTO
	userDTOs := make([]*dto.LeaderboardUserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = &dto.LeaderboardUserDTO{
			Rank:         offset + i + 1, // Рассчитываем ранг на основе смещения и индекса
			UserID:       user.ID,
			Username:     user.Username,
			CurrentLevel: user.CurrentLevel,
			TotalScore:   user.TotalScore,
			BestStreak:   user.BestStreak,
		}
	}

	// Формируем пагинированный ответ
	response := &dto.PaginatedLeaderboardResponse{
		Users:   userDTOs,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}

	return response, nil
}

// GetProgressOverview возвращает сводку успеваемости пользователя по разделам
func (s *UserService) GetProgressOverview(userID uint) (*dto.ProgressOverviewResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.GetByUser(userID)
	if err != nil {
		log.Printf("[UserService] Ошибка при получении прогресса пользователя ID=%d: %v", userID, err)
		return nil, err
	}

	categories := make([]*dto.CategoryProgressDTO, len(progress))
	for i, p := range progress {
		categories[i] = &dto.CategoryProgressDTO{
			Category:        string(p.Category),
			DisplayName:     p.Category.DisplayName(),
			CurrentLevel:    p.CurrentLevel,
			TotalAttempts:   p.TotalAttempts,
			CorrectAttempts: p.CorrectAttempts,
			Accuracy:        p.Accuracy(),
			TotalScore:      p.TotalScore,
		}
	}

	return &dto.ProgressOverviewResponse{
		UserID:       user.ID,
		CurrentLevel: user.CurrentLevel,
		TotalScore:   user.TotalScore,
		BestStreak:   user.BestStreak,
		Categories:   categories,
	}, nil
}

// UpdateProfile обновляет имя пользователя
func (s *UserService) UpdateProfile(userID uint, username string) (*entity.User, error) {
	updates := map[string]interface{}{
		"username": username,
	}
	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}
