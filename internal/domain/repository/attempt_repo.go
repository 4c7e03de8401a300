package repository

import (
	"time"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// AttemptRepository определяет методы для работы с попытками ответов.
// Попытки — это сырьё движка адаптивности: он читает последние N записей
// в хронологическом порядке и строит по ним профиль.
type AttemptRepository interface {
	Create(attempt *entity.Attempt) error
	GetByID(id uint) (*entity.Attempt, error)

	// GetRecentByUser возвращает последние limit попыток пользователя
	// в порядке от старых к новым
	GetRecentByUser(userID uint, limit int) ([]entity.Attempt, error)

	// GetByUserAndCategory возвращает последние limit попыток по разделу
	// в порядке от старых к новым
	GetByUserAndCategory(userID uint, category entity.Category, limit int) ([]entity.Attempt, error)

	// ListByUser возвращает попытки с пагинацией для истории и экспорта
	ListByUser(userID uint, limit, offset int) ([]entity.Attempt, int64, error)

	// ListByUserSince возвращает все попытки пользователя после указанного момента
	ListByUserSince(userID uint, since time.Time) ([]entity.Attempt, error)

	CountByUser(userID uint) (int64, error)
}
