package repository

import (
	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// ProgressRepository определяет методы для работы с агрегатами
// успеваемости по разделам
type ProgressRepository interface {
	// GetOrCreate возвращает агрегат пары (пользователь, раздел),
	// создавая пустой при первом обращении
	GetOrCreate(userID uint, category entity.Category) (*entity.UserProgress, error)
	GetByUser(userID uint) ([]entity.UserProgress, error)
	Update(progress *entity.UserProgress) error

	// RecordAttempt транзакционно сохраняет попытку и обновляет агрегат раздела
	RecordAttempt(attempt *entity.Attempt) error
}
