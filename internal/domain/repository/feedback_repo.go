package repository

import (
	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// FeedbackRepository определяет методы для работы с обращениями пользователей
type FeedbackRepository interface {
	Create(feedback *entity.Feedback) error
	GetByID(id uint) (*entity.Feedback, error)
	ListByStatus(status string, limit, offset int) ([]entity.Feedback, int64, error)
	ListByUser(userID uint, limit, offset int) ([]entity.Feedback, error)
	Update(feedback *entity.Feedback) error
}
