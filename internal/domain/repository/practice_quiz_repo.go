package repository

import (
	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// PracticeQuizRepository определяет методы для работы с
// персонализированными квизами
type PracticeQuizRepository interface {
	Create(quiz *entity.PracticeQuiz) error
	GetByID(id uint) (*entity.PracticeQuiz, error)
	ListByUser(userID uint, limit, offset int) ([]entity.PracticeQuiz, int64, error)
	MarkCompleted(id uint) error
	Delete(id uint) error
}
