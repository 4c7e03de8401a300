package repository

import (
	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	GetByIDs(ids []uint) ([]entity.Question, error)
	Update(question *entity.Question) error
	Delete(id uint) error
	List(category entity.Category, level int, limit, offset int) ([]entity.Question, int64, error)

	// Методы для подбора вопросов персонализированных квизов
	GetRandomByCategoryAndLevel(category entity.Category, level int, limit int, excludeIDs []uint) ([]entity.Question, error)
	CountByCategoryAndLevel(category entity.Category, level int) (int64, error)

	// Статистика пула по разделам и уровням
	GetPoolStats() (total int64, approved int64, byCategory map[entity.Category]int64, err error)
}
