package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

// PracticeQuizRepo реализует repository.PracticeQuizRepository
type PracticeQuizRepo struct {
	db *gorm.DB
}

// NewPracticeQuizRepo создает новый репозиторий персонализированных квизов
func NewPracticeQuizRepo(db *gorm.DB) *PracticeQuizRepo {
	return &PracticeQuizRepo{db: db}
}

// Create сохраняет собранный квиз
func (r *PracticeQuizRepo) Create(quiz *entity.PracticeQuiz) error {
	return r.db.Create(quiz).Error
}

// GetByID возвращает квиз по ID
func (r *PracticeQuizRepo) GetByID(id uint) (*entity.PracticeQuiz, error) {
	var quiz entity.PracticeQuiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// ListByUser возвращает квизы пользователя с пагинацией и общим количеством
func (r *PracticeQuizRepo) ListByUser(userID uint, limit, offset int) ([]entity.PracticeQuiz, int64, error) {
	var quizzes []entity.PracticeQuiz
	var total int64

	query := r.db.Model(&entity.PracticeQuiz{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&quizzes).Error
	if err != nil {
		return nil, 0, err
	}

	return quizzes, total, nil
}

// MarkCompleted помечает квиз пройденным
func (r *PracticeQuizRepo) MarkCompleted(id uint) error {
	result := r.db.Model(&entity.PracticeQuiz{}).
		Where("id = ?", id).
		Update("completed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет квиз
func (r *PracticeQuizRepo) Delete(id uint) error {
	return r.db.Delete(&entity.PracticeQuiz{}, id).Error
}
