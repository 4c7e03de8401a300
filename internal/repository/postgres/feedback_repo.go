package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

// FeedbackRepo реализует repository.FeedbackRepository
type FeedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo создает новый репозиторий обращений
func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

// Create сохраняет обращение
func (r *FeedbackRepo) Create(feedback *entity.Feedback) error {
	return r.db.Create(feedback).Error
}

// GetByID возвращает обращение по ID
func (r *FeedbackRepo) GetByID(id uint) (*entity.Feedback, error) {
	var feedback entity.Feedback
	err := r.db.First(&feedback, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &feedback, nil
}

// ListByStatus возвращает обращения в указанном статусе с пагинацией.
// Пустой статус означает "все обращения".
func (r *FeedbackRepo) ListByStatus(status string, limit, offset int) ([]entity.Feedback, int64, error) {
	var items []entity.Feedback
	var total int64

	query := r.db.Model(&entity.Feedback{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListByUser возвращает обращения пользователя
func (r *FeedbackRepo) ListByUser(userID uint, limit, offset int) ([]entity.Feedback, error) {
	var items []entity.Feedback
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// Update сохраняет обращение
func (r *FeedbackRepo) Update(feedback *entity.Feedback) error {
	return r.db.Save(feedback).Error
}
