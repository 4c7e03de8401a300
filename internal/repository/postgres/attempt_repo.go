package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create сохраняет попытку
func (r *AttemptRepo) Create(attempt *entity.Attempt) error {
	return r.db.Create(attempt).Error
}

// GetByID возвращает попытку по ID
func (r *AttemptRepo) GetByID(id uint) (*entity.Attempt, error) {
	var attempt entity.Attempt
	err := r.db.First(&attempt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// GetRecentByUser возвращает последние limit попыток пользователя.
// Выборка идет по индексу (user_id, created_at DESC), затем разворачивается,
// чтобы вызывающий код получил хронологический порядок.
func (r *AttemptRepo) GetRecentByUser(userID uint, limit int) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	reverseAttempts(attempts)
	return attempts, nil
}

// GetByUserAndCategory возвращает последние limit попыток по разделу
// в хронологическом порядке
func (r *AttemptRepo) GetByUserAndCategory(userID uint, category entity.Category, limit int) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("user_id = ? AND category = ?", userID, category).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	reverseAttempts(attempts)
	return attempts, nil
}

// ListByUser возвращает попытки пользователя с пагинацией и общим количеством
func (r *AttemptRepo) ListByUser(userID uint, limit, offset int) ([]entity.Attempt, int64, error) {
	var attempts []entity.Attempt
	var total int64

	query := r.db.Model(&entity.Attempt{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}

// ListByUserSince возвращает все попытки пользователя после указанного момента
func (r *AttemptRepo) ListByUserSince(userID uint, since time.Time) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC, id ASC").
		Find(&attempts).Error
	return attempts, err
}

// CountByUser возвращает общее количество попыток пользователя
func (r *AttemptRepo) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Attempt{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func reverseAttempts(attempts []entity.Attempt) {
	for i, j := 0, len(attempts)-1; i < j; i, j = i+1, j-1 {
		attempts[i], attempts[j] = attempts[j], attempts[i]
	}
}
