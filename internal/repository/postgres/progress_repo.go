package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

// ProgressRepo реализует repository.ProgressRepository
type ProgressRepo struct {
	db *gorm.DB
}

// NewProgressRepo создает новый репозиторий прогресса
func NewProgressRepo(db *gorm.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// GetOrCreate возвращает агрегат пары (пользователь, раздел),
// создавая пустой при первом обращении.
// Гонку двух параллельных создании разрешает уникальный индекс:
// проигравший получает 23505 и перечитывает строку победителя.
func (r *ProgressRepo) GetOrCreate(userID uint, category entity.Category) (*entity.UserProgress, error) {
	progress, err := r.get(r.db, userID, category)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	fresh := &entity.UserProgress{
		UserID:       userID,
		Category:     category,
		CurrentLevel: 2,
	}
	if createErr := r.db.Create(fresh).Error; createErr != nil {
		if isUniqueViolation(createErr) {
			return r.get(r.db, userID, category)
		}
		return nil, createErr
	}
	return fresh, nil
}

// GetByUser возвращает агрегаты всех разделов пользователя
func (r *ProgressRepo) GetByUser(userID uint) ([]entity.UserProgress, error) {
	var progress []entity.UserProgress
	err := r.db.Where("user_id = ?", userID).Order("category").Find(&progress).Error
	return progress, err
}

// Update сохраняет агрегат
func (r *ProgressRepo) Update(progress *entity.UserProgress) error {
	return r.db.Save(progress).Error
}

// RecordAttempt транзакционно сохраняет попытку и обновляет агрегат раздела
func (r *ProgressRepo) RecordAttempt(attempt *entity.Attempt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		progress, err := r.getForUpdate(tx, attempt.UserID, attempt.Category)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			progress = &entity.UserProgress{
				UserID:       attempt.UserID,
				Category:     attempt.Category,
				CurrentLevel: attempt.DifficultyLevel,
			}
			if createErr := tx.Create(progress).Error; createErr != nil {
				return createErr
			}
		}

		progress.RecordAttempt(attempt.IsCorrect, attempt.ScoreValue)
		progress.CurrentLevel = attempt.DifficultyLevel
		return tx.Save(progress).Error
	})
}

func (r *ProgressRepo) get(tx *gorm.DB, userID uint, category entity.Category) (*entity.UserProgress, error) {
	var progress entity.UserProgress
	err := tx.Where("user_id = ? AND category = ?", userID, category).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// getForUpdate блокирует строку агрегата на время транзакции
func (r *ProgressRepo) getForUpdate(tx *gorm.DB, userID uint, category entity.Category) (*entity.UserProgress, error) {
	var progress entity.UserProgress
	err := tx.Raw(
		"SELECT * FROM user_progress WHERE user_id = ? AND category = ? FOR UPDATE",
		userID, category,
	).Scan(&progress).Error
	if err != nil {
		return nil, err
	}
	if progress.ID == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &progress, nil
}
