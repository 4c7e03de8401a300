package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch создает пакет вопросов
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Устанавливаем кодировку UTF-8 внутри транзакции
		if err := tx.Exec("SET CLIENT_ENCODING TO 'UTF8'").Error; err != nil {
			return err
		}
		return tx.Create(&questions).Error
	})
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByIDs возвращает вопросы по списку ID, сохраняя порядок по id
func (r *QuestionRepo) GetByIDs(ids []uint) ([]entity.Question, error) {
	if len(ids) == 0 {
		return []entity.Question{}, nil
	}
	var questions []entity.Question
	err := r.db.Where("id IN ?", ids).Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Update обновляет информацию о вопросе
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Question{}, id).Error
}

// List возвращает вопросы с фильтрами по разделу и уровню, с total count.
// Пустой category и level=0 означают "без фильтра".
func (r *QuestionRepo) List(category entity.Category, level int, limit, offset int) ([]entity.Question, int64, error) {
	var questions []entity.Question
	var total int64

	query := r.db.Model(&entity.Question{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if level > 0 {
		query = query.Where("difficulty_level = ?", level)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("id DESC").Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// GetRandomByCategoryAndLevel возвращает случайные одобренные вопросы
// заданного раздела и уровня сложности
func (r *QuestionRepo) GetRandomByCategoryAndLevel(category entity.Category, level int, limit int, excludeIDs []uint) ([]entity.Question, error) {
	var questions []entity.Question

	query := r.db.Where("category = ? AND difficulty_level = ? AND approved = ?", category, level, true)

	// Исключаем вопросы, уже вошедшие в собираемый квиз
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	err := query.Order("RANDOM()").Limit(limit).Find(&questions).Error
	return questions, err
}

// CountByCategoryAndLevel возвращает количество одобренных вопросов
// заданного раздела и уровня
func (r *QuestionRepo) CountByCategoryAndLevel(category entity.Category, level int) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).
		Where("category = ? AND difficulty_level = ? AND approved = ?", category, level, true).
		Count(&count).Error
	return count, err
}

// GetPoolStats возвращает статистику пула вопросов
func (r *QuestionRepo) GetPoolStats() (total int64, approved int64, byCategory map[entity.Category]int64, err error) {
	byCategory = make(map[entity.Category]int64)

	// Всего вопросов в пуле
	if err = r.db.Model(&entity.Question{}).Count(&total).Error; err != nil {
		return 0, 0, nil, err
	}

	// Одобренных модерацией
	if err = r.db.Model(&entity.Question{}).Where("approved = ?", true).Count(&approved).Error; err != nil {
		return 0, 0, nil, err
	}

	// По разделам (только одобренные)
	for _, category := range entity.AllCategories() {
		var count int64
		if err = r.db.Model(&entity.Question{}).
			Where("approved = ? AND category = ?", true, category).
			Count(&count).Error; err != nil {
			return 0, 0, nil, err
		}
		byCategory[category] = count
	}

	return total, approved, byCategory, nil
}
