package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос по теории музыки
type Question struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Category        Category    `gorm:"size:30;not null;index:idx_questions_category_level" json:"category"`
	DifficultyLevel int         `gorm:"not null;index:idx_questions_category_level" json:"difficulty_level"`
	Text            string      `gorm:"size:500;not null" json:"text"`
	Options         StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption   int         `gorm:"not null" json:"-"` // Скрыто от клиента
	Explanation     string      `gorm:"size:1000;not null;default:''" json:"explanation"`
	Approved        bool        `gorm:"not null;default:false;index" json:"approved"`
	QualityScore    float64     `gorm:"not null;default:0" json:"quality_score"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption == q.CorrectOption
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// IsValidOption проверяет, является ли выбранный вариант допустимым
func (q *Question) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < len(q.Options)
}

// Validate проверяет структурные инварианты вопроса перед сохранением.
// Качество формулировки оценивается отдельно — здесь только целостность данных.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is required")
	}
	if !q.Category.IsValid() {
		return errors.New("unknown question category")
	}
	if q.DifficultyLevel < 1 || q.DifficultyLevel > 5 {
		return errors.New("difficulty level must be in [1,5]")
	}
	if len(q.Options) < 2 {
		return errors.New("question needs at least two options")
	}
	if !q.IsValidOption(q.CorrectOption) {
		return errors.New("correct option index out of range")
	}
	return nil
}
