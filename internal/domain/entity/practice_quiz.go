package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// CategoryCountMap - пользовательский тип для хранения распределения
// вопросов по разделам в JSONB
type CategoryCountMap map[Category]int

// Scan реализует интерфейс sql.Scanner для CategoryCountMap
func (m *CategoryCountMap) Scan(value interface{}) error {
	if value == nil {
		*m = CategoryCountMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*m = CategoryCountMap{}
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Value реализует интерфейс driver.Valuer для CategoryCountMap
func (m CategoryCountMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// UintArray - пользовательский тип для списка ID вопросов в JSONB
type UintArray []uint

// Scan реализует интерфейс sql.Scanner для UintArray
func (a *UintArray) Scan(value interface{}) error {
	if value == nil {
		*a = UintArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*a = UintArray{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для UintArray
func (a UintArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// PracticeQuiz — персонализированный квиз, собранный планировщиком
// под слабые разделы конкретного ученика
type PracticeQuiz struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	UserID          uint             `gorm:"not null;index" json:"user_id"`
	Title           string           `gorm:"size:100;not null" json:"title"`
	DifficultyLevel int              `gorm:"not null" json:"difficulty_level"`
	CategoryCounts  CategoryCountMap `gorm:"type:jsonb;not null" json:"category_counts"`
	QuestionIDs     UintArray        `gorm:"type:jsonb;not null" json:"question_ids"`
	Completed       bool             `gorm:"not null;default:false" json:"completed"`
	CreatedAt       time.Time        `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (PracticeQuiz) TableName() string {
	return "practice_quizzes"
}

// QuestionCount возвращает количество вопросов в квизе
func (q *PracticeQuiz) QuestionCount() int {
	return len(q.QuestionIDs)
}
