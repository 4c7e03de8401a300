package entity

import "time"

// Attempt — одна записанная попытка ответа на вопрос.
// Движок адаптивности читает попытки только на чтение и никогда их не меняет.
type Attempt struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index:idx_attempts_user_created" json:"user_id"`
	QuestionID      uint      `gorm:"not null;index" json:"question_id"`
	Category        Category  `gorm:"size:30;not null;index" json:"category"`
	DifficultyLevel int       `gorm:"not null" json:"difficulty_level"`
	IsCorrect       bool      `gorm:"not null" json:"is_correct"`
	ElapsedSeconds  *int      `json:"elapsed_seconds,omitempty"` // NULL, если клиент не прислал время
	HintUsed        bool      `gorm:"not null;default:false" json:"hint_used"`
	ScoreValue      int       `gorm:"not null;default:0" json:"score_value"`
	CreatedAt       time.Time `gorm:"index:idx_attempts_user_created" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Attempt) TableName() string {
	return "attempts"
}

// HasElapsed возвращает true, если для попытки записано время ответа
func (a *Attempt) HasElapsed() bool {
	return a.ElapsedSeconds != nil
}
