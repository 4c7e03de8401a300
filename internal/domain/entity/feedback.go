package entity

import (
	"errors"
	"strings"
	"time"
)

// Статусы обращений обратной связи
const (
	FeedbackStatusNew      = "new"
	FeedbackStatusReviewed = "reviewed"
)

// Feedback — обращение ученика: отзыв, жалоба на вопрос, предложение
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Subject   string    `gorm:"size:200;not null" json:"subject"`
	Message   string    `gorm:"size:2000;not null" json:"message"`
	Rating    int       `gorm:"not null;default:0" json:"rating"` // 1..5, 0 = без оценки
	Status    string    `gorm:"size:20;not null;default:'new';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Feedback) TableName() string {
	return "feedback"
}

// Validate проверяет обращение перед сохранением
func (f *Feedback) Validate() error {
	if strings.TrimSpace(f.Subject) == "" {
		return errors.New("feedback subject is required")
	}
	if strings.TrimSpace(f.Message) == "" {
		return errors.New("feedback message is required")
	}
	if f.Rating < 0 || f.Rating > 5 {
		return errors.New("rating must be in [1,5] or 0 for no rating")
	}
	return nil
}

// MarkReviewed переводит обращение в статус "рассмотрено"
func (f *Feedback) MarkReviewed() {
	f.Status = FeedbackStatusReviewed
}
