package entity

import "time"

// UserProgress — агрегат успеваемости ученика по одному разделу.
// Обновляется транзакционно вместе с записью попытки; движок адаптивности
// его не читает — он работает по сырым попыткам.
type UserProgress struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex:idx_progress_user_category" json:"user_id"`
	Category        Category  `gorm:"size:30;not null;uniqueIndex:idx_progress_user_category" json:"category"`
	CurrentLevel    int       `gorm:"not null;default:2" json:"current_level"`
	TotalAttempts   int64     `gorm:"not null;default:0" json:"total_attempts"`
	CorrectAttempts int64     `gorm:"not null;default:0" json:"correct_attempts"`
	TotalScore      int64     `gorm:"not null;default:0" json:"total_score"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (UserProgress) TableName() string {
	return "user_progress"
}

// Accuracy возвращает долю правильных ответов по разделу
func (p *UserProgress) Accuracy() float64 {
	if p.TotalAttempts == 0 {
		return 0
	}
	return float64(p.CorrectAttempts) / float64(p.TotalAttempts)
}

// RecordAttempt учитывает попытку в агрегате
func (p *UserProgress) RecordAttempt(correct bool, scoreValue int) {
	p.TotalAttempts++
	if correct {
		p.CorrectAttempts++
	}
	p.TotalScore += int64(scoreValue)
}
