package dto

import "time"

// CategoryStatsDTO представляет срез профиля по одному разделу
type CategoryStatsDTO struct {
	Category     string  `json:"category"`
	AverageLevel float64 `json:"average_level"`
	RecentTrend  float64 `json:"recent_trend"`
	Confidence   float64 `json:"confidence"`
	Attempts     int     `json:"attempts"`
}

// ProfileResponse представляет профиль успеваемости пользователя
type ProfileResponse struct {
	UserID              uint               `json:"user_id"`
	OverallAccuracy     float64            `json:"overall_accuracy"`
	RecentAccuracy      float64            `json:"recent_accuracy"`
	AverageResponseTime *float64           `json:"average_response_time,omitempty"`
	RecentTrend         float64            `json:"recent_trend"`
	Confidence          float64            `json:"confidence"`
	TotalAttempts       int                `json:"total_attempts"`
	Categories          []CategoryStatsDTO `json:"categories"`
}

// BehaviorResponse представляет поведенческую сводку
type BehaviorResponse struct {
	UserID            uint    `json:"user_id"`
	Consistency       string  `json:"consistency"`
	LearningSpeed     string  `json:"learning_speed"`
	LearningStyle     string  `json:"learning_style"`
	QuickResponseRate float64 `json:"quick_response_rate"`
}

// AdjustDifficultyRequest задает стратегию для пересчета уровня
type AdjustDifficultyRequest struct {
	Strategy string `json:"strategy,omitempty"`
}

// DifficultyResponse представляет решение движка адаптивности
type DifficultyResponse struct {
	PreviousLevel int     `json:"previous_level"`
	NewLevel      int     `json:"new_level"`
	Reason        string  `json:"reason"`
	Confidence    float64 `json:"confidence"`
	Strategy      string  `json:"strategy"`
}

// LearningPathRequest задает параметры генерации учебного плана
type LearningPathRequest struct {
	TargetLevel     int      `json:"target_level" binding:"required"`
	FocusCategories []string `json:"focus_categories,omitempty"`
	DailyMinutes    int      `json:"daily_minutes"`
}

// LearningPhaseDTO представляет один этап учебного плана
type LearningPhaseDTO struct {
	Level           int      `json:"level"`
	LevelName       string   `json:"level_name"`
	FocusCategories []string `json:"focus_categories"`
	QuestionCount   int      `json:"question_count"`
	DurationMinutes int      `json:"duration_minutes"`
	Milestones      []string `json:"milestones"`
}

// LearningPathResponse представляет учебный план целиком
type LearningPathResponse struct {
	CurrentLevel         int                `json:"current_level"`
	TargetLevel          int                `json:"target_level"`
	TotalDurationMinutes int                `json:"total_duration_minutes"`
	EstimatedDays        int                `json:"estimated_days"`
	Phases               []LearningPhaseDTO `json:"phases"`
}

// GenerateQuizRequest задает параметры сборки персонализированного квиза
type GenerateQuizRequest struct {
	QuestionCount int    `json:"question_count"`
	Title         string `json:"title,omitempty"`
}

// PracticeQuizResponse представляет собранный квиз
type PracticeQuizResponse struct {
	ID              uint                `json:"id"`
	Title           string              `json:"title"`
	DifficultyLevel int                 `json:"difficulty_level"`
	CategoryCounts  map[string]int      `json:"category_counts"`
	Questions       []*QuestionResponse `json:"questions"`
	CreatedAt       time.Time           `json:"created_at"`
}
