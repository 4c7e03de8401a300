package dto

import "time"

// SubmitAttemptRequest представляет ответ пользователя на вопрос
type SubmitAttemptRequest struct {
	QuestionID     uint `json:"question_id" binding:"required"`
	SelectedOption int  `json:"selected_option"`
	ElapsedSeconds *int `json:"elapsed_seconds,omitempty"`
	HintUsed       bool `json:"hint_used"`
}

// AttemptResultResponse представляет оцененную попытку
type AttemptResultResponse struct {
	AttemptID     uint   `json:"attempt_id"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectOption int    `json:"correct_option"`
	Explanation   string `json:"explanation,omitempty"`
	Score         int    `json:"score"`
	MaxScore      int    `json:"max_score"`
	Grade         string `json:"grade"`
	IsPassing     bool   `json:"is_passing"`
	Streak        int    `json:"streak"`
}

// AttemptHistoryItem представляет одну попытку в истории
type AttemptHistoryItem struct {
	ID              uint      `json:"id"`
	QuestionID      uint      `json:"question_id"`
	Category        string    `json:"category"`
	DifficultyLevel int       `json:"difficulty_level"`
	IsCorrect       bool      `json:"is_correct"`
	ElapsedSeconds  *int      `json:"elapsed_seconds,omitempty"`
	HintUsed        bool      `json:"hint_used"`
	Score           int       `json:"score"`
	CreatedAt       time.Time `json:"created_at"`
}

// PaginatedAttemptResponse представляет пагинированную историю попыток
type PaginatedAttemptResponse struct {
	Attempts []*AttemptHistoryItem `json:"attempts"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PerPage  int                   `json:"per_page"`
}
