package dto

import "time"

// SubmitFeedbackRequest представляет новое обращение пользователя
type SubmitFeedbackRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating"`
}

// FeedbackResponse представляет обращение в формате для ответа клиенту
type FeedbackResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PaginatedFeedbackResponse представляет пагинированный список обращений
type PaginatedFeedbackResponse struct {
	Items   []*FeedbackResponse `json:"items"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
}
