package dto

import (
	"time"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/handler/helper"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// Правильный ответ и пояснение наружу не отдаются.
type QuestionResponse struct {
	ID              uint                    `json:"id"`
	Category        string                  `json:"category"`
	DifficultyLevel int                     `json:"difficulty_level"`
	Text            string                  `json:"text"`
	Options         []helper.QuestionOption `json:"options"`
	Approved        bool                    `json:"approved"`
	QualityScore    float64                 `json:"quality_score"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) *QuestionResponse {
	return &QuestionResponse{
		ID:              q.ID,
		Category:        string(q.Category),
		DifficultyLevel: q.DifficultyLevel,
		Text:            q.Text,
		Options:         helper.ConvertOptionsToObjects(q.Options),
		Approved:        q.Approved,
		QualityScore:    q.QualityScore,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

// PaginatedQuestionResponse представляет пагинированный список вопросов
type PaginatedQuestionResponse struct {
	Questions []*QuestionResponse `json:"questions"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	PerPage   int                 `json:"per_page"`
}

// QualityCheckDTO представляет результат одной проверки качества
type QualityCheckDTO struct {
	Name        string   `json:"name"`
	Score       float64  `json:"score"`
	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// QualityReportResponse представляет полный отчет о качестве вопроса
type QualityReportResponse struct {
	QuestionID   uint              `json:"question_id,omitempty"`
	Checks       []QualityCheckDTO `json:"checks"`
	OverallScore float64           `json:"overall_score"`
	Approved     bool              `json:"approved"`
}
