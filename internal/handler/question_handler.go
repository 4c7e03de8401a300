package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
	"github.com/yourusername/musictheory-api/internal/service"
	"github.com/yourusername/musictheory-api/internal/service/adaptive"
)

// QuestionHandler обрабатывает запросы авторинга вопросов (админ)
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// QuestionRequest представляет вопрос на создание или изменение
type QuestionRequest struct {
	Category        string   `json:"category" binding:"required"`
	DifficultyLevel int      `json:"difficulty_level" binding:"required,min=1,max=5"`
	Text            string   `json:"text" binding:"required"`
	Options         []string `json:"options" binding:"required,min=2,max=6"`
	CorrectOption   int      `json:"correct_option" binding:"min=0"`
	Explanation     string   `json:"explanation"`
}

// BatchQuestionRequest представляет пакет вопросов на импорт
type BatchQuestionRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,min=1,max=200"`
}

func (r *QuestionRequest) toEntity() *entity.Question {
	return &entity.Question{
		Category:        entity.Category(r.Category),
		DifficultyLevel: r.DifficultyLevel,
		Text:            r.Text,
		Options:         entity.StringArray(r.Options),
		CorrectOption:   r.CorrectOption,
		Explanation:     r.Explanation,
	}
}

func qualityReport(questionID uint, a *adaptive.QuestionQualityAssessment) dto.QualityReportResponse {
	checks := make([]dto.QualityCheckDTO, len(a.Checks))
	for i, check := range a.Checks {
		checks[i] = dto.QualityCheckDTO{
			Name:        check.Name,
			Score:       check.Score,
			Issues:      check.Issues,
			Suggestions: check.Suggestions,
		}
	}
	return dto.QualityReportResponse{
		QuestionID:   questionID,
		Checks:       checks,
		OverallScore: a.OverallScore,
		Approved:     a.Approved,
	}
}

// CreateQuestion создает вопрос; ответ содержит отчет о качестве
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	question := req.toEntity()
	assessment, err := h.questionService.CreateQuestion(question)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"question": dto.NewQuestionResponse(question),
		"quality":  qualityReport(question.ID, assessment),
	})
}

// UpdateQuestion изменяет вопрос с переоценкой качества
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	question := req.toEntity()
	question.ID = questionID

	assessment, err := h.questionService.UpdateQuestion(question)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": dto.NewQuestionResponse(question),
		"quality":  qualityReport(question.ID, assessment),
	})
}

// CreateBatch импортирует пакет вопросов
func (h *QuestionHandler) CreateBatch(c *gin.Context) {
	var req BatchQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	questions := make([]entity.Question, len(req.Questions))
	for i := range req.Questions {
		questions[i] = *req.Questions[i].toEntity()
	}

	if err := h.questionService.CreateBatch(questions); err != nil {
		respondError(c, err)
		return
	}

	approved := 0
	for i := range questions {
		if questions[i].Approved {
			approved++
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"imported": len(questions),
		"approved": approved,
	})
}

// GetQuestion возвращает вопрос по ID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	question, err := h.questionService.GetQuestion(questionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// ListQuestions возвращает вопросы с фильтрами category/level и пагинацией
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	category := entity.Category(c.Query("category"))
	level, _ := strconv.Atoi(c.DefaultQuery("level", "0"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	questions, total, err := h.questionService.ListQuestions(category, level, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]*dto.QuestionResponse, len(questions))
	for i := range questions {
		items[i] = dto.NewQuestionResponse(&questions[i])
	}

	c.JSON(http.StatusOK, dto.PaginatedQuestionResponse{
		Questions: items,
		Total:     total,
		Page:      page,
		PerPage:   pageSize,
	})
}

// DeleteQuestion удаляет вопрос
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.questionService.DeleteQuestion(questionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted", "question_id": questionID})
}

// AssessQuestion оценивает черновик вопроса без сохранения
func (h *QuestionHandler) AssessQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	assessment := h.questionService.AssessDraft(req.toEntity())
	c.JSON(http.StatusOK, qualityReport(0, &assessment))
}

// GetPoolStats возвращает статистику пула вопросов по разделам
func (h *QuestionHandler) GetPoolStats(c *gin.Context) {
	total, approved, byCategory, err := h.questionService.GetPoolStats()
	if err != nil {
		respondError(c, err)
		return
	}

	categories := make(map[string]int64, len(byCategory))
	for cat, n := range byCategory {
		categories[string(cat)] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"total":       total,
		"approved":    approved,
		"by_category": categories,
	})
}
