package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
	"github.com/yourusername/musictheory-api/internal/service"
)

// AttemptHandler обрабатывает попытки ответов
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// SubmitAnswer принимает ответ на вопрос и возвращает оценку
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req dto.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	result, err := h.attemptService.SubmitAnswer(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHistory возвращает пагинированную историю попыток пользователя
func (h *AttemptHandler) GetHistory(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.attemptService.GetHistory(userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
