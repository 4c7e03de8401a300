package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
	"github.com/yourusername/musictheory-api/internal/service"
)

// FeedbackHandler обрабатывает обращения пользователей
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler создает новый обработчик обратной связи
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// Submit принимает новое обращение
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	resp, err := h.feedbackService.Submit(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListMine возвращает обращения текущего пользователя
func (h *FeedbackHandler) ListMine(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, err := h.feedbackService.ListForUser(userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// ListByStatus возвращает обращения в заданном статусе (админ)
func (h *FeedbackHandler) ListByStatus(c *gin.Context) {
	status := c.DefaultQuery("status", entity.FeedbackStatusNew)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.feedbackService.ListByStatus(status, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkReviewed переводит обращение в статус "рассмотрено" (админ)
func (h *FeedbackHandler) MarkReviewed(c *gin.Context) {
	feedbackID := c.MustGet("feedbackID").(uint)

	resp, err := h.feedbackService.MarkReviewed(feedbackID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
