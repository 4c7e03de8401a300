package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
	"github.com/yourusername/musictheory-api/internal/service"
)

// LearningHandler отдает наружу решения движка адаптивности
type LearningHandler struct {
	learningService *service.LearningService
}

// NewLearningHandler создает новый обработчик адаптивного обучения
func NewLearningHandler(learningService *service.LearningService) *LearningHandler {
	return &LearningHandler{learningService: learningService}
}

// GetProfile возвращает профиль успеваемости текущего пользователя
func (h *LearningHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	profile, err := h.learningService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetBehavior возвращает поведенческую сводку текущего пользователя
func (h *LearningHandler) GetBehavior(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	behavior, err := h.learningService.GetBehavior(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, behavior)
}

// AdjustDifficulty пересчитывает уровень сложности пользователя
func (h *LearningHandler) AdjustDifficulty(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req dto.AdjustDifficultyRequest
	// Тело опционально: пустой запрос означает стратегию из профиля
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	resp, err := h.learningService.AdjustDifficulty(userID, req.Strategy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PlanLearningPath строит учебный план до целевого уровня
func (h *LearningHandler) PlanLearningPath(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req dto.LearningPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	resp, err := h.learningService.PlanLearningPath(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GeneratePracticeQuiz собирает персонализированный квиз
func (h *LearningHandler) GeneratePracticeQuiz(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req dto.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	resp, err := h.learningService.GeneratePracticeQuiz(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPracticeQuiz возвращает сохраненный квиз с вопросами
func (h *LearningHandler) GetPracticeQuiz(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	quizID := c.MustGet("quizID").(uint)

	resp, err := h.learningService.GetPracticeQuiz(userID, quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CompletePracticeQuiz помечает квиз пройденным
func (h *LearningHandler) CompletePracticeQuiz(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	quizID := c.MustGet("quizID").(uint)

	if err := h.learningService.CompletePracticeQuiz(userID, quizID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz completed", "quiz_id": quizID})
}

// ExportProgress выгружает историю попыток в CSV или XLSX.
// Формат выбирается query-параметром format (по умолчанию csv).
func (h *LearningHandler) ExportProgress(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	attempts, err := h.learningService.GetProgressExportRows(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	switch format {
	case "csv":
		h.exportCSV(c, userID, attempts)
	case "xlsx":
		h.exportXLSX(c, userID, attempts)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx", "error_type": "invalid_request"})
	}
}

var exportHeader = []string{"Attempt ID", "Date", "Category", "Level", "Correct", "Elapsed Seconds", "Hint Used", "Score"}

// exportCSV пишет историю попыток в CSV с BOM для Excel
func (h *LearningHandler) exportCSV(c *gin.Context, userID uint, attempts []entity.Attempt) {
	filename := fmt.Sprintf("progress_%d_%s.csv", userID, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	// UTF-8 BOM, чтобы Excel корректно открывал кириллицу
	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		log.Printf("[LearningHandler] Ошибка записи BOM: %v", err)
		return
	}

	w := csv.NewWriter(c.Writer)
	if err := w.Write(exportHeader); err != nil {
		log.Printf("[LearningHandler] Ошибка записи заголовка CSV: %v", err)
		return
	}

	for i := range attempts {
		if err := w.Write(exportRow(&attempts[i])); err != nil {
			log.Printf("[LearningHandler] Ошибка записи строки CSV: %v", err)
			return
		}
	}
	w.Flush()
}

// exportXLSX пишет историю попыток в XLSX через StreamWriter
func (h *LearningHandler) exportXLSX(c *gin.Context, userID uint, attempts []entity.Attempt) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[LearningHandler] Ошибка закрытия XLSX файла: %v", err)
		}
	}()

	const sheetName = "Sheet1"
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		respondError(c, err)
		return
	}

	headerRow := make([]interface{}, len(exportHeader))
	for i, title := range exportHeader {
		headerRow[i] = title
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		respondError(c, err)
		return
	}

	for i := range attempts {
		row := exportRow(&attempts[i])
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = sanitizeForExcel(value)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, cells); err != nil {
			respondError(c, err)
			return
		}
	}

	if err := sw.Flush(); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("progress_%d_%s.xlsx", userID, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[LearningHandler] Ошибка записи XLSX в ответ: %v", err)
	}
}

// exportRow переводит попытку в строку выгрузки
func exportRow(a *entity.Attempt) []string {
	elapsed := ""
	if a.ElapsedSeconds != nil {
		elapsed = strconv.Itoa(*a.ElapsedSeconds)
	}
	return []string{
		strconv.FormatUint(uint64(a.ID), 10),
		a.CreatedAt.Format(time.RFC3339),
		a.Category.DisplayName(),
		strconv.Itoa(a.DifficultyLevel),
		strconv.FormatBool(a.IsCorrect),
		elapsed,
		strconv.FormatBool(a.HintUsed),
		strconv.Itoa(a.ScoreValue),
	}
}

// sanitizeForExcel экранирует значения, которые Excel мог бы принять за формулу
func sanitizeForExcel(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + value
	}
	return value
}
