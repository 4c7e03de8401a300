package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/domain/repository"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

// FeedbackService обрабатывает обращения пользователей
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	userRepo     repository.UserRepository
	emailService EmailService
}

// NewFeedbackService создает новый сервис обратной связи
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Submit сохраняет новое обращение и отправляет подтверждение на почту
func (s *FeedbackService) Submit(userID uint, req dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	feedback := &entity.Feedback{
		UserID:  userID,
		Subject: req.Subject,
		Message: req.Message,
		Rating:  req.Rating,
		Status:  entity.FeedbackStatusNew,
	}
	if err := feedback.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.feedbackRepo.Create(feedback); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	// Подтверждение не должно задерживать ответ клиенту
	go func(email, subject string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.emailService.SendFeedbackAck(ctx, email, subject); err != nil {
			log.Printf("[FeedbackService] Ошибка отправки подтверждения на %s: %v", email, err)
		}
	}(user.Email, feedback.Subject)

	log.Printf("[FeedbackService] Обращение ID=%d от пользователя ID=%d", feedback.ID, userID)
	return feedbackResponse(feedback), nil
}

// ListForUser возвращает обращения пользователя
func (s *FeedbackService) ListForUser(userID uint, page, pageSize int) ([]*dto.FeedbackResponse, error) {
	page, pageSize = clampPage(page, pageSize)
	items, err := s.feedbackRepo.ListByUser(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.FeedbackResponse, len(items))
	for i := range items {
		responses[i] = feedbackResponse(&items[i])
	}
	return responses, nil
}

// ListByStatus возвращает обращения в заданном статусе (админ)
func (s *FeedbackService) ListByStatus(status string, page, pageSize int) (*dto.PaginatedFeedbackResponse, error) {
	if status != entity.FeedbackStatusNew && status != entity.FeedbackStatusReviewed {
		return nil, fmt.Errorf("%w: unknown feedback status %q", apperrors.ErrValidation, status)
	}

	page, pageSize = clampPage(page, pageSize)
	items, total, err := s.feedbackRepo.ListByStatus(status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.FeedbackResponse, len(items))
	for i := range items {
		responses[i] = feedbackResponse(&items[i])
	}
	return &dto.PaginatedFeedbackResponse{
		Items:   responses,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}, nil
}

// MarkReviewed переводит обращение в статус "рассмотрено" (админ)
func (s *FeedbackService) MarkReviewed(feedbackID uint) (*dto.FeedbackResponse, error) {
	feedback, err := s.feedbackRepo.GetByID(feedbackID)
	if err != nil {
		return nil, err
	}

	feedback.MarkReviewed()
	if err := s.feedbackRepo.Update(feedback); err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	return feedbackResponse(feedback), nil
}

func feedbackResponse(f *entity.Feedback) *dto.FeedbackResponse {
	return &dto.FeedbackResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		Subject:   f.Subject,
		Message:   f.Message,
		Rating:    f.Rating,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
	}
}

// clampPage приводит параметры пагинации к допустимым границам
func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
