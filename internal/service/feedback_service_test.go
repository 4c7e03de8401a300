package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

func TestFeedbackService_Submit_Success(t *testing.T) {
	// Arrange
	mockFeedbackRepo := new(MockFeedbackRepository)
	mockUserRepo := new(MockUserRepository)

	mockUserRepo.On("GetByID", uint(1)).Return(&entity.User{ID: 1, Email: "student@example.com"}, nil)
	mockFeedbackRepo.On("Create", mock.AnythingOfType("*entity.Feedback")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.Feedback).ID = 9
	}).Return(nil)

	svc := NewFeedbackService(mockFeedbackRepo, mockUserRepo, &NoopEmailService{})

	// Act
	resp, err := svc.Submit(1, dto.SubmitFeedbackRequest{
		Subject: "Ошибка в вопросе про квинты",
		Message: "Вариант ответа 2 помечен правильным, но это кварта.",
		Rating:  4,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(9), resp.ID)
	assert.Equal(t, entity.FeedbackStatusNew, resp.Status, "Новое обращение создается в статусе new")
	mockFeedbackRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestFeedbackService_Submit_InvalidRating(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByID", uint(1)).Return(&entity.User{ID: 1}, nil)

	svc := NewFeedbackService(new(MockFeedbackRepository), mockUserRepo, &NoopEmailService{})

	// Act
	resp, err := svc.Submit(1, dto.SubmitFeedbackRequest{
		Subject: "Тема",
		Message: "Сообщение",
		Rating:  11,
	})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, resp)
}

func TestFeedbackService_ListByStatus_UnknownStatus(t *testing.T) {
	// Arrange
	svc := NewFeedbackService(new(MockFeedbackRepository), new(MockUserRepository), &NoopEmailService{})

	// Act
	resp, err := svc.ListByStatus("archived", 1, 20)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, resp)
}

func TestFeedbackService_ListByStatus(t *testing.T) {
	// Arrange
	mockFeedbackRepo := new(MockFeedbackRepository)
	items := []entity.Feedback{
		{ID: 1, UserID: 2, Subject: "a", Message: "b", Status: entity.FeedbackStatusNew, CreatedAt: time.Now()},
	}
	mockFeedbackRepo.On("ListByStatus", entity.FeedbackStatusNew, 20, 0).Return(items, int64(1), nil)

	svc := NewFeedbackService(mockFeedbackRepo, new(MockUserRepository), &NoopEmailService{})

	// Act
	resp, err := svc.ListByStatus(entity.FeedbackStatusNew, 1, 20)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, uint(1), resp.Items[0].ID)
	mockFeedbackRepo.AssertExpectations(t)
}

func TestFeedbackService_MarkReviewed(t *testing.T) {
	// Arrange
	mockFeedbackRepo := new(MockFeedbackRepository)
	feedback := &entity.Feedback{ID: 3, UserID: 1, Subject: "a", Message: "b", Status: entity.FeedbackStatusNew}

	mockFeedbackRepo.On("GetByID", uint(3)).Return(feedback, nil)
	mockFeedbackRepo.On("Update", mock.AnythingOfType("*entity.Feedback")).Return(nil)

	svc := NewFeedbackService(mockFeedbackRepo, new(MockUserRepository), &NoopEmailService{})

	// Act
	resp, err := svc.MarkReviewed(3)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.FeedbackStatusReviewed, resp.Status, "Обращение должно перейти в статус reviewed")
	mockFeedbackRepo.AssertExpectations(t)
}
