package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

func TestUserService_GetLeaderboard_RanksFromOffset(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	users := []entity.User{
		{ID: 3, Username: "alice", CurrentLevel: 4, TotalScore: 900, BestStreak: 12},
		{ID: 7, Username: "bob", CurrentLevel: 3, TotalScore: 850, BestStreak: 9},
	}
	// Вторая страница по 10: смещение 10
	mockUserRepo.On("GetLeaderboard", 10, 10).Return(users, int64(25), nil)

	svc := NewUserService(mockUserRepo, new(MockProgressRepository))

	// Act
	resp, err := svc.GetLeaderboard(2, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(25), resp.Total)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, 11, resp.Users[0].Rank, "Ранг продолжается со смещения страницы")
	assert.Equal(t, 12, resp.Users[1].Rank)
	assert.Equal(t, "alice", resp.Users[0].Username)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_GetProgressOverview(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockProgressRepo := new(MockProgressRepository)

	user := &entity.User{ID: 1, Username: "student", CurrentLevel: 3, TotalScore: 480, BestStreak: 7}
	progress := []entity.UserProgress{
		{UserID: 1, Category: entity.CategoryIntervals, CurrentLevel: 3, TotalAttempts: 20, CorrectAttempts: 15, TotalScore: 300},
		{UserID: 1, Category: entity.CategoryChords, CurrentLevel: 2, TotalAttempts: 8, CorrectAttempts: 4, TotalScore: 180},
	}

	mockUserRepo.On("GetByID", uint(1)).Return(user, nil)
	mockProgressRepo.On("GetByUser", uint(1)).Return(progress, nil)

	svc := NewUserService(mockUserRepo, mockProgressRepo)

	// Act
	resp, err := svc.GetProgressOverview(1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, resp.CurrentLevel)
	assert.Equal(t, int64(480), resp.TotalScore)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, "intervals", resp.Categories[0].Category)
	assert.Equal(t, "Intervals", resp.Categories[0].DisplayName)
	assert.InDelta(t, 0.75, resp.Categories[0].Accuracy, 1e-9)
	assert.InDelta(t, 0.5, resp.Categories[1].Accuracy, 1e-9)
	mockUserRepo.AssertExpectations(t)
	mockProgressRepo.AssertExpectations(t)
}

func TestUserService_GetProgressOverview_UserNotFound(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByID", uint(42)).Return(nil, apperrors.ErrNotFound)

	svc := NewUserService(mockUserRepo, new(MockProgressRepository))

	// Act
	resp, err := svc.GetProgressOverview(42)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, resp)
}

func TestUserService_UpdateProfile(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("UpdateProfile", uint(1), map[string]interface{}{"username": "newname"}).Return(nil)
	mockUserRepo.On("GetByID", uint(1)).Return(&entity.User{ID: 1, Username: "newname"}, nil)

	svc := NewUserService(mockUserRepo, new(MockProgressRepository))

	// Act
	user, err := svc.UpdateProfile(1, "newname")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "newname", user.Username)
	mockUserRepo.AssertExpectations(t)
}
