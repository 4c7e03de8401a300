package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

func testQuestion() *entity.Question {
	return &entity.Question{
		ID:              10,
		Category:        entity.CategoryIntervals,
		DifficultyLevel: 3,
		Text:            "Какой интервал между нотами C и G?",
		Options:         entity.StringArray{"Кварта", "Квинта", "Секста", "Октава"},
		CorrectOption:   1,
		Explanation:     "C–G охватывает пять ступеней, это чистая квинта.",
		Approved:        true,
	}
}

func createTestAttemptService(
	questionRepo *MockQuestionRepository,
	attemptRepo *MockAttemptRepository,
	progressRepo *MockProgressRepository,
	userRepo *MockUserRepository,
	cacheRepo *MockCacheRepository,
) *AttemptService {
	return &AttemptService{
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
		cacheRepo:    cacheRepo,
	}
}

func TestAttemptService_SubmitAnswer_Correct(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockProgressRepo := new(MockProgressRepository)
	mockUserRepo := new(MockUserRepository)
	mockCacheRepo := new(MockCacheRepository)

	mockQuestionRepo.On("GetByID", uint(10)).Return(testQuestion(), nil)
	mockProgressRepo.On("RecordAttempt", mock.AnythingOfType("*entity.Attempt")).Return(nil)
	mockCacheRepo.On("Increment", "practice:streak:1").Return(int64(4), nil)
	mockCacheRepo.On("ExpireAt", "practice:streak:1", mock.AnythingOfType("time.Time")).Return(nil)
	mockUserRepo.On("AddScore", uint(1), int64(50), 4).Return(nil)

	svc := createTestAttemptService(mockQuestionRepo, new(MockAttemptRepository), mockProgressRepo, mockUserRepo, mockCacheRepo)

	elapsed := 12
	// Act
	result, err := svc.SubmitAnswer(1, dto.SubmitAttemptRequest{
		QuestionID:     10,
		SelectedOption: 1,
		ElapsedSeconds: &elapsed,
		HintUsed:       true,
	})

	// Assert
	require.NoError(t, err, "Попытка должна быть записана")
	assert.True(t, result.IsCorrect)
	// Уровень 3 дает базу 60; 12 секунд — без бонуса и штрафа; подсказка −10
	assert.Equal(t, 50, result.Score, "Очки: база 60 минус штраф 10 за подсказку")
	assert.Equal(t, 100, result.MaxScore)
	assert.Equal(t, 4, result.Streak, "Серия должна прийти из кеша")
	assert.Equal(t, 1, result.CorrectOption, "Правильный вариант раскрывается после ответа")
	assert.NotEmpty(t, result.Explanation)

	// Запись попытки несет очки и категорию вопроса
	recorded := mockProgressRepo.Calls[0].Arguments.Get(0).(*entity.Attempt)
	assert.Equal(t, entity.CategoryIntervals, recorded.Category)
	assert.Equal(t, 3, recorded.DifficultyLevel)
	assert.True(t, recorded.IsCorrect)
	assert.Equal(t, 50, recorded.ScoreValue)

	mockQuestionRepo.AssertExpectations(t)
	mockProgressRepo.AssertExpectations(t)
	mockCacheRepo.AssertExpectations(t)
}

func TestAttemptService_SubmitAnswer_WrongResetsStreak(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockProgressRepo := new(MockProgressRepository)
	mockUserRepo := new(MockUserRepository)
	mockCacheRepo := new(MockCacheRepository)

	mockQuestionRepo.On("GetByID", uint(10)).Return(testQuestion(), nil)
	mockProgressRepo.On("RecordAttempt", mock.AnythingOfType("*entity.Attempt")).Return(nil)
	mockCacheRepo.On("Delete", "practice:streak:1").Return(nil)
	mockUserRepo.On("AddScore", uint(1), int64(0), 0).Return(nil)

	svc := createTestAttemptService(mockQuestionRepo, new(MockAttemptRepository), mockProgressRepo, mockUserRepo, mockCacheRepo)

	// Act
	result, err := svc.SubmitAnswer(1, dto.SubmitAttemptRequest{QuestionID: 10, SelectedOption: 0})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.Score, "Неправильный ответ дает 0 очков")
	assert.Equal(t, 0, result.Streak, "Неправильный ответ сбрасывает серию")
	assert.Equal(t, "F", result.Grade)
	mockCacheRepo.AssertExpectations(t)
}

func TestAttemptService_SubmitAnswer_InvalidOption(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockQuestionRepo.On("GetByID", uint(10)).Return(testQuestion(), nil)

	svc := createTestAttemptService(mockQuestionRepo, new(MockAttemptRepository), new(MockProgressRepository), new(MockUserRepository), new(MockCacheRepository))

	// Act
	result, err := svc.SubmitAnswer(1, dto.SubmitAttemptRequest{QuestionID: 10, SelectedOption: 9})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Вариант вне диапазона должен отклоняться")
	assert.Nil(t, result)
}

func TestAttemptService_SubmitAnswer_NegativeElapsed(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockQuestionRepo.On("GetByID", uint(10)).Return(testQuestion(), nil)

	svc := createTestAttemptService(mockQuestionRepo, new(MockAttemptRepository), new(MockProgressRepository), new(MockUserRepository), new(MockCacheRepository))

	elapsed := -5
	// Act
	result, err := svc.SubmitAnswer(1, dto.SubmitAttemptRequest{QuestionID: 10, SelectedOption: 1, ElapsedSeconds: &elapsed})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Отрицательное время должно отклоняться")
	assert.Nil(t, result)
}

func TestAttemptService_SubmitAnswer_QuestionNotFound(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockQuestionRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	svc := createTestAttemptService(mockQuestionRepo, new(MockAttemptRepository), new(MockProgressRepository), new(MockUserRepository), new(MockCacheRepository))

	// Act
	result, err := svc.SubmitAnswer(1, dto.SubmitAttemptRequest{QuestionID: 99, SelectedOption: 0})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, result)
}

func TestAttemptService_SubmitAnswer_CacheFailureDoesNotBlock(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockProgressRepo := new(MockProgressRepository)
	mockUserRepo := new(MockUserRepository)
	mockCacheRepo := new(MockCacheRepository)

	mockQuestionRepo.On("GetByID", uint(10)).Return(testQuestion(), nil)
	mockProgressRepo.On("RecordAttempt", mock.AnythingOfType("*entity.Attempt")).Return(nil)
	mockCacheRepo.On("Increment", "practice:streak:1").Return(int64(0), errors.New("redis down"))
	mockUserRepo.On("AddScore", uint(1), int64(60), 1).Return(nil)

	svc := createTestAttemptService(mockQuestionRepo, new(MockAttemptRepository), mockProgressRepo, mockUserRepo, mockCacheRepo)

	// Act
	result, err := svc.SubmitAnswer(1, dto.SubmitAttemptRequest{QuestionID: 10, SelectedOption: 1})

	// Assert
	require.NoError(t, err, "Падение кеша не должно ронять запись попытки")
	assert.Equal(t, 1, result.Streak, "При ошибке кеша серия начинается заново")
	mockCacheRepo.AssertExpectations(t)
}

func TestAttemptService_GetHistory_Pagination(t *testing.T) {
	// Arrange
	mockAttemptRepo := new(MockAttemptRepository)
	now := time.Now()
	attempts := []entity.Attempt{
		{ID: 2, QuestionID: 10, Category: entity.CategoryIntervals, DifficultyLevel: 3, IsCorrect: true, ScoreValue: 60, CreatedAt: now},
		{ID: 1, QuestionID: 11, Category: entity.CategoryChords, DifficultyLevel: 2, IsCorrect: false, ScoreValue: 0, CreatedAt: now.Add(-time.Minute)},
	}
	mockAttemptRepo.On("ListByUser", uint(1), 20, 0).Return(attempts, int64(2), nil)

	svc := createTestAttemptService(new(MockQuestionRepository), mockAttemptRepo, new(MockProgressRepository), new(MockUserRepository), new(MockCacheRepository))

	// Act: параметры вне диапазона приводятся к дефолтам
	resp, err := svc.GetHistory(1, 0, -1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PerPage)
	require.Len(t, resp.Attempts, 2)
	assert.Equal(t, uint(2), resp.Attempts[0].ID)
	assert.Equal(t, "intervals", resp.Attempts[0].Category)
	mockAttemptRepo.AssertExpectations(t)
}
