package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
)

// goodQuestion возвращает вопрос, проходящий все проверки качества
func goodQuestion() *entity.Question {
	return &entity.Question{
		Category:        entity.CategoryIntervals,
		DifficultyLevel: 2,
		Text:            "Какой интервал образуют ноты C и G?",
		Options:         entity.StringArray{"Кварта", "Квинта", "Секста", "Октава"},
		CorrectOption:   1,
		Explanation:     "C–G охватывает пять ступеней диатоники, это чистая квинта.",
	}
}

func TestQuestionService_CreateQuestion_ApprovesGoodQuestion(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockQuestionRepo.On("Create", mock.AnythingOfType("*entity.Question")).Return(nil)

	svc := NewQuestionService(mockQuestionRepo)
	question := goodQuestion()

	// Act
	assessment, err := svc.CreateQuestion(question)

	// Assert
	require.NoError(t, err)
	assert.True(t, assessment.Approved, "Полный вопрос с объяснением должен быть одобрен")
	assert.True(t, question.Approved, "Флаг одобрения должен быть перенесен на сущность")
	assert.InDelta(t, assessment.OverallScore, question.QualityScore, 1e-9)
	assert.Len(t, assessment.Checks, 5, "Оценка состоит из пяти независимых проверок")
	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_CreateQuestion_MissingExplanationNotApproved(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockQuestionRepo.On("Create", mock.AnythingOfType("*entity.Question")).Return(nil)

	svc := NewQuestionService(mockQuestionRepo)
	question := goodQuestion()
	question.Explanation = ""

	// Act
	assessment, err := svc.CreateQuestion(question)

	// Assert
	require.NoError(t, err, "Вопрос без объяснения сохраняется, но не одобряется")
	assert.False(t, assessment.Approved, "Замечание блокирует одобрение независимо от среднего балла")
	assert.False(t, question.Approved)
	assert.Positive(t, assessment.IssueCount())
	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_CreateQuestion_InvalidQuestion(t *testing.T) {
	// Arrange
	svc := NewQuestionService(new(MockQuestionRepository))
	question := goodQuestion()
	question.Text = ""

	// Act
	assessment, err := svc.CreateQuestion(question)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Невалидный вопрос не должен доходить до репозитория")
	assert.Nil(t, assessment)
}

func TestQuestionService_CreateBatch_RejectsWholeBatchOnInvalid(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	svc := NewQuestionService(mockQuestionRepo)

	bad := *goodQuestion()
	bad.Options = entity.StringArray{"Одна"}
	questions := []entity.Question{*goodQuestion(), bad}

	// Act
	err := svc.CreateBatch(questions)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mockQuestionRepo.AssertNotCalled(t, "CreateBatch", mock.Anything)
}

func TestQuestionService_CreateBatch_AssessesEveryQuestion(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockQuestionRepo.On("CreateBatch", mock.AnythingOfType("[]entity.Question")).Return(nil)

	svc := NewQuestionService(mockQuestionRepo)

	noExplanation := *goodQuestion()
	noExplanation.Explanation = ""
	questions := []entity.Question{*goodQuestion(), noExplanation}

	// Act
	err := svc.CreateBatch(questions)

	// Assert
	require.NoError(t, err)
	assert.True(t, questions[0].Approved, "Полный вопрос одобрен")
	assert.False(t, questions[1].Approved, "Вопрос без объяснения не одобрен")
	assert.Positive(t, questions[0].QualityScore)
	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_ListQuestions_UnknownCategory(t *testing.T) {
	// Arrange
	svc := NewQuestionService(new(MockQuestionRepository))

	// Act
	questions, total, err := svc.ListQuestions("polyphony", 0, 1, 20)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, questions)
	assert.Zero(t, total)
}

func TestQuestionService_ListQuestions_ClampsPagination(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockQuestionRepo.On("List", entity.CategoryIntervals, 2, 100, 0).Return([]entity.Question{}, int64(0), nil)

	svc := NewQuestionService(mockQuestionRepo)

	// Act
	_, _, err := svc.ListQuestions(entity.CategoryIntervals, 2, 0, 500)

	// Assert
	require.NoError(t, err)
	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_DeleteQuestion_NotFound(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepository)
	mockQuestionRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	svc := NewQuestionService(mockQuestionRepo)

	// Act
	err := svc.DeleteQuestion(99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockQuestionRepo.AssertNotCalled(t, "Delete", mock.Anything)
}
