package service

import (
	"fmt"
	"log"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/domain/repository"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
	"github.com/yourusername/musictheory-api/internal/service/adaptive"
)

// QuestionService предоставляет методы для авторинга вопросов.
// Каждое создание и изменение проходит через оценку качества:
// флаг approved и quality_score выставляются только движком.
type QuestionService struct {
	questionRepo repository.QuestionRepository
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(questionRepo repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// CreateQuestion валидирует, оценивает и сохраняет вопрос
func (s *QuestionService) CreateQuestion(question *entity.Question) (*adaptive.QuestionQualityAssessment, error) {
	if err := question.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	assessment := s.assess(question)
	question.Approved = assessment.Approved
	question.QualityScore = assessment.OverallScore

	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	log.Printf("[QuestionService] Вопрос ID=%d создан (approved=%t, score=%.2f)",
		question.ID, question.Approved, question.QualityScore)
	return &assessment, nil
}

// UpdateQuestion переоценивает и сохраняет измененный вопрос
func (s *QuestionService) UpdateQuestion(question *entity.Question) (*adaptive.QuestionQualityAssessment, error) {
	if err := question.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	assessment := s.assess(question)
	question.Approved = assessment.Approved
	question.QualityScore = assessment.OverallScore

	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return &assessment, nil
}

// CreateBatch оценивает и сохраняет пакет вопросов.
// Вопросы, не прошедшие валидацию, отклоняют весь пакет.
func (s *QuestionService) CreateBatch(questions []entity.Question) error {
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return fmt.Errorf("%w: question %d: %v", apperrors.ErrValidation, i, err)
		}
		assessment := s.assess(&questions[i])
		questions[i].Approved = assessment.Approved
		questions[i].QualityScore = assessment.OverallScore
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return fmt.Errorf("failed to create question batch: %w", err)
	}

	log.Printf("[QuestionService] Импортирован пакет из %d вопросов", len(questions))
	return nil
}

// GetQuestion возвращает вопрос по ID
func (s *QuestionService) GetQuestion(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// DeleteQuestion удаляет вопрос
func (s *QuestionService) DeleteQuestion(id uint) error {
	if _, err := s.questionRepo.GetByID(id); err != nil {
		return err
	}
	return s.questionRepo.Delete(id)
}

// ListQuestions возвращает вопросы с фильтрами и пагинацией
func (s *QuestionService) ListQuestions(category entity.Category, level, page, pageSize int) ([]entity.Question, int64, error) {
	if category != "" && !category.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, category)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize
	return s.questionRepo.List(category, level, pageSize, offset)
}

// AssessDraft оценивает черновик вопроса без сохранения
func (s *QuestionService) AssessDraft(question *entity.Question) adaptive.QuestionQualityAssessment {
	return s.assess(question)
}

// GetPoolStats возвращает статистику пула вопросов
func (s *QuestionService) GetPoolStats() (total int64, approved int64, byCategory map[entity.Category]int64, err error) {
	return s.questionRepo.GetPoolStats()
}

func (s *QuestionService) assess(question *entity.Question) adaptive.QuestionQualityAssessment {
	level, err := adaptive.NewDifficultyLevel(question.DifficultyLevel)
	if err != nil {
		level = adaptive.DefaultDifficultyLevel()
	}
	return adaptive.AssessQuestion(adaptive.QuestionDraft{
		Text:          question.Text,
		Options:       question.Options,
		CorrectOption: question.CorrectOption,
		Explanation:   question.Explanation,
		Category:      question.Category,
		Level:         level,
	})
}
