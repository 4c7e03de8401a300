package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/domain/repository"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
	"github.com/yourusername/musictheory-api/internal/service/adaptive"
)

// AttemptService записывает и оценивает попытки ответов.
// Это единственная точка, где ответ превращается в очки: оценка идет
// через движок, попытка и агрегат раздела сохраняются одной транзакцией.
type AttemptService struct {
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	progressRepo repository.ProgressRepository
	userRepo     repository.UserRepository
	cacheRepo    repository.CacheRepository
}

// NewAttemptService создает новый сервис попыток
func NewAttemptService(
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	progressRepo repository.ProgressRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
) *AttemptService {
	return &AttemptService{
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
		cacheRepo:    cacheRepo,
	}
}

// SubmitAnswer оценивает ответ пользователя и сохраняет попытку
func (s *AttemptService) SubmitAnswer(userID uint, req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error) {
	question, err := s.questionRepo.GetByID(req.QuestionID)
	if err != nil {
		return nil, err
	}

	if !question.IsValidOption(req.SelectedOption) {
		return nil, fmt.Errorf("%w: selected option %d is out of range", apperrors.ErrValidation, req.SelectedOption)
	}
	if req.ElapsedSeconds != nil && *req.ElapsedSeconds < 0 {
		return nil, fmt.Errorf("%w: elapsed_seconds cannot be negative", apperrors.ErrValidation)
	}

	correct := question.IsCorrect(req.SelectedOption)
	level, err := adaptive.NewDifficultyLevel(question.DifficultyLevel)
	if err != nil {
		level = adaptive.DefaultDifficultyLevel()
	}

	score := adaptive.EvaluateAttempt(correct, level, req.ElapsedSeconds, req.HintUsed)

	attempt := &entity.Attempt{
		UserID:          userID,
		QuestionID:      question.ID,
		Category:        question.Category,
		DifficultyLevel: question.DifficultyLevel,
		IsCorrect:       correct,
		ElapsedSeconds:  req.ElapsedSeconds,
		HintUsed:        req.HintUsed,
		ScoreValue:      score.Value(),
	}

	// Попытка и агрегат раздела сохраняются в одной транзакции
	if err := s.progressRepo.RecordAttempt(attempt); err != nil {
		log.Printf("[AttemptService] Ошибка записи попытки пользователя ID=%d: %v", userID, err)
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	streak := s.updateStreak(userID, correct)

	if err := s.userRepo.AddScore(userID, int64(score.Value()), streak); err != nil {
		// Счетчики пользователя вторичны к самой попытке, откат не нужен
		log.Printf("[AttemptService] Ошибка обновления счета пользователя ID=%d: %v", userID, err)
	}

	return &dto.AttemptResultResponse{
		AttemptID:     attempt.ID,
		IsCorrect:     correct,
		CorrectOption: question.CorrectOption,
		Explanation:   question.Explanation,
		Score:         score.Value(),
		MaxScore:      score.MaxValue(),
		Grade:         score.LetterGrade(),
		IsPassing:     score.IsPassing(),
		Streak:        streak,
	}, nil
}

// GetHistory возвращает пагинированную историю попыток пользователя
func (s *AttemptService) GetHistory(userID uint, page, pageSize int) (*dto.PaginatedAttemptResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize
	attempts, total, err := s.attemptRepo.ListByUser(userID, pageSize, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.AttemptHistoryItem, len(attempts))
	for i, a := range attempts {
		items[i] = &dto.AttemptHistoryItem{
			ID:              a.ID,
			QuestionID:      a.QuestionID,
			Category:        string(a.Category),
			DifficultyLevel: a.DifficultyLevel,
			IsCorrect:       a.IsCorrect,
			ElapsedSeconds:  a.ElapsedSeconds,
			HintUsed:        a.HintUsed,
			Score:           a.ScoreValue,
			CreatedAt:       a.CreatedAt,
		}
	}

	return &dto.PaginatedAttemptResponse{
		Attempts: items,
		Total:    total,
		Page:     page,
		PerPage:  pageSize,
	}, nil
}

// updateStreak ведет текущую серию правильных ответов в Redis.
// Ошибки кеша серию не роняют: в худшем случае счетчик начнется заново.
func (s *AttemptService) updateStreak(userID uint, correct bool) int {
	key := streakKey(userID)

	if !correct {
		if err := s.cacheRepo.Delete(key); err != nil {
			log.Printf("[AttemptService] Ошибка сброса серии пользователя ID=%d: %v", userID, err)
		}
		return 0
	}

	streak, err := s.cacheRepo.Increment(key)
	if err != nil {
		log.Printf("[AttemptService] Ошибка инкремента серии пользователя ID=%d: %v", userID, err)
		return 1
	}
	// Серия живет сутки с момента последнего правильного ответа
	if err := s.cacheRepo.ExpireAt(key, time.Now().Add(24*time.Hour)); err != nil {
		log.Printf("[AttemptService] Ошибка установки TTL серии пользователя ID=%d: %v", userID, err)
	}
	return int(streak)
}

func streakKey(userID uint) string {
	return fmt.Sprintf("practice:streak:%d", userID)
}
