package service

import (
	"fmt"
	"log"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
	"github.com/yourusername/musictheory-api/internal/domain/repository"
	"github.com/yourusername/musictheory-api/internal/handler/dto"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"
	"github.com/yourusername/musictheory-api/internal/service/adaptive"
)

const (
	// defaultQuizSize — размер персонализированного квиза по умолчанию
	defaultQuizSize = 10
	// maxQuizSize — верхняя граница размера квиза
	maxQuizSize = 50
)

// LearningService — точка сборки движка адаптивности: загружает окно
// попыток, строит профиль и раздает решения движка наружу.
type LearningService struct {
	attemptRepo      repository.AttemptRepository
	userRepo         repository.UserRepository
	questionRepo     repository.QuestionRepository
	practiceQuizRepo repository.PracticeQuizRepository

	profileWindow   int
	defaultStrategy adaptive.Strategy
}

// NewLearningService создает новый сервис адаптивного обучения
func NewLearningService(
	attemptRepo repository.AttemptRepository,
	userRepo repository.UserRepository,
	questionRepo repository.QuestionRepository,
	practiceQuizRepo repository.PracticeQuizRepository,
	profileWindow int,
	defaultStrategy string,
) *LearningService {
	if profileWindow <= 0 {
		profileWindow = 50
	}
	strategy := adaptive.Strategy(defaultStrategy)
	if !strategy.IsValid() {
		strategy = adaptive.StrategyBalanced
	}

	return &LearningService{
		attemptRepo:      attemptRepo,
		userRepo:         userRepo,
		questionRepo:     questionRepo,
		practiceQuizRepo: practiceQuizRepo,
		profileWindow:    profileWindow,
		defaultStrategy:  strategy,
	}
}

// buildProfile загружает окно попыток и строит профиль
func (s *LearningService) buildProfile(userID uint) (adaptive.PerformanceProfile, error) {
	attempts, err := s.attemptRepo.GetRecentByUser(userID, s.profileWindow)
	if err != nil {
		return adaptive.PerformanceProfile{}, fmt.Errorf("failed to load attempts: %w", err)
	}
	return adaptive.BuildProfile(attempts, entity.AllCategories()), nil
}

// GetProfile возвращает профиль успеваемости пользователя
func (s *LearningService) GetProfile(userID uint) (*dto.ProfileResponse, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}

	profile, err := s.buildProfile(userID)
	if err != nil {
		return nil, err
	}

	categories := make([]dto.CategoryStatsDTO, 0, len(profile.Categories))
	for _, cat := range entity.AllCategories() {
		stats := profile.Categories[cat]
		categories = append(categories, dto.CategoryStatsDTO{
			Category:     string(cat),
			AverageLevel: stats.AverageLevel,
			RecentTrend:  stats.RecentTrend,
			Confidence:   stats.Confidence,
			Attempts:     stats.Attempts,
		})
	}

	return &dto.ProfileResponse{
		UserID:              userID,
		OverallAccuracy:     profile.OverallAccuracy,
		RecentAccuracy:      profile.RecentAccuracy,
		AverageResponseTime: profile.AverageResponseTime,
		RecentTrend:         profile.RecentTrend,
		Confidence:          profile.Confidence,
		TotalAttempts:       profile.TotalAttempts,
		Categories:          categories,
	}, nil
}

// GetBehavior возвращает поведенческую сводку пользователя
func (s *LearningService) GetBehavior(userID uint) (*dto.BehaviorResponse, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}

	attempts, err := s.attemptRepo.GetRecentByUser(userID, s.profileWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	summary := adaptive.AnalyzeBehavior(attempts)
	return &dto.BehaviorResponse{
		UserID:            userID,
		Consistency:       summary.TimeConsistency,
		LearningSpeed:     summary.ImprovementTrend,
		LearningStyle:     summary.LearningStyle,
		QuickResponseRate: summary.QuickResponseRate,
	}, nil
}

// AdjustDifficulty пересчитывает уровень пользователя и сохраняет решение.
// Пустая стратегия означает стратегию из профиля пользователя, затем
// стратегию из конфигурации.
func (s *LearningService) AdjustDifficulty(userID uint, strategyName string) (*dto.DifficultyResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	strategy := s.resolveStrategy(user, strategyName)

	current, err := adaptive.NewDifficultyLevel(user.CurrentLevel)
	if err != nil {
		current = adaptive.DefaultDifficultyLevel()
	}

	profile, err := s.buildProfile(userID)
	if err != nil {
		return nil, err
	}

	adjustment := adaptive.AdjustDifficulty(current, profile, strategy)

	if adjustment.NewLevel.Value() != user.CurrentLevel || string(strategy) != user.Strategy {
		if err := s.userRepo.UpdateLevel(userID, adjustment.NewLevel.Value(), string(strategy)); err != nil {
			log.Printf("[LearningService] Ошибка сохранения уровня пользователя ID=%d: %v", userID, err)
			return nil, err
		}
	}

	log.Printf("[LearningService] Пользователь ID=%d: уровень %d -> %d (%s, доверие %.2f)",
		userID, user.CurrentLevel, adjustment.NewLevel.Value(), adjustment.Reason, adjustment.Confidence)

	return &dto.DifficultyResponse{
		PreviousLevel: user.CurrentLevel,
		NewLevel:      adjustment.NewLevel.Value(),
		Reason:        adjustment.Reason,
		Confidence:    adjustment.Confidence,
		Strategy:      string(strategy),
	}, nil
}

// PlanLearningPath строит учебный план от текущего уровня к целевому
func (s *LearningService) PlanLearningPath(userID uint, req dto.LearningPathRequest) (*dto.LearningPathResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	target, err := adaptive.NewDifficultyLevel(req.TargetLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: target_level must be in [1,5]", apperrors.ErrValidation)
	}

	current, err := adaptive.NewDifficultyLevel(user.CurrentLevel)
	if err != nil {
		current = adaptive.DefaultDifficultyLevel()
	}

	focus := make([]entity.Category, 0, len(req.FocusCategories))
	for _, raw := range req.FocusCategories {
		cat := entity.Category(raw)
		if !cat.IsValid() {
			return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, raw)
		}
		focus = append(focus, cat)
	}
	if len(focus) == 0 {
		// Без явного фокуса план ведет по слабым разделам профиля
		profile, profErr := s.buildProfile(userID)
		if profErr != nil {
			return nil, profErr
		}
		focus = weakCategories(profile)
	}

	dailyMinutes := req.DailyMinutes
	if dailyMinutes <= 0 {
		dailyMinutes = 20
	}

	path := adaptive.PlanLearningPath(current, target, focus, dailyMinutes)

	phases := make([]dto.LearningPhaseDTO, len(path.Phases))
	for i, phase := range path.Phases {
		cats := make([]string, len(phase.FocusCategories))
		for j, cat := range phase.FocusCategories {
			cats[j] = string(cat)
		}
		phases[i] = dto.LearningPhaseDTO{
			Level:           phase.Level.Value(),
			LevelName:       phase.Level.Name(),
			FocusCategories: cats,
			QuestionCount:   phase.QuestionCount,
			DurationMinutes: phase.DurationMinutes,
			Milestones:      phase.Milestones,
		}
	}

	estimatedDays := 0
	if dailyMinutes > 0 {
		estimatedDays = (path.TotalDurationMinutes + dailyMinutes - 1) / dailyMinutes
	}

	return &dto.LearningPathResponse{
		CurrentLevel:         path.CurrentLevel.Value(),
		TargetLevel:          path.TargetLevel.Value(),
		TotalDurationMinutes: path.TotalDurationMinutes,
		EstimatedDays:        estimatedDays,
		Phases:               phases,
	}, nil
}

// GeneratePracticeQuiz собирает персонализированный квиз по распределению
// движка: слабые разделы получают больше вопросов
func (s *LearningService) GeneratePracticeQuiz(userID uint, req dto.GenerateQuizRequest) (*dto.PracticeQuizResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	total := req.QuestionCount
	if total <= 0 {
		total = defaultQuizSize
	}
	if total > maxQuizSize {
		total = maxQuizSize
	}

	profile, err := s.buildProfile(userID)
	if err != nil {
		return nil, err
	}

	allocation := adaptive.AllocateCategories(profile, total)

	level := user.CurrentLevel
	var questions []entity.Question
	var questionIDs []uint

	for _, cat := range entity.AllCategories() {
		count := allocation.Counts[cat]
		if count == 0 {
			continue
		}

		drawn, drawErr := s.drawQuestions(cat, level, count, questionIDs)
		if drawErr != nil {
			return nil, drawErr
		}
		for _, q := range drawn {
			questionIDs = append(questionIDs, q.ID)
		}
		questions = append(questions, drawn...)
	}

	if len(questions) == 0 {
		return nil, ErrNotEnoughQuestions
	}

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("Practice quiz — level %d", level)
	}

	counts := entity.CategoryCountMap{}
	for cat, n := range allocation.Counts {
		if n > 0 {
			counts[cat] = n
		}
	}

	quiz := &entity.PracticeQuiz{
		UserID:          userID,
		Title:           title,
		DifficultyLevel: level,
		CategoryCounts:  counts,
		QuestionIDs:     questionIDs,
	}
	if err := s.practiceQuizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to save practice quiz: %w", err)
	}

	log.Printf("[LearningService] Собран квиз ID=%d для пользователя ID=%d: %d вопросов, уровень %d",
		quiz.ID, userID, len(questions), level)

	return s.quizResponse(quiz, questions), nil
}

// GetPracticeQuiz возвращает сохраненный квиз вместе с вопросами
func (s *LearningService) GetPracticeQuiz(userID, quizID uint) (*dto.PracticeQuizResponse, error) {
	quiz, err := s.practiceQuizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	questions, err := s.questionRepo.GetByIDs(quiz.QuestionIDs)
	if err != nil {
		return nil, err
	}

	return s.quizResponse(quiz, questions), nil
}

// CompletePracticeQuiz помечает квиз пройденным
func (s *LearningService) CompletePracticeQuiz(userID, quizID uint) error {
	quiz, err := s.practiceQuizRepo.GetByID(quizID)
	if err != nil {
		return err
	}
	if quiz.UserID != userID {
		return apperrors.ErrForbidden
	}
	return s.practiceQuizRepo.MarkCompleted(quizID)
}

// GetProgressExportRows возвращает историю попыток пользователя для экспорта
func (s *LearningService) GetProgressExportRows(userID uint) ([]entity.Attempt, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	attempts, _, err := s.attemptRepo.ListByUser(userID, maxExportRows, 0)
	return attempts, err
}

// maxExportRows ограничивает размер выгрузки истории
const maxExportRows = 10000

// drawQuestions подбирает count одобренных вопросов раздела.
// Если на уровне пользователя вопросов не хватает, добирает с соседних
// уровней (сначала ниже, потом выше).
func (s *LearningService) drawQuestions(cat entity.Category, level, count int, excludeIDs []uint) ([]entity.Question, error) {
	questions, err := s.questionRepo.GetRandomByCategoryAndLevel(cat, level, count, excludeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to draw questions for %s: %w", cat, err)
	}

	for _, fallback := range []int{level - 1, level + 1} {
		if len(questions) >= count || fallback < 1 || fallback > 5 {
			continue
		}
		exclude := append(append([]uint{}, excludeIDs...), idsOf(questions)...)
		more, moreErr := s.questionRepo.GetRandomByCategoryAndLevel(cat, fallback, count-len(questions), exclude)
		if moreErr != nil {
			return nil, fmt.Errorf("failed to draw questions for %s: %w", cat, moreErr)
		}
		questions = append(questions, more...)
	}

	return questions, nil
}

func (s *LearningService) quizResponse(quiz *entity.PracticeQuiz, questions []entity.Question) *dto.PracticeQuizResponse {
	questionDTOs := make([]*dto.QuestionResponse, len(questions))
	for i := range questions {
		questionDTOs[i] = dto.NewQuestionResponse(&questions[i])
	}

	counts := make(map[string]int, len(quiz.CategoryCounts))
	for cat, n := range quiz.CategoryCounts {
		counts[string(cat)] = n
	}

	return &dto.PracticeQuizResponse{
		ID:              quiz.ID,
		Title:           quiz.Title,
		DifficultyLevel: quiz.DifficultyLevel,
		CategoryCounts:  counts,
		Questions:       questionDTOs,
		CreatedAt:       quiz.CreatedAt,
	}
}

// resolveStrategy выбирает стратегию: запрос > профиль пользователя > конфигурация
func (s *LearningService) resolveStrategy(user *entity.User, requested string) adaptive.Strategy {
	if strategy := adaptive.Strategy(requested); requested != "" && strategy.IsValid() {
		return strategy
	}
	if strategy := adaptive.Strategy(user.Strategy); strategy.IsValid() {
		return strategy
	}
	return s.defaultStrategy
}

// weakCategories возвращает разделы с точностью ниже порога освоения,
// от самых слабых к сильным
func weakCategories(profile adaptive.PerformanceProfile) []entity.Category {
	var weak []entity.Category
	for _, cat := range entity.AllCategories() {
		stats, ok := profile.Categories[cat]
		if !ok || stats.Attempts == 0 {
			continue
		}
		if stats.Confidence < 0.6 {
			weak = append(weak, cat)
		}
	}
	if len(weak) == 0 {
		return entity.AllCategories()
	}
	return weak
}

func idsOf(questions []entity.Question) []uint {
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
