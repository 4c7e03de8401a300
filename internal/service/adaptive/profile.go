package adaptive

import (
	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// Константы профиля производительности
const (
	// recentWindowSize — размер окна "недавних" попыток для тренда и точности
	recentWindowSize = 10

	// categoryWindowSize — окно попыток по отдельному разделу
	categoryWindowSize = 5

	// Нейтральный дефолт для ученика без истории. Дефолт осознанный:
	// новый ученик должен получить стартовую сложность, а не ошибку.
	defaultAccuracy      = 0.5
	defaultConfidence    = 0.5
	defaultCategoryLevel = 2.0
)

// CategoryStats — статистика ученика по одному разделу
type CategoryStats struct {
	AverageLevel float64 `json:"average_level"`
	RecentTrend  float64 `json:"recent_trend"`
	Confidence   float64 `json:"confidence"`
	Attempts     int     `json:"attempts"`
}

// PerformanceProfile — агрегированная статистика по окну попыток.
// Строится заново на каждый вызов, нигде не кешируется и не мутируется.
type PerformanceProfile struct {
	// OverallAccuracy — доля правильных ответов по всему окну, [0,1]
	OverallAccuracy float64 `json:"overall_accuracy"`

	// RecentAccuracy — точность по последним min(10, n) попыткам.
	// Именно её используют стратегии адаптации, а не общую точность.
	RecentAccuracy float64 `json:"recent_accuracy"`

	// AverageResponseTime — среднее время ответа в секундах по попыткам
	// с известным временем; nil, если время не записано ни разу
	AverageResponseTime *float64 `json:"average_response_time,omitempty"`

	// RecentTrend — точность второй половины окна минус первой, [-1,1]
	RecentTrend float64 `json:"recent_trend"`

	// Confidence — синоним точности, [0,1]
	Confidence float64 `json:"confidence"`

	// Categories — статистика по каждому разделу каталога.
	// Разделы без попыток получают дефолт, а не отсутствуют:
	// потребителям не нужны проверки на nil по разделам.
	Categories map[entity.Category]CategoryStats `json:"categories"`

	// TotalAttempts и RecentAttempts позволяют отличить измеренные
	// значения от нейтрального дефолта
	TotalAttempts  int `json:"total_attempts"`
	RecentAttempts int `json:"recent_attempts"`
}

// BuildProfile агрегирует окно попыток в профиль производительности.
//
// Пустое окно — легитимное состояние (новый ученик): возвращается
// документированный нейтральный профиль. categories — каталог разделов,
// для которых профиль обязан выдать статистику.
func BuildProfile(attempts []entity.Attempt, categories []entity.Category) PerformanceProfile {
	profile := PerformanceProfile{
		Categories:    make(map[entity.Category]CategoryStats, len(categories)),
		TotalAttempts: len(attempts),
	}

	// Дефолтные записи для всех разделов каталога
	for _, cat := range categories {
		profile.Categories[cat] = CategoryStats{
			AverageLevel: defaultCategoryLevel,
			RecentTrend:  0,
			Confidence:   defaultConfidence,
		}
	}

	if len(attempts) == 0 {
		profile.OverallAccuracy = defaultAccuracy
		profile.RecentAccuracy = defaultAccuracy
		profile.Confidence = defaultConfidence
		return profile
	}

	// Общая точность
	profile.OverallAccuracy = accuracyOf(attempts)
	profile.Confidence = profile.OverallAccuracy

	// Среднее время ответа — только по попыткам с известным временем
	profile.AverageResponseTime = averageElapsed(attempts)

	// Недавнее окно: последние min(10, n) попыток
	recent := lastN(attempts, recentWindowSize)
	profile.RecentAttempts = len(recent)
	profile.RecentAccuracy = accuracyOf(recent)
	profile.RecentTrend = halfSplitTrend(recent)

	// Разбивка по разделам: те же вычисления по последним 5 попыткам раздела
	for _, cat := range categories {
		catAttempts := filterByCategory(attempts, cat)
		if len(catAttempts) == 0 {
			continue // Остается дефолт
		}
		window := lastN(catAttempts, categoryWindowSize)
		profile.Categories[cat] = CategoryStats{
			AverageLevel: averageLevel(window),
			RecentTrend:  halfSplitTrend(window),
			Confidence:   accuracyOf(window),
			Attempts:     len(catAttempts),
		}
	}

	return profile
}

// accuracyOf возвращает долю правильных ответов; 0 для пустого среза
func accuracyOf(attempts []entity.Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	correct := 0
	for i := range attempts {
		if attempts[i].IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(attempts))
}

// halfSplitTrend — точность второй половины минус точность первой.
// Меньше двух попыток → тренд 0.
func halfSplitTrend(attempts []entity.Attempt) float64 {
	if len(attempts) < 2 {
		return 0
	}
	mid := len(attempts) / 2
	return accuracyOf(attempts[mid:]) - accuracyOf(attempts[:mid])
}

// averageElapsed — среднее по записанным временам ответа; nil, если их нет
func averageElapsed(attempts []entity.Attempt) *float64 {
	sum := 0
	count := 0
	for i := range attempts {
		if attempts[i].ElapsedSeconds != nil {
			sum += *attempts[i].ElapsedSeconds
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &avg
}

// averageLevel — средний уровень сложности отвеченных вопросов
func averageLevel(attempts []entity.Attempt) float64 {
	if len(attempts) == 0 {
		return defaultCategoryLevel
	}
	sum := 0
	for i := range attempts {
		sum += attempts[i].DifficultyLevel
	}
	return float64(sum) / float64(len(attempts))
}

// lastN возвращает последние n элементов среза (или весь срез)
func lastN(attempts []entity.Attempt, n int) []entity.Attempt {
	if len(attempts) <= n {
		return attempts
	}
	return attempts[len(attempts)-n:]
}

// filterByCategory возвращает попытки одного раздела, сохраняя порядок
func filterByCategory(attempts []entity.Attempt, cat entity.Category) []entity.Attempt {
	var out []entity.Attempt
	for i := range attempts {
		if attempts[i].Category == cat {
			out = append(out, attempts[i])
		}
	}
	return out
}
