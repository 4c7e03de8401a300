package adaptive

import (
	"math"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// Категориальные значения поведенческого анализа.
// "insufficient data" — возвращаемое значение, а не ошибка: нехватка
// истории — ожидаемое состояние ученика.
const (
	ConsistencyVeryConsistent = "very consistent"
	ConsistencyConsistent     = "consistent"
	ConsistencyModerate       = "moderate"
	ConsistencyInconsistent   = "inconsistent"

	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"

	StyleIntuitive    = "intuitive"
	StyleAnalytical   = "analytical"
	StyleFoundational = "foundational"
	StyleBalanced     = "balanced"

	InsufficientData = "insufficient data"
)

// Пороговые константы поведенческого анализа
const (
	// minAttemptsForTrend — минимум попыток для вывода о тренде
	minAttemptsForTrend = 10

	// trendThreshold — порог классификации тренда (±0.1)
	trendThreshold = 0.1

	// quickResponseSeconds — граница "быстрого" ответа
	quickResponseSeconds = 15
)

// BehaviorSummary — вторичные сигналы, выведенные из той же истории попыток
type BehaviorSummary struct {
	TimeConsistency   string  `json:"time_consistency"`
	ImprovementTrend  string  `json:"improvement_trend"`
	LearningStyle     string  `json:"learning_style"`
	QuickResponseRate float64 `json:"quick_response_rate"`
}

// AnalyzeBehavior выводит поведенческие сигналы из окна попыток.
/// Чистая функция: не читает и не пишет ничего за пределами аргументов.
func AnalyzeBehavior(attempts []entity.Attempt) BehaviorSummary {
	return BehaviorSummary{
		TimeConsistency:   classifyTimeConsistency(attempts),
		ImprovementTrend:  classifyImprovementTrend(attempts),
		LearningStyle:     classifyLearningStyle(attempts),
		QuickResponseRate: quickResponseRate(attempts),
	}
}

// classifyTimeConsistency классифицирует стабильность времени ответа
// по отношению стандартного отклонения к среднему.
func classifyTimeConsistency(attempts []entity.Attempt) string {
	times := elapsedTimes(attempts)
	if len(times) == 0 {
		// Ни одной попытки с временем → делить не на что
		return InsufficientData
	}

	mean := meanOf(times)
	if mean == 0 {
		// Все ответы мгновенные — разброса нет
		return ConsistencyVeryConsistent
	}

	sigma := stdDev(times, mean)
	switch {
	case sigma < 0.2*mean:
		return ConsistencyVeryConsistent
	case sigma < 0.4*mean:
		return ConsistencyConsistent
	case sigma < 0.6*mean:
		return ConsistencyModerate
	default:
		return ConsistencyInconsistent
	}
}

// classifyImprovementTrend — тренд по половинам недавнего окна.
// Требует не менее 10 попыток; иначе явный short-circuit, а не тихий ноль.
func classifyImprovementTrend(attempts []entity.Attempt) string {
	if len(attempts) < minAttemptsForTrend {
		return InsufficientData
	}
	trend := halfSplitTrend(lastN(attempts, recentWindowSize))
	switch {
	case trend > trendThreshold:
		return TrendImproving
	case trend < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// classifyLearningStyle — фиксированная таблица решений по (среднее время, точность).
// Правила проверяются по порядку, выигрывает первое совпавшее.
func classifyLearningStyle(attempts []entity.Attempt) string {
	accuracy := accuracyOf(attempts)
	avg := averageElapsed(attempts)

	if avg != nil && *avg < 30 && accuracy > 0.8 {
		return StyleIntuitive
	}
	if avg != nil && *avg > 60 && accuracy > 0.7 {
		return StyleAnalytical
	}
	if accuracy < 0.5 {
		return StyleFoundational
	}
	return StyleBalanced
}

// quickResponseRate — доля попыток с временем ≤15 сек среди попыток с временем
func quickResponseRate(attempts []entity.Attempt) float64 {
	times := elapsedTimes(attempts)
	if len(times) == 0 {
		return 0
	}
	quick := 0
	for _, t := range times {
		if t <= quickResponseSeconds {
			quick++
		}
	}
	return float64(quick) / float64(len(times))
}

// elapsedTimes собирает записанные времена ответа
func elapsedTimes(attempts []entity.Attempt) []float64 {
	var out []float64
	for i := range attempts {
		if attempts[i].ElapsedSeconds != nil {
			out = append(out, float64(*attempts[i].ElapsedSeconds))
		}
	}
	return out
}

// meanOf — среднее арифметическое
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev — стандартное отклонение (по населению)
func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
