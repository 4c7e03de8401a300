package adaptive

import "fmt"

// Strategy — именованная политика порогов: насколько агрессивно сложность
// реагирует на недавнюю точность.
type Strategy string

// Поддерживаемые стратегии адаптации
const (
	StrategyAggressive   Strategy = "aggressive"
	StrategyConservative Strategy = "conservative"
	StrategyBalanced     Strategy = "balanced"
)

// strategyThresholds — пороговая таблица стратегии.
// Сравнения строгие: точность ровно на пороге не меняет уровень.
type strategyThresholds struct {
	IncreaseAbove float64 // +1 уровень при точности строго выше
	DecreaseBelow float64 // −1 уровень при точности строго ниже
	Damping       float64 // Множитель доверия к рекомендации
}

// strategyTable — константы всех стратегий.
// Меньший damping — более осторожная рекомендация.
var strategyTable = map[Strategy]strategyThresholds{
	StrategyAggressive:   {IncreaseAbove: 0.80, DecreaseBelow: 0.60, Damping: 1.0},
	StrategyConservative: {IncreaseAbove: 0.90, DecreaseBelow: 0.50, Damping: 0.8},
	StrategyBalanced:     {IncreaseAbove: 0.85, DecreaseBelow: 0.55, Damping: 0.9},
}

// IsValid проверяет, что стратегия известна
func (s Strategy) IsValid() bool {
	_, ok := strategyTable[s]
	return ok
}

// DifficultyAdjustment — рекомендация движка по следующему уровню.
// Движок её не применяет: решение о сохранении принимает вызывающий слой.
type DifficultyAdjustment struct {
	NewLevel   DifficultyLevel `json:"new_level"`
	Reason     string          `json:"reason"`
	Confidence float64         `json:"confidence"`
}

// AdjustDifficulty вычисляет следующий уровень сложности по профилю.
//
// Решение принимается по НЕДАВНЕЙ точности, не по общей. Пустое окно
// попыток — определенный no-op: уровень не меняется, доверие 0.
// Неизвестная стратегия трактуется как balanced.
func AdjustDifficulty(current DifficultyLevel, profile PerformanceProfile, strategy Strategy) DifficultyAdjustment {
	if profile.RecentAttempts == 0 {
		return DifficultyAdjustment{
			NewLevel:   current,
			Reason:     "insufficient data",
			Confidence: 0,
		}
	}

	thresholds, ok := strategyTable[strategy]
	if !ok {
		thresholds = strategyTable[StrategyBalanced]
	}

	accuracy := profile.RecentAccuracy
	confidence := accuracy * thresholds.Damping

	switch {
	case accuracy > thresholds.IncreaseAbove:
		next := current.Inc()
		reason := fmt.Sprintf("recent accuracy %.0f%% above %.0f%%, increasing difficulty",
			accuracy*100, thresholds.IncreaseAbove*100)
		if next == current {
			reason = fmt.Sprintf("recent accuracy %.0f%% above %.0f%%, already at maximum level",
				accuracy*100, thresholds.IncreaseAbove*100)
		}
		return DifficultyAdjustment{NewLevel: next, Reason: reason, Confidence: confidence}

	case accuracy < thresholds.DecreaseBelow:
		next := current.Dec()
		reason := fmt.Sprintf("recent accuracy %.0f%% below %.0f%%, decreasing difficulty",
			accuracy*100, thresholds.DecreaseBelow*100)
		if next == current {
			reason = fmt.Sprintf("recent accuracy %.0f%% below %.0f%%, already at minimum level",
				accuracy*100, thresholds.DecreaseBelow*100)
		}
		return DifficultyAdjustment{NewLevel: next, Reason: reason, Confidence: confidence}

	default:
		return DifficultyAdjustment{
			NewLevel: current,
			Reason: fmt.Sprintf("recent accuracy %.0f%% within target band, keeping level %d",
				accuracy*100, current.Value()),
			Confidence: confidence,
		}
	}
}
