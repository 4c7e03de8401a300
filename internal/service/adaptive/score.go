package adaptive

import (
	"errors"
	"fmt"
)

// Ошибки конструкторов значений. Единственное место, где движок
// отказывается работать — все остальные входы дают документированный дефолт.
var (
	// ErrOutOfRange возвращается при выходе числового значения за документированный диапазон
	ErrOutOfRange = errors.New("value out of range")
)

// Константы скоринга попытки
const (
	scoreMaxValue       = 100
	scorePerLevel       = 20 // База: уровень × 20 → 20..100 для уровней 1..5
	fastAnswerSeconds   = 10
	slowAnswerSeconds   = 60
	fastAnswerBonus     = 10
	slowAnswerPenalty   = 5
	hintPenalty         = 10
	minCorrectScore     = 1 // Правильный ответ никогда не дает 0 — 0 зарезервирован за неправильным
)

// Score — пара (значение, максимум) с инвариантом 0 ≤ Value ≤ MaxValue.
// Неизменяемо: арифметика возвращает новые значения.
type Score struct {
	value    int
	maxValue int
}

// NewScore создает Score с проверкой инварианта
func NewScore(value, maxValue int) (Score, error) {
	if maxValue <= 0 {
		return Score{}, fmt.Errorf("score max value must be positive, got %d: %w", maxValue, ErrOutOfRange)
	}
	if value < 0 || value > maxValue {
		return Score{}, fmt.Errorf("score value must be in [0,%d], got %d: %w", maxValue, value, ErrOutOfRange)
	}
	return Score{value: value, maxValue: maxValue}, nil
}

// ZeroScore возвращает нулевой результат за неправильный ответ.
// Это значение-объект, а не ошибка.
func ZeroScore() Score {
	return Score{value: 0, maxValue: scoreMaxValue}
}

// Value возвращает набранные очки
func (s Score) Value() int {
	return s.value
}

// MaxValue возвращает максимум шкалы
func (s Score) MaxValue() int {
	return s.maxValue
}

// Percentage возвращает результат в процентах (0..100)
func (s Score) Percentage() float64 {
	return float64(s.value) / float64(s.maxValue) * 100
}

// LetterGrade возвращает буквенную оценку: A≥90%, B≥80%, C≥70%, D≥60%, иначе F
func (s Score) LetterGrade() string {
	pct := s.Percentage()
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}

// IsPassing возвращает true при результате ≥60%
func (s Score) IsPassing() bool {
	return s.Percentage() >= 60
}

// IsExcellent возвращает true при результате ≥90%
func (s Score) IsExcellent() bool {
	return s.Percentage() >= 90
}

// Add возвращает новый Score с прибавленными очками.
// Сумма ограничивается максимумом шкалы.
func (s Score) Add(points int) Score {
	value := s.value + points
	if value > s.maxValue {
		value = s.maxValue
	}
	if value < 0 {
		value = 0
	}
	return Score{value: value, maxValue: s.maxValue}
}

// Subtract возвращает новый Score с вычтенными очками, не опускаясь ниже 0
func (s Score) Subtract(points int) Score {
	return s.Add(-points)
}

// ScaleToMax пересчитывает результат на другую шкалу, сохраняя процент
func (s Score) ScaleToMax(newMax int) (Score, error) {
	if newMax <= 0 {
		return Score{}, fmt.Errorf("scale target must be positive, got %d: %w", newMax, ErrOutOfRange)
	}
	scaled := int(float64(s.value)/float64(s.maxValue)*float64(newMax) + 0.5)
	if scaled > newMax {
		scaled = newMax
	}
	return Score{value: scaled, maxValue: newMax}, nil
}

// EvaluateAttempt переводит сырую попытку в Score.
//
// Неправильный ответ → Score(0, 100). Для правильного: база = уровень × 20,
// бонус +10 за ответ ≤10 сек, штраф −5 за ответ ≥60 сек (nil — нейтрально),
// штраф −10 за подсказку. Итог зажимается в [1,100]: правильный ответ
// никогда не опускается до 0, чтобы не путаться с неправильным.
func EvaluateAttempt(correct bool, level DifficultyLevel, elapsedSeconds *int, hintUsed bool) Score {
	if !correct {
		return ZeroScore()
	}

	value := level.Value() * scorePerLevel

	if elapsedSeconds != nil {
		if *elapsedSeconds <= fastAnswerSeconds {
			value += fastAnswerBonus
		} else if *elapsedSeconds >= slowAnswerSeconds {
			value -= slowAnswerPenalty
		}
	}

	if hintUsed {
		value -= hintPenalty
	}

	if value < minCorrectScore {
		value = minCorrectScore
	}
	if value > scoreMaxValue {
		value = scoreMaxValue
	}

	return Score{value: value, maxValue: scoreMaxValue}
}
