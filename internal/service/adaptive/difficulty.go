package adaptive

import "fmt"

// Границы шкалы сложности. Вся платформа работает с уровнями 1..5.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// DifficultyLevel — ограниченный порядковый уровень сложности (1..5).
// Значение неизменяемо: все операции возвращают новый уровень.
type DifficultyLevel struct {
	value int
}

// difficultyTier содержит константы, привязанные к уровню сложности
type difficultyTier struct {
	Name            string
	RequiredToPass  int // Минимальный процент для перехода на следующий уровень
}

// difficultyTiers — таблица констант по уровням.
// Данные отделены от самого значения: поведение не "прошито" в enum.
var difficultyTiers = map[int]difficultyTier{
	1: {Name: "Beginner", RequiredToPass: 60},
	2: {Name: "Elementary", RequiredToPass: 65},
	3: {Name: "Intermediate", RequiredToPass: 70},
	4: {Name: "Advanced", RequiredToPass: 75},
	5: {Name: "Expert", RequiredToPass: 80},
}

// NewDifficultyLevel создает уровень сложности.
// Значения вне диапазона [1,5] отклоняются — это ошибка программиста,
// а не состояние ученика.
func NewDifficultyLevel(value int) (DifficultyLevel, error) {
	if value < MinDifficulty || value > MaxDifficulty {
		return DifficultyLevel{}, fmt.Errorf("difficulty level must be in [%d,%d], got %d: %w",
			MinDifficulty, MaxDifficulty, value, ErrOutOfRange)
	}
	return DifficultyLevel{value: value}, nil
}

// DefaultDifficultyLevel возвращает стартовый уровень для нового ученика.
// Явная фабрика вместо глобального синглтона.
func DefaultDifficultyLevel() DifficultyLevel {
	return DifficultyLevel{value: 2}
}

// MustDifficultyLevel — как NewDifficultyLevel, но с паникой.
// Используется только в тестах и статических таблицах.
func MustDifficultyLevel(value int) DifficultyLevel {
	level, err := NewDifficultyLevel(value)
	if err != nil {
		panic(err)
	}
	return level
}

// Value возвращает числовое значение уровня (1..5)
func (d DifficultyLevel) Value() int {
	return d.value
}

// Name возвращает отображаемое название уровня
func (d DifficultyLevel) Name() string {
	return difficultyTiers[d.value].Name
}

// RequiredScoreToAdvance возвращает порог (в процентах) для перехода
// с этого уровня на следующий
func (d DifficultyLevel) RequiredScoreToAdvance() int {
	return difficultyTiers[d.value].RequiredToPass
}

// Inc возвращает уровень на единицу выше, с ограничением сверху
func (d DifficultyLevel) Inc() DifficultyLevel {
	if d.value >= MaxDifficulty {
		return d
	}
	return DifficultyLevel{value: d.value + 1}
}

// Dec возвращает уровень на единицу ниже, с ограничением снизу
func (d DifficultyLevel) Dec() DifficultyLevel {
	if d.value <= MinDifficulty {
		return d
	}
	return DifficultyLevel{value: d.value - 1}
}

// IsMax возвращает true для максимального уровня
func (d DifficultyLevel) IsMax() bool {
	return d.value == MaxDifficulty
}

// IsMin возвращает true для минимального уровня
func (d DifficultyLevel) IsMin() bool {
	return d.value == MinDifficulty
}

// String реализует fmt.Stringer
func (d DifficultyLevel) String() string {
	return fmt.Sprintf("%d (%s)", d.value, d.Name())
}

// clampLevel приводит произвольное целое к допустимому диапазону уровней
func clampLevel(value int) int {
	if value < MinDifficulty {
		return MinDifficulty
	}
	if value > MaxDifficulty {
		return MaxDifficulty
	}
	return value
}
