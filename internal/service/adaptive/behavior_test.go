package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// timedSeries строит попытки с заданными временами ответа (все правильные)
func timedSeries(times []int) []entity.Attempt {
	attempts := make([]entity.Attempt, 0, len(times))
	for _, sec := range times {
		attempts = append(attempts, makeAttempt(entity.CategoryChords, 2, true, intPtr(sec)))
	}
	return attempts
}

func TestAnalyzeBehavior_TimeConsistency(t *testing.T) {
	tests := []struct {
		name     string
		times    []int
		expected string
	}{
		// Одинаковые времена: σ=0 < 0.2×mean
		{"идентичные времена", []int{20, 20, 20, 20}, ConsistencyVeryConsistent},
		// Небольшой разброс вокруг 20: σ≈1 < 0.2×20
		{"малый разброс", []int{19, 20, 21, 20}, ConsistencyVeryConsistent},
		// Сильный разброс: σ/mean ≈ 0.85
		{"большой разброс", []int{5, 60, 5, 60}, ConsistencyInconsistent},
		// Единственная попытка с временем: σ=0
		{"одна попытка", []int{45}, ConsistencyVeryConsistent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := AnalyzeBehavior(timedSeries(tt.times))
			assert.Equal(t, tt.expected, summary.TimeConsistency)
		})
	}
}

func TestAnalyzeBehavior_TimeConsistencyBands(t *testing.T) {
	// mean=20; подбираем разброс под каждую полосу классификации
	// σ/mean ≈ 0.25 → consistent
	summary := AnalyzeBehavior(timedSeries([]int{15, 25, 15, 25}))
	assert.Equal(t, ConsistencyConsistent, summary.TimeConsistency)

	// σ/mean = 0.5 → moderate
	summary = AnalyzeBehavior(timedSeries([]int{10, 30, 10, 30}))
	assert.Equal(t, ConsistencyModerate, summary.TimeConsistency)
}

func TestAnalyzeBehavior_TimeConsistencyNoTimedAttempts(t *testing.T) {
	// Arrange: ни одной попытки с временем → делить не на что
	attempts := makeSeries(entity.CategoryChords, 2, []bool{true, false, true})

	// Act
	summary := AnalyzeBehavior(attempts)

	// Assert: категориальный результат, а не деление на ноль
	assert.Equal(t, InsufficientData, summary.TimeConsistency)
}

func TestAnalyzeBehavior_ImprovementTrendRequiresTenAttempts(t *testing.T) {
	// 9 попыток — недостаточно: явный short-circuit, не тихий ноль
	attempts := makeSeries(entity.CategoryChords, 2,
		[]bool{true, true, true, true, true, true, true, true, true})
	summary := AnalyzeBehavior(attempts)
	assert.Equal(t, InsufficientData, summary.ImprovementTrend)
}

func TestAnalyzeBehavior_ImprovementTrendClassification(t *testing.T) {
	// Улучшение: первая половина 2/5, вторая 5/5
	improving := makeSeries(entity.CategoryChords, 2,
		[]bool{true, false, false, true, false, true, true, true, true, true})
	assert.Equal(t, TrendImproving, AnalyzeBehavior(improving).ImprovementTrend)

	// Спад: первая половина 5/5, вторая 2/5
	declining := makeSeries(entity.CategoryChords, 2,
		[]bool{true, true, true, true, true, false, true, false, false, true})
	assert.Equal(t, TrendDeclining, AnalyzeBehavior(declining).ImprovementTrend)

	// Стабильность: обе половины 4/5
	stable := makeSeries(entity.CategoryChords, 2,
		[]bool{true, true, false, true, true, true, false, true, true, true})
	assert.Equal(t, TrendStable, AnalyzeBehavior(stable).ImprovementTrend)
}

func TestAnalyzeBehavior_LearningStyleDecisionTable(t *testing.T) {
	// Быстро и точно → intuitive (avg<30, acc>0.8)
	intuitive := []entity.Attempt{
		makeAttempt(entity.CategoryChords, 2, true, intPtr(10)),
		makeAttempt(entity.CategoryChords, 2, true, intPtr(15)),
		makeAttempt(entity.CategoryChords, 2, true, intPtr(12)),
		makeAttempt(entity.CategoryChords, 2, true, intPtr(8)),
		makeAttempt(entity.CategoryChords, 2, true, intPtr(20)),
	}
	assert.Equal(t, StyleIntuitive, AnalyzeBehavior(intuitive).LearningStyle)

	// Медленно, но точно → analytical (avg>60, acc>0.7)
	analytical := []entity.Attempt{
		makeAttempt(entity.CategoryHarmony, 4, true, intPtr(90)),
		makeAttempt(entity.CategoryHarmony, 4, true, intPtr(70)),
		makeAttempt(entity.CategoryHarmony, 4, false, intPtr(80)),
		makeAttempt(entity.CategoryHarmony, 4, true, intPtr(100)),
	}
	assert.Equal(t, StyleAnalytical, AnalyzeBehavior(analytical).LearningStyle)

	// Низкая точность → foundational, независимо от времени
	foundational := makeSeries(entity.CategoryScales, 1, []bool{false, false, true, false})
	assert.Equal(t, StyleFoundational, AnalyzeBehavior(foundational).LearningStyle)

	// Всё остальное → balanced
	balanced := []entity.Attempt{
		makeAttempt(entity.CategoryChords, 2, true, intPtr(40)),
		makeAttempt(entity.CategoryChords, 2, true, intPtr(45)),
		makeAttempt(entity.CategoryChords, 2, false, intPtr(50)),
		makeAttempt(entity.CategoryChords, 2, true, intPtr(42)),
	}
	assert.Equal(t, StyleBalanced, AnalyzeBehavior(balanced).LearningStyle)
}

func TestAnalyzeBehavior_LearningStyleWithoutTimes(t *testing.T) {
	// Без времен правила по avgTime не срабатывают — решают правила по точности
	accurate := makeSeries(entity.CategoryChords, 2, []bool{true, true, true, true})
	assert.Equal(t, StyleBalanced, AnalyzeBehavior(accurate).LearningStyle)

	weak := makeSeries(entity.CategoryChords, 2, []bool{false, false, false, true})
	assert.Equal(t, StyleFoundational, AnalyzeBehavior(weak).LearningStyle)
}

func TestAnalyzeBehavior_QuickResponseRate(t *testing.T) {
	// Arrange: 2 из 4 попыток с временем ≤15 сек, одна без времени
	attempts := []entity.Attempt{
		makeAttempt(entity.CategoryChords, 2, true, intPtr(10)),
		makeAttempt(entity.CategoryChords, 2, true, intPtr(15)),
		makeAttempt(entity.CategoryChords, 2, true, intPtr(30)),
		makeAttempt(entity.CategoryChords, 2, false, intPtr(60)),
		makeAttempt(entity.CategoryChords, 2, true, nil),
	}

	// Act
	summary := AnalyzeBehavior(attempts)

	// Assert: доля считается только среди попыток с временем
	assert.InDelta(t, 0.5, summary.QuickResponseRate, 1e-9)
}

func TestAnalyzeBehavior_EmptyHistory(t *testing.T) {
	summary := AnalyzeBehavior(nil)
	assert.Equal(t, InsufficientData, summary.TimeConsistency)
	assert.Equal(t, InsufficientData, summary.ImprovementTrend)
	assert.Equal(t, StyleFoundational, summary.LearningStyle,
		"Пустая история дает точность 0, срабатывает правило acc<0.5")
	assert.Equal(t, 0.0, summary.QuickResponseRate)
}
