package adaptive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// makeAttempt — помощник для сборки попытки в тестах
func makeAttempt(cat entity.Category, level int, correct bool, elapsed *int) entity.Attempt {
	return entity.Attempt{
		Category:        cat,
		DifficultyLevel: level,
		IsCorrect:       correct,
		ElapsedSeconds:  elapsed,
		CreatedAt:       time.Now(),
	}
}

// makeSeries строит последовательность попыток одного раздела по маске правильности
func makeSeries(cat entity.Category, level int, correctness []bool) []entity.Attempt {
	attempts := make([]entity.Attempt, 0, len(correctness))
	for _, correct := range correctness {
		attempts = append(attempts, makeAttempt(cat, level, correct, nil))
	}
	return attempts
}

func TestBuildProfile_EmptyReturnsNeutralDefault(t *testing.T) {
	// Act
	profile := BuildProfile(nil, entity.AllCategories())

	// Assert: документированный нейтральный дефолт, а не ошибка
	assert.Equal(t, 0.5, profile.OverallAccuracy)
	assert.Equal(t, 0.5, profile.RecentAccuracy)
	assert.Equal(t, 0.5, profile.Confidence)
	assert.Equal(t, 0.0, profile.RecentTrend)
	assert.Nil(t, profile.AverageResponseTime)
	assert.Equal(t, 0, profile.TotalAttempts)
	assert.Equal(t, 0, profile.RecentAttempts,
		"RecentAttempts=0 позволяет потребителям отличить дефолт от измеренного значения")

	// Каждый раздел каталога присутствует с дефолтом
	require.Len(t, profile.Categories, len(entity.AllCategories()))
	for cat, stats := range profile.Categories {
		assert.Equal(t, 2.0, stats.AverageLevel, "Раздел %s должен получить дефолтный уровень 2", cat)
		assert.Equal(t, 0.0, stats.RecentTrend)
		assert.Equal(t, 0.5, stats.Confidence)
	}
}

func TestBuildProfile_OverallAccuracy(t *testing.T) {
	// Arrange: 8 из 10 правильных
	attempts := makeSeries(entity.CategoryChords, 3,
		[]bool{true, true, false, true, true, true, false, true, true, true})

	// Act
	profile := BuildProfile(attempts, entity.AllCategories())

	// Assert
	assert.InDelta(t, 0.8, profile.OverallAccuracy, 1e-9)
	assert.InDelta(t, 0.8, profile.Confidence, 1e-9, "Confidence — синоним точности")
	assert.Equal(t, 10, profile.TotalAttempts)
}

// TestBuildProfile_TrendScenario — сценарий из спецификации поведения:
// 10 попыток, первая половина 3/5, вторая 5/5 → тренд 1.0 − 0.6 = 0.4
func TestBuildProfile_TrendScenario(t *testing.T) {
	// Arrange
	attempts := makeSeries(entity.CategoryIntervals, 2,
		[]bool{true, false, true, false, true, true, true, true, true, true})

	// Act
	profile := BuildProfile(attempts, entity.AllCategories())

	// Assert
	assert.InDelta(t, 0.4, profile.RecentTrend, 1e-9, "Тренд = 1.0 − 0.6 = 0.4")
	assert.InDelta(t, 0.8, profile.RecentAccuracy, 1e-9)
}

func TestBuildProfile_TrendUsesLastTenOnly(t *testing.T) {
	// Arrange: 20 старых неправильных, затем 10 правильных —
	// окно тренда видит только последние 10
	attempts := makeSeries(entity.CategoryRhythm, 2, make([]bool, 20)) // Все false
	attempts = append(attempts, makeSeries(entity.CategoryRhythm, 2,
		[]bool{true, true, true, true, true, true, true, true, true, true})...)

	// Act
	profile := BuildProfile(attempts, entity.AllCategories())

	// Assert
	assert.InDelta(t, 1.0, profile.RecentAccuracy, 1e-9)
	assert.InDelta(t, 0.0, profile.RecentTrend, 1e-9, "Обе половины окна полностью правильные")
	assert.InDelta(t, 10.0/30.0, profile.OverallAccuracy, 1e-9)
}

func TestBuildProfile_TrendZeroBelowTwoAttempts(t *testing.T) {
	profile := BuildProfile(makeSeries(entity.CategoryScales, 1, []bool{true}), entity.AllCategories())
	assert.Equal(t, 0.0, profile.RecentTrend, "Меньше двух попыток — тренд 0")
}

func TestBuildProfile_AverageResponseTime(t *testing.T) {
	// Arrange: часть попыток без времени — они не участвуют в среднем
	attempts := []entity.Attempt{
		makeAttempt(entity.CategoryChords, 2, true, intPtr(10)),
		makeAttempt(entity.CategoryChords, 2, true, nil),
		makeAttempt(entity.CategoryChords, 2, false, intPtr(30)),
	}

	// Act
	profile := BuildProfile(attempts, entity.AllCategories())

	// Assert
	require.NotNil(t, profile.AverageResponseTime)
	assert.InDelta(t, 20.0, *profile.AverageResponseTime, 1e-9)
}

func TestBuildProfile_AverageResponseTimeNilWhenNoTimes(t *testing.T) {
	attempts := makeSeries(entity.CategoryChords, 2, []bool{true, false})
	profile := BuildProfile(attempts, entity.AllCategories())
	assert.Nil(t, profile.AverageResponseTime,
		"Без записанных времен среднее не определено — потребитель обязан проверять nil")
}

func TestBuildProfile_CategoryBreakdown(t *testing.T) {
	// Arrange: у chords 7 попыток (окно раздела — последние 5), у прочих — ноль
	attempts := makeSeries(entity.CategoryChords, 3,
		[]bool{false, false, false, false, true, true, true})

	// Act
	profile := BuildProfile(attempts, entity.AllCategories())

	// Assert: окно раздела — последние 5 попыток
	chords := profile.Categories[entity.CategoryChords]
	assert.Equal(t, 7, chords.Attempts)
	assert.InDelta(t, 0.6, chords.Confidence, 1e-9, "Последние 5: false,false,true,true,true → 3/5")
	assert.InDelta(t, 3.0, chords.AverageLevel, 1e-9)

	// Раздел без попыток сохраняет дефолт, а не отсутствует
	scales, ok := profile.Categories[entity.CategoryScales]
	require.True(t, ok, "Раздел без попыток не должен пропадать из профиля")
	assert.Equal(t, 2.0, scales.AverageLevel)
	assert.Equal(t, 0.5, scales.Confidence)
}

// TestBuildProfile_Idempotent — два вызова на одном окне дают идентичный
// результат: внутри нет скрытого состояния или случайности.
func TestBuildProfile_Idempotent(t *testing.T) {
	// Arrange
	attempts := []entity.Attempt{
		makeAttempt(entity.CategoryChords, 3, true, intPtr(12)),
		makeAttempt(entity.CategoryScales, 2, false, nil),
		makeAttempt(entity.CategoryChords, 3, true, intPtr(45)),
		makeAttempt(entity.CategoryRhythm, 1, true, intPtr(8)),
	}

	// Act
	first := BuildProfile(attempts, entity.AllCategories())
	second := BuildProfile(attempts, entity.AllCategories())

	// Assert
	assert.Equal(t, first, second, "BuildProfile должен быть детерминированным")
}
