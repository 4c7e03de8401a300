package adaptive

import (
	"fmt"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// Константы персонализации
const (
	// competenceThreshold — точность, начиная с которой раздел считается освоенным
	competenceThreshold = 0.6

	// floorWeightFactor — множитель веса освоенного раздела.
	// Сильные разделы получают малый, но ненулевой вес — совсем без
	// повторения они не остаются.
	floorWeightFactor = 0.1

	// Границы количества вопросов в одной фазе плана
	minPhaseQuestions = 5
	maxPhaseQuestions = 20
)

// CategoryAllocation — распределение бюджета вопросов квиза по разделам.
// Веса нормированы к 1.0, счетчики в сумме дают ровно запрошенный итог.
type CategoryAllocation struct {
	Weights map[entity.Category]float64 `json:"weights"`
	Counts  map[entity.Category]int    `json:"counts"`
}

// Total возвращает суммарное количество вопросов в распределении
func (a CategoryAllocation) Total() int {
	total := 0
	for _, n := range a.Counts {
		total += n
	}
	return total
}

// AllocateCategories распределяет total вопросов по разделам профиля.
//
// Вес раздела обратен его точности: weight = 1 − accuracy. Освоенные
// разделы (точность ≥ 0.6) получают вес, умноженный на floorWeightFactor.
// Остаток округления достается самому слабому разделу, поэтому сумма
// счетчиков всегда ровно равна total.
func AllocateCategories(profile PerformanceProfile, total int) CategoryAllocation {
	allocation := CategoryAllocation{
		Weights: make(map[entity.Category]float64),
		Counts:  make(map[entity.Category]int),
	}
	if total <= 0 {
		return allocation
	}

	// Стабильный порядок разделов — порядок каталога
	cats := orderedCategories(profile)
	if len(cats) == 0 {
		return allocation
	}

	// Сырые веса по обратной точности
	raw := make(map[entity.Category]float64, len(cats))
	rawSum := 0.0
	for _, cat := range cats {
		accuracy := profile.Categories[cat].Confidence
		w := 1 - accuracy
		if accuracy >= competenceThreshold {
			w *= floorWeightFactor
		}
		raw[cat] = w
		rawSum += w
	}

	// Все разделы освоены идеально → равномерное распределение
	if rawSum == 0 {
		for _, cat := range cats {
			raw[cat] = 1
		}
		rawSum = float64(len(cats))
	}

	// Нормировка и округление
	countSum := 0
	for _, cat := range cats {
		w := raw[cat] / rawSum
		allocation.Weights[cat] = w
		n := int(w*float64(total) + 0.5)
		allocation.Counts[cat] = n
		countSum += n
	}

	// Минимум один вопрос на раздел, если бюджет позволяет:
	// сильный раздел никогда не получает ровно ноль
	if total >= len(cats) {
		for _, cat := range cats {
			if allocation.Counts[cat] == 0 {
				allocation.Counts[cat] = 1
				countSum++
			}
		}
	}

	// Остаток округления — самому слабому разделу
	weakest := weakestCategory(profile, cats)
	allocation.Counts[weakest] += total - countSum

	// Компенсация возможного ухода в минус за счет самых больших счетчиков
	floorCount := 0
	if total >= len(cats) {
		floorCount = 1
	}
	for allocation.Counts[weakest] < floorCount {
		largest := largestCount(allocation, cats, weakest)
		allocation.Counts[largest]--
		allocation.Counts[weakest]++
	}

	return allocation
}

// orderedCategories возвращает разделы профиля в порядке каталога
func orderedCategories(profile PerformanceProfile) []entity.Category {
	var out []entity.Category
	for _, cat := range entity.AllCategories() {
		if _, ok := profile.Categories[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}

// weakestCategory — раздел с минимальной точностью (при равенстве — первый по каталогу)
func weakestCategory(profile PerformanceProfile, cats []entity.Category) entity.Category {
	weakest := cats[0]
	for _, cat := range cats[1:] {
		if profile.Categories[cat].Confidence < profile.Categories[weakest].Confidence {
			weakest = cat
		}
	}
	return weakest
}

// largestCount — раздел с наибольшим счетчиком, исключая exclude
func largestCount(a CategoryAllocation, cats []entity.Category, exclude entity.Category) entity.Category {
	var largest entity.Category
	best := -1
	for _, cat := range cats {
		if cat == exclude {
			continue
		}
		if a.Counts[cat] > best {
			best = a.Counts[cat]
			largest = cat
		}
	}
	return largest
}

// LearningPhase — одна ступень учебного плана, привязанная к уровню сложности
type LearningPhase struct {
	Level           DifficultyLevel   `json:"level"`
	FocusCategories []entity.Category `json:"focus_categories"`
	QuestionCount   int               `json:"question_count"`
	DurationMinutes int               `json:"duration_minutes"`
	Milestones      []string          `json:"milestones"`
}

// LearningPath — упорядоченная последовательность фаз от текущего уровня
// к целевому. Строится один раз и не перебалансируется.
type LearningPath struct {
	CurrentLevel         DifficultyLevel `json:"current_level"`
	TargetLevel          DifficultyLevel `json:"target_level"`
	Phases               []LearningPhase `json:"phases"`
	TotalDurationMinutes int             `json:"total_duration_minutes"`
}

// PlanLearningPath строит план из одной фазы на каждый уровень от current
// до target включительно.
//
// Первая фаза покрывает все разделы каталога (фундамент вширь), последующие —
// только focusCategories (вглубь). Длительность фазы растет сверхлинейно с
// уровнем: сложные вопросы занимают пропорционально больше времени.
// target ниже current дает план из единственной фазы текущего уровня.
func PlanLearningPath(current, target DifficultyLevel, focusCategories []entity.Category, dailyMinutes int) LearningPath {
	path := LearningPath{
		CurrentLevel: current,
		TargetLevel:  target,
	}

	questionCount := dailyMinutes / 2
	if questionCount < minPhaseQuestions {
		questionCount = minPhaseQuestions
	}
	if questionCount > maxPhaseQuestions {
		questionCount = maxPhaseQuestions
	}

	last := target.Value()
	if last < current.Value() {
		last = current.Value()
	}

	for value := current.Value(); value <= last; value++ {
		level := DifficultyLevel{value: value}

		var focus []entity.Category
		if len(path.Phases) == 0 || len(focusCategories) == 0 {
			focus = entity.AllCategories()
		} else {
			focus = append([]entity.Category(nil), focusCategories...)
		}

		duration := questionCount * (value + 1) * 2
		phase := LearningPhase{
			Level:           level,
			FocusCategories: focus,
			QuestionCount:   questionCount,
			DurationMinutes: duration,
			Milestones: []string{
				fmt.Sprintf("Complete %d %s questions", questionCount, level.Name()),
				fmt.Sprintf("Score %d%% or higher to advance", level.RequiredScoreToAdvance()),
			},
		}
		path.Phases = append(path.Phases, phase)
		path.TotalDurationMinutes += duration
	}

	return path
}
