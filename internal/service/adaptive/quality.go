package adaptive

import (
	"strings"
	"unicode"

	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// Константы оценки качества вопроса
const (
	// approvalThreshold — минимальный средний балл для одобрения
	approvalThreshold = 0.8

	minQuestionTextLen   = 10
	maxQuestionTextLen   = 300
	minOptionsCount      = 2
	preferredOptionCount = 4
	minExplanationLen    = 20
)

// QuestionDraft — кандидат вопроса на этапе авторинга.
// Явная структура с именованными полями вместо мутабельного билдера.
type QuestionDraft struct {
	Text          string
	Options       []string
	CorrectOption int
	Explanation   string
	Category      entity.Category
	Level         DifficultyLevel
}

// QualityCheck — результат одной независимой проверки качества
type QualityCheck struct {
	Name        string   `json:"name"`
	Score       float64  `json:"score"`
	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// QuestionQualityAssessment — сводная оценка вопроса по пяти осям
type QuestionQualityAssessment struct {
	Checks       []QualityCheck `json:"checks"`
	OverallScore float64        `json:"overall_score"`
	Approved     bool           `json:"approved"`
}

// IssueCount возвращает суммарное количество замечаний по всем проверкам
func (a QuestionQualityAssessment) IssueCount() int {
	count := 0
	for _, check := range a.Checks {
		count += len(check.Issues)
	}
	return count
}

// AssessQuestion прогоняет пять независимых проверок качества.
//
// Итоговый балл — среднее арифметическое. Одобрение требует И среднего
// ≥ 0.8, И отсутствия замечаний: высокое среднее не маскирует жесткий
// провал на одной оси. Проверки развязаны — новая ось добавляется, не
// трогая остальные.
func AssessQuestion(draft QuestionDraft) QuestionQualityAssessment {
	checks := []QualityCheck{
		checkContent(draft),
		checkChoiceSet(draft),
		checkDifficultyFit(draft),
		checkExplanation(draft),
		checkAccessibility(draft),
	}

	sum := 0.0
	issues := 0
	for _, check := range checks {
		sum += check.Score
		issues += len(check.Issues)
	}
	overall := sum / float64(len(checks))

	return QuestionQualityAssessment{
		Checks:       checks,
		OverallScore: overall,
		Approved:     overall >= approvalThreshold && issues == 0,
	}
}

// checkContent проверяет формулировку вопроса
func checkContent(draft QuestionDraft) QualityCheck {
	check := QualityCheck{Name: "content", Score: 1.0}

	text := strings.TrimSpace(draft.Text)
	if text == "" {
		check.Score = 0
		check.Issues = append(check.Issues, "question text is empty")
		return check
	}
	if len(text) < minQuestionTextLen {
		check.Score = 0.4
		check.Issues = append(check.Issues, "question text is too short")
	}
	if !strings.HasSuffix(text, "?") {
		check.Suggestions = append(check.Suggestions, "phrase the question so it ends with a question mark")
	}
	return check
}

// checkChoiceSet проверяет набор вариантов ответа
func checkChoiceSet(draft QuestionDraft) QualityCheck {
	check := QualityCheck{Name: "choice_set", Score: 1.0}

	if len(draft.Options) < minOptionsCount {
		check.Score = 0
		check.Issues = append(check.Issues, "at least two answer options are required")
		return check
	}

	if draft.CorrectOption < 0 || draft.CorrectOption >= len(draft.Options) {
		check.Score = 0
		check.Issues = append(check.Issues, "correct option index is out of range")
		return check
	}

	seen := make(map[string]bool, len(draft.Options))
	for _, opt := range draft.Options {
		normalized := strings.ToLower(strings.TrimSpace(opt))
		if normalized == "" {
			check.Score = 0.5
			check.Issues = append(check.Issues, "answer options must not be empty")
			continue
		}
		if seen[normalized] {
			check.Score = 0.5
			check.Issues = append(check.Issues, "duplicate answer options found")
		}
		seen[normalized] = true
	}

	if len(draft.Options) < preferredOptionCount {
		check.Suggestions = append(check.Suggestions, "four answer options make guessing less rewarding")
	}
	return check
}

// checkDifficultyFit — эвристика соответствия формулировки заявленному уровню.
// Дает только рекомендации, не замечания: несоответствие длины — повод
// доработать, а не жесткий провал.
func checkDifficultyFit(draft QuestionDraft) QualityCheck {
	check := QualityCheck{Name: "difficulty_fit", Score: 1.0}

	words := len(strings.Fields(draft.Text))
	level := draft.Level.Value()

	if level >= 4 && words < 8 {
		check.Score = 0.7
		check.Suggestions = append(check.Suggestions, "advanced questions usually need more context in the prompt")
	}
	if level <= 2 && words > 30 {
		check.Score = 0.7
		check.Suggestions = append(check.Suggestions, "simplify the wording for a beginner-level question")
	}
	return check
}

// checkExplanation проверяет наличие объяснения правильного ответа.
// Отсутствие объяснения — это и низкий балл (0.6), и замечание: даже при
// идеальных остальных осях такой вопрос не будет одобрен.
func checkExplanation(draft QuestionDraft) QualityCheck {
	check := QualityCheck{Name: "explanation", Score: 1.0}

	explanation := strings.TrimSpace(draft.Explanation)
	if explanation == "" {
		check.Score = 0.6
		check.Issues = append(check.Issues, "missing explanation for the correct answer")
		check.Suggestions = append(check.Suggestions, "explain why the correct answer is right")
		return check
	}
	if len(explanation) < minExplanationLen {
		check.Score = 0.8
		check.Suggestions = append(check.Suggestions, "expand the explanation beyond a single phrase")
	}
	return check
}

// checkAccessibility проверяет читаемость формулировки
func checkAccessibility(draft QuestionDraft) QualityCheck {
	check := QualityCheck{Name: "accessibility", Score: 1.0}

	for _, word := range strings.Fields(draft.Text) {
		if len(word) > 3 && isAllUpper(word) {
			check.Score = 0.7
			check.Issues = append(check.Issues, "avoid all-caps words in the question text")
			break
		}
	}

	if len(draft.Text) > maxQuestionTextLen {
		if check.Score > 0.8 {
			check.Score = 0.8
		}
		check.Suggestions = append(check.Suggestions, "shorten the question text for readability")
	}
	return check
}

// isAllUpper возвращает true, если все буквы слова заглавные
func isAllUpper(word string) bool {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
