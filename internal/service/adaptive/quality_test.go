package adaptive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/musictheory-api/internal/domain/entity"
)

// goodDraft — эталонный черновик, проходящий все проверки
func goodDraft() QuestionDraft {
	return QuestionDraft{
		Text:          "What interval is formed between C and G played together?",
		Options:       []string{"Perfect fourth", "Perfect fifth", "Major third", "Minor sixth"},
		CorrectOption: 1,
		Explanation:   "C to G spans seven semitones, which is the definition of a perfect fifth.",
		Category:      entity.CategoryIntervals,
		Level:         MustDifficultyLevel(2),
	}
}

func TestAssessQuestion_GoodQuestionApproved(t *testing.T) {
	// Act
	assessment := AssessQuestion(goodDraft())

	// Assert
	require.Len(t, assessment.Checks, 5, "Ровно пять независимых проверок")
	assert.InDelta(t, 1.0, assessment.OverallScore, 1e-9)
	assert.True(t, assessment.Approved)
	assert.Equal(t, 0, assessment.IssueCount())
}

// TestAssessQuestion_MissingExplanationBlocksApproval — сценарий из свойств:
// вопрос без объяснения при идеальных остальных осях имеет среднее
// (1+1+1+0.6+1)/5 = 0.92 ≥ 0.8, но замечание всё равно блокирует одобрение.
func TestAssessQuestion_MissingExplanationBlocksApproval(t *testing.T) {
	// Arrange
	draft := goodDraft()
	draft.Explanation = ""

	// Act
	assessment := AssessQuestion(draft)

	// Assert
	assert.InDelta(t, 0.92, assessment.OverallScore, 1e-9)
	assert.False(t, assessment.Approved,
		"Высокое среднее не должно маскировать жесткий провал на одной оси")
	assert.Equal(t, 1, assessment.IssueCount())
}

func TestAssessQuestion_EmptyTextRejected(t *testing.T) {
	draft := goodDraft()
	draft.Text = "   "

	assessment := AssessQuestion(draft)

	assert.False(t, assessment.Approved)
	assert.Equal(t, 0.0, assessment.Checks[0].Score, "Пустая формулировка — нулевой балл оси content")
	assert.NotEmpty(t, assessment.Checks[0].Issues)
}

func TestAssessQuestion_ChoiceSetProblems(t *testing.T) {
	// Меньше двух вариантов
	draft := goodDraft()
	draft.Options = []string{"Perfect fifth"}
	draft.CorrectOption = 0
	assessment := AssessQuestion(draft)
	assert.False(t, assessment.Approved)
	assert.Equal(t, 0.0, assessment.Checks[1].Score)

	// Индекс правильного ответа вне диапазона
	draft = goodDraft()
	draft.CorrectOption = 4
	assessment = AssessQuestion(draft)
	assert.False(t, assessment.Approved)
	assert.Contains(t, assessment.Checks[1].Issues[0], "out of range")

	// Дубликаты вариантов
	draft = goodDraft()
	draft.Options = []string{"Perfect fifth", "Perfect fifth", "Major third", "Minor sixth"}
	assessment = AssessQuestion(draft)
	assert.False(t, assessment.Approved)
	assert.Equal(t, 0.5, assessment.Checks[1].Score)
}

func TestAssessQuestion_DifficultyFitGivesSuggestionsOnly(t *testing.T) {
	// Короткая формулировка на экспертном уровне — рекомендация, не замечание
	draft := goodDraft()
	draft.Text = "Name this chord?"
	draft.Level = MustDifficultyLevel(5)

	assessment := AssessQuestion(draft)

	fit := assessment.Checks[2]
	assert.Equal(t, 0.7, fit.Score)
	assert.Empty(t, fit.Issues, "Несоответствие сложности — повод доработать, а не жесткий провал")
	assert.NotEmpty(t, fit.Suggestions)
}

func TestAssessQuestion_AccessibilityAllCaps(t *testing.T) {
	draft := goodDraft()
	draft.Text = "What interval is formed between C and G when PLAYED together?"

	assessment := AssessQuestion(draft)

	assert.Equal(t, 0.7, assessment.Checks[4].Score)
	assert.False(t, assessment.Approved)
}

func TestAssessQuestion_OverlongTextSuggestion(t *testing.T) {
	draft := goodDraft()
	draft.Text = strings.Repeat("very long question text ", 20) + "what is it?"

	assessment := AssessQuestion(draft)

	assert.NotEmpty(t, assessment.Checks[4].Suggestions)
}

func TestAssessQuestion_ShortExplanationSuggestion(t *testing.T) {
	draft := goodDraft()
	draft.Explanation = "Seven semitones."

	assessment := AssessQuestion(draft)

	explanation := assessment.Checks[3]
	assert.Equal(t, 0.8, explanation.Score)
	assert.Empty(t, explanation.Issues, "Короткое объяснение — рекомендация, не блокер")
	assert.True(t, assessment.Approved, "Среднее (1+1+1+0.8+1)/5 = 0.96 ≥ 0.8 и замечаний нет")
}

func TestAssessQuestion_ChecksAreIndependent(t *testing.T) {
	// Провал одной оси не влияет на баллы остальных
	draft := goodDraft()
	draft.Explanation = ""

	assessment := AssessQuestion(draft)

	assert.Equal(t, 1.0, assessment.Checks[0].Score)
	assert.Equal(t, 1.0, assessment.Checks[1].Score)
	assert.Equal(t, 1.0, assessment.Checks[2].Score)
	assert.Equal(t, 0.6, assessment.Checks[3].Score)
	assert.Equal(t, 1.0, assessment.Checks[4].Score)
}
