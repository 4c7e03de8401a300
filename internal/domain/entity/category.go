package entity

// Category — раздел теории музыки, к которому относится вопрос.
// Константы-строки плюс таблица с данными: поведение не привязано
// к самому значению enum.
type Category string

// Разделы теории музыки
const (
	CategoryIntervals   Category = "intervals"
	CategoryChords      Category = "chords"
	CategoryScales      Category = "scales"
	CategoryRhythm      Category = "rhythm"
	CategoryNotation    Category = "notation"
	CategoryHarmony     Category = "harmony"
	CategoryEarTraining Category = "ear_training"
)

// categoryInfo содержит отображаемые константы раздела
type categoryInfo struct {
	DisplayName string
	Color       string // HEX-цвет для UI
	Description string
}

// categoryTable — данные по разделам
var categoryTable = map[Category]categoryInfo{
	CategoryIntervals:   {DisplayName: "Intervals", Color: "#4F46E5", Description: "Distance between two pitches"},
	CategoryChords:      {DisplayName: "Chords", Color: "#059669", Description: "Triads, sevenths and extended chords"},
	CategoryScales:      {DisplayName: "Scales", Color: "#D97706", Description: "Major, minor and modal scales"},
	CategoryRhythm:      {DisplayName: "Rhythm", Color: "#DC2626", Description: "Note values, meter and syncopation"},
	CategoryNotation:    {DisplayName: "Notation", Color: "#7C3AED", Description: "Reading and writing staff notation"},
	CategoryHarmony:     {DisplayName: "Harmony", Color: "#DB2777", Description: "Chord progressions and voice leading"},
	CategoryEarTraining: {DisplayName: "Ear Training", Color: "#0891B2", Description: "Recognizing intervals and chords by ear"},
}

// categoryOrder — стабильный порядок разделов для UI и генерации планов
var categoryOrder = []Category{
	CategoryIntervals,
	CategoryChords,
	CategoryScales,
	CategoryRhythm,
	CategoryNotation,
	CategoryHarmony,
	CategoryEarTraining,
}

// AllCategories возвращает каталог разделов в стабильном порядке
func AllCategories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// IsValid проверяет, что строка — известный раздел
func (c Category) IsValid() bool {
	_, ok := categoryTable[c]
	return ok
}

// DisplayName возвращает отображаемое название раздела
func (c Category) DisplayName() string {
	return categoryTable[c].DisplayName
}

// Color возвращает цвет раздела для UI
func (c Category) Color() string {
	return categoryTable[c].Color
}

// Description возвращает краткое описание раздела
func (c Category) Description() string {
	return categoryTable[c].Description
}
