package service

import "errors"

// Ошибки уровня сервисов
var (
	// ErrNotEnoughQuestions возвращается, когда в пуле не хватает
	// одобренных вопросов для сборки персонализированного квиза
	ErrNotEnoughQuestions = errors.New("not enough approved questions in the pool")
)
