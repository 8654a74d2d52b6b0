package database

import "errors"

// Типизированные ошибки слоя данных. Вызывающая сторона (CLI, планировщик)
// сама решает, как показать их пользователю.
var (
	ErrGoalNotFound     = errors.New("цель не найдена")
	ErrDepositNotFound  = errors.New("пополнение не найдено")
	ErrCategoryNotFound = errors.New("указанная категория не существует")
	ErrReportNotFound   = errors.New("отчет не найден")
)

// ValidationError — нарушение бизнес-правила во входных данных.
// Возвращается вместо generic-ошибки, чтобы отличать ошибки пользователя
// от ошибок базы данных.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError сообщает, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
