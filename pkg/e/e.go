package e

import (
	"errors"
	"fmt"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Классы ошибок каталога
	ErrValidation    = fmt.Errorf("validation failed")
	ErrNotFound      = fmt.Errorf("not found")
	ErrConflict      = fmt.Errorf("conflict")
	ErrEmptyRegistry = fmt.Errorf("no categories configured")
	ErrUpstream      = fmt.Errorf("storage failure")

	// 404 Not Found
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)

	// 409 Conflict
	ErrCategoryInUse = fmt.Errorf("category is referenced by products: %w", ErrConflict)

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrUnsupportedFileType  = fmt.Errorf("unsupported import file type")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// ValidationError описывает некорректное значение конкретного поля.
type ValidationError struct {
	Field   string
	Message string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid создаёт ValidationError для поля.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidWrap создаёт ValidationError, сохраняя причину в тексте сообщения.
func InvalidWrap(field string, err error) error {
	return &ValidationError{Field: field, Message: err.Error()}
}

// AsValidation извлекает ValidationError из цепочки ошибок.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// Upstream помечает ошибку хранилища.
func Upstream(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrUpstream, err)
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
