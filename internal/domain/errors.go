package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"kiosk_commerce/pkg/errcodes"
)

// Сообщения, которые видит пользователь, когда сервер не прислал своё.
const (
	MessageCommerceUnavailable = "Could not connect to commerce server."
	MessageDealFailed          = "Deal expired or cancelled."
	MessageInvalidToken        = "Invalid Token"
	MessageNetworkError        = "Network Error"
)

// AppError представляет доменную ошибку приложения.
// Message показывается пользователю как есть.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	// StatusCode HTTP-статус ответа commerce backend, 0 если ответа не было.
	StatusCode int
	cause      error
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) ErrorCode() failure.ErrorCode {
	return e.Code
}

func (e *AppError) Description() string {
	return e.Message
}

// WithStatusCode запоминает HTTP-статус ответа.
func (e *AppError) WithStatusCode(statusCode int) *AppError {
	e.StatusCode = statusCode
	return e
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// IsAppError проверяет, является ли ошибка доменной.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// HasCode проверяет код доменной ошибки.
func HasCode(err error, codes ...failure.ErrorCode) bool {
	code, ok := GetCode(err)
	if !ok {
		return false
	}

	for _, c := range codes {
		if c == code {
			return true
		}
	}

	return false
}

// IsNetworkError сообщает, что backend не ответил вовсе.
func IsNetworkError(err error) bool {
	return HasCode(err, errcodes.CommerceUnavailable)
}

// IsTokenRejected сообщает, что backend отклонил токен при сканировании.
func IsTokenRejected(err error) bool {
	return HasCode(err, errcodes.InvalidToken, errcodes.StaleToken)
}

// Message возвращает текст для пользователя: сообщение доменной ошибки или
// fallback.
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
