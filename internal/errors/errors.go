package errors

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// Is проверяет, является ли err экземпляром пользовательского типа T
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// ValidationError - некорректные аргументы запроса, отклоняется до обращения к хранилищу
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthorizationError - отсутствует или некорректна роль пользователя
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization error: %s", e.Message)
}

// CommentCreationError - доменная ошибка создания комментария,
// отдается клиенту как payload с причиной, а не как общий сбой
type CommentCreationError struct {
	Reason string
}

func (e *CommentCreationError) Error() string {
	return e.Reason
}

// ExternalError - сбой внешнего сервиса (пользовательский сервис, хранилище)
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}
