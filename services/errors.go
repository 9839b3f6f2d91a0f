package services

import (
	"errors"
	"fmt"
)

// ValidationError возникает при некорректных входных данных (нет файла
// подтверждения, неположительная сумма). Операция не выполняется.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError создает новую ошибку валидации
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError возникает при нарушении одностороннего перехода статусов
// (платеж уже решен, параллельная проверка). Никаких изменений не происходит.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError создает новую ошибку конфликта
func NewConflictError(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError возникает, когда платеж, подписка или компания не найдены
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s с ID %d не найден", e.Entity, e.ID)
}

// NewNotFoundError создает новую ошибку отсутствия сущности
func NewNotFoundError(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InfrastructureError возникает при сбоях хранилища или транспорта.
// Операция прерывается; автоматических повторов нет.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("инфраструктурная ошибка (%s): %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// NewInfrastructureError оборачивает ошибку инфраструктуры
func NewInfrastructureError(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}

// IsValidationError проверяет, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflictError проверяет, является ли ошибка конфликтом
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFoundError проверяет, является ли ошибка отсутствием сущности
func IsNotFoundError(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsInfrastructureError проверяет, является ли ошибка инфраструктурной
func IsInfrastructureError(err error) bool {
	var ie *InfrastructureError
	return errors.As(err, &ie)
}
