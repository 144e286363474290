package service

import (
	"errors"
	"fmt"

	"github.com/AizaAsim/CampusConnect/internal/repository"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)

// Error 带可读信息的业务错误，errors.Is 匹配 Kind
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Msg: fmt.Sprintf(format, args...)}
}

func unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Msg: msg}
}

func invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// missing 仓储的 ErrNotFound 转为 NotFound，其他错误原样返回
func missing(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(format, args...)
	}
	return err
}

// duplicate 唯一索引冲突转为 Conflict
func duplicate(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return conflict(format, args...)
	}
	return err
}
