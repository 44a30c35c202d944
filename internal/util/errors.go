package util

import (
	"errors"
	"fmt"
)

// 业务错误分类，service 层通过 fmt.Errorf("%w: ...") 包装后返回
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrUsernameTaken      = fmt.Errorf("%w: username already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	ErrNotAssigned        = fmt.Errorf("%w: user is not assigned to this question", ErrForbidden)
	ErrSessionNotFound    = fmt.Errorf("%w: session not found", ErrUnauthorized)
	ErrQuestionNotFound   = fmt.Errorf("%w: question not found", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrWriteinNotFound    = fmt.Errorf("%w: no write-in found", ErrNotFound)
)
