package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"catering/internal/domain/lifecycle"
	repo "catering/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ドメインエラーをHTTPエラーに読み替える。handlerのwriteErrorが使う。
func ToHTTPError(err error) error {
	if err == nil {
		return nil
	}
	if he, ok := AsHTTPError(err); ok {
		return he
	}

	switch {
	case errors.Is(err, lifecycle.ErrNotFound), errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, lifecycle.ErrNotAuthorized):
		return NewHTTPError(http.StatusForbidden, "not authorized")
	case errors.Is(err, lifecycle.ErrAmountMismatch):
		return NewHTTPError(http.StatusBadRequest, "amount mismatch")
	case errors.Is(err, lifecycle.ErrAlreadyCancelled):
		return NewHTTPError(http.StatusConflict, "already cancelled")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return NewHTTPError(http.StatusConflict, "invalid state transition")
	case errors.Is(err, lifecycle.ErrUpstreamUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, "upstream unavailable, please retry")
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
