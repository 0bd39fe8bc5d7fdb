package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"slidecast/internal/domain"
)

// Error is a non-2xx answer from the backend. It matches domain.ErrBackend,
// and domain.ErrNotFound when the backend answered 404.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
}

func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrBackend:
		return true
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}

func check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrBackend, err)
	}
	if !resp.IsError() {
		return nil
	}
	return &Error{Status: resp.StatusCode(), Message: op + ": " + errorMessage(resp)}
}

// errorMessage prefers the JSON "message" field, then "error", then the raw
// body, then the status text.
func errorMessage(resp *resty.Response) string {
	if eb, ok := resp.Error().(*errorBody); ok && eb != nil {
		if m := strings.TrimSpace(eb.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(eb.Error); m != "" {
			return m
		}
	}
	if body := strings.TrimSpace(resp.String()); body != "" && len(body) <= 512 {
		return body
	}
	return http.StatusText(resp.StatusCode())
}
