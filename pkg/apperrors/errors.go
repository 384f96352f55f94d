package apperrors

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidRange   = errors.New("invalid range")
	ErrZeroWidthRange = errors.New("normal range has zero width")
	ErrNoBaseline     = errors.New("trend baseline is zero or empty")
)
