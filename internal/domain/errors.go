package domain

import "errors"

var (
	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("record not found")
	ErrInvalid   = errors.New("invalid record")
)
