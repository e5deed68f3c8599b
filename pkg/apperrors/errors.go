package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("already exists")
	ErrAgentNotFound = errors.New("agent not found")
	ErrDatabase      = errors.New("database operation failed")
)
