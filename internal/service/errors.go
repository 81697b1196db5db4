package service

import "github.com/pkg/errors"

var (
	// ErrSessionNotFound covers unknown and expired sessions alike
	ErrSessionNotFound  = errors.New("session expired")
	ErrSummaryNotReady  = errors.New("interview still in progress")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrEmptyMessage     = errors.New("message is empty")
)
