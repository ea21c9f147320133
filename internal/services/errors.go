// Package services holds the errors shared by the domain services. Each
// service lives in its own subpackage.
package services

import (
	"errors"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("not allowed for this role")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = repository.ErrNotFound
)
