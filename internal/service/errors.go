package service

import (
	"errors"

	"github.com/emrgen/happix/internal/store"
)

var (
	// ErrValidation is returned when an input is rejected before any catalog mutation.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownFormat is returned when no parser handles an uploaded file.
	ErrUnknownFormat = errors.New("unknown file format")
	// ErrMissingLanguage is returned when neither a file nor its contents declare a language.
	ErrMissingLanguage = errors.New("target language is missing")
	// ErrTransactionFailure wraps an unexpected fault after a merge has been rolled back.
	ErrTransactionFailure = errors.New("merge transaction failed")

	ErrResourceNotFound  = store.ErrResourceNotFound
	ErrEmptySourceString = store.ErrEmptySourceString
)
