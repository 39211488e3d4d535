package store

import "errors"

var (
	ErrResourceNotFound     = errors.New("resource not found")
	ErrSourceEntityNotFound = errors.New("source entity not found")
	ErrSuggestionNotFound   = errors.New("suggestion not found")
	ErrTemplateNotFound     = errors.New("source template not found")
	ErrStorageFileNotFound  = errors.New("storage file not found")
	ErrEmptySourceString    = errors.New("source string must not be empty")
	// ErrConflictRetry is returned only when a conflicting row vanished between
	// every insert attempt and the following read.
	ErrConflictRetry = errors.New("conflict retry limit reached")
)
