package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/parser"
	"github.com/emrgen/happix/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewStorageFileService creates a new StorageFileService.
func NewStorageFileService(store store.Store, parsers *parser.Registry, scratchDir string) *StorageFileService {
	return &StorageFileService{
		store:      store,
		parsers:    parsers,
		scratchDir: scratchDir,
	}
}

// StorageFileService registers uploaded files kept in the scratch directory.
type StorageFileService struct {
	store      store.Store
	parsers    *parser.Registry
	scratchDir string
}

// AddFile copies r into the scratch directory under <uuid>-<name>, inspects it and records it.
func (s *StorageFileService) AddFile(ctx context.Context, name string, r io.Reader, language string, userID *string) (*model.StorageFile, error) {
	if err := validateFileName(name); err != nil {
		return nil, err
	}

	file := &model.StorageFile{
		ID:     uuid.New().String(),
		Name:   name,
		UserID: userID,
	}
	if language != "" {
		var err error
		if file.LanguageCode, err = canonicalLanguage(language); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(s.scratchDir, 0o755); err != nil {
		return nil, err
	}

	out, err := os.Create(file.StoragePath(s.scratchDir))
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(file.StoragePath(s.scratchDir))
		return nil, err
	}
	file.Size = size

	s.UpdateProps(file)

	if err := s.store.CreateStorageFile(ctx, file); err != nil {
		return nil, err
	}

	return file, nil
}

// validateFileName keeps <uuid>-<name> inside the scratch directory.
func validateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid file name %q", ErrValidation, name)
	}

	return nil
}

// UpdateProps fills mime type, declared language and string count from the file contents.
// A file no parser accepts, or one that fails to parse, is left untranslatable.
func (s *StorageFileService) UpdateProps(file *model.StorageFile) {
	p, ok := s.parsers.ForFilename(file.Name)
	if !ok {
		return
	}
	file.MimeType = p.MimeType()

	set, err := parser.ParseFile(p, file.StoragePath(s.scratchDir))
	if err != nil {
		logrus.Warnf("file %s is not translatable: %v", file.Name, err)
		return
	}

	if set.TargetLanguage != "" && file.LanguageCode == "" {
		if language, err := canonicalLanguage(set.TargetLanguage); err == nil {
			file.LanguageCode = language
		}
	}
	file.TotalStrings = set.Len()
}

func (s *StorageFileService) GetFile(ctx context.Context, id string) (*model.StorageFile, error) {
	return s.store.GetStorageFile(ctx, id)
}

// Bind marks a file as attached to a resource, it is no longer a pending upload.
func (s *StorageFileService) Bind(ctx context.Context, file *model.StorageFile) error {
	file.Bound = true
	return s.store.UpdateStorageFile(ctx, file)
}
