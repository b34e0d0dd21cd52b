package notes

import (
	"context"
	"errors"

	"github.com/notewell/backend/internal/cache"
	"github.com/notewell/backend/internal/validate"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "note"

var (
	errMissingStore = errors.New("note store is required")
	errMissingCache = errors.New("cache view is required")
	noOpLogger      = zap.NewNop()
)

const (
	opCreateNote = "notes.create"
	opUpdateNote = "notes.update"
	opListNotes  = "notes.list"
	opDeleteNote = "notes.delete"
)

// ServiceConfig describes the dependencies of the note service.
type ServiceConfig struct {
	Store  *Store
	Cache  *cache.View
	Logger *zap.Logger
}

// Service orchestrates note validation, persistence and cache maintenance.
// It holds no state of its own.
type Service struct {
	store  *Store
	cache  *cache.View
	logger *zap.Logger
}

// NewService constructs the note service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	if cfg.Cache == nil {
		return nil, errMissingCache
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		store:  cfg.Store,
		cache:  cfg.Cache,
		logger: logger,
	}, nil
}

// Create validates the request, persists the note and writes the canonical
// stored record through to the cache.
func (s *Service) Create(ctx context.Context, request CreateRequest) (Note, error) {
	name, err := validate.Name(request.Name)
	if err != nil {
		return Note{}, err
	}

	created, err := s.store.Create(ctx, Note{Name: name, Description: request.Description})
	if err != nil {
		s.logError(opCreateNote, "store_create_failed", err)
		return Note{}, err
	}

	s.cache.PutRecord(ctx, cache.Key(cacheKeyPrefix, created.ID), created)
	return created, nil
}

// Update applies the fields present in the request to the stored note and
// replaces the cache entry wholesale.
func (s *Service) Update(ctx context.Context, id uint, request UpdateRequest) (Note, error) {
	note, err := s.store.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}

	if request.Name != nil {
		name, err := validate.Name(*request.Name)
		if err != nil {
			return Note{}, err
		}
		note.Name = name
	}
	if request.Description != nil {
		note.Description = request.Description
	}

	updated, err := s.store.Update(ctx, note)
	if err != nil {
		s.logError(opUpdateNote, "store_update_failed", err, zap.Uint("note_id", id))
		return Note{}, err
	}

	s.cache.PutRecord(ctx, cache.Key(cacheKeyPrefix, updated.ID), updated)
	return updated, nil
}

// Get returns the note by id, consulting the cache before the store and
// repopulating it on a miss.
func (s *Service) Get(ctx context.Context, id uint) (Note, error) {
	key := cache.Key(cacheKeyPrefix, id)

	var cached Note
	if s.cache.GetRecord(ctx, key, &cached) {
		return cached, nil
	}

	note, err := s.store.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}

	s.cache.PutRecord(ctx, key, note)
	return note, nil
}

// List returns all notes. List queries are never cached.
func (s *Service) List(ctx context.Context) ([]Note, error) {
	result, err := s.store.List(ctx)
	if err != nil {
		s.logError(opListNotes, "store_query_failed", err)
		return nil, err
	}
	return result, nil
}

// Delete removes the note and evicts its cache entry so no stale copy
// survives the record.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.logError(opDeleteNote, "store_delete_failed", err, zap.Uint("note_id", id))
		return err
	}
	s.cache.DropRecord(ctx, cache.Key(cacheKeyPrefix, id))
	return nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err),
	}
	attrs = append(attrs, fields...)
	s.logger.Error("note service error", attrs...)
}
