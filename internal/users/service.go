package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/notewell/backend/internal/cache"
	"github.com/notewell/backend/internal/fault"
	"github.com/notewell/backend/internal/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const cacheKeyPrefix = "user"

var (
	errMissingStore  = errors.New("user store is required")
	errMissingCache  = errors.New("cache view is required")
	errMissingTokens = errors.New("token issuer is required")
	noOpLogger       = zap.NewNop()
)

const (
	opCreateUser = "users.create"
	opUpdateUser = "users.update"
	opSearch     = "users.search"
	opDeleteUser = "users.delete"
	opLogin      = "users.login"
)

// TokenIssuer issues a signed bearer token for an authenticated user.
type TokenIssuer interface {
	Issue(subject uint, email, name string) (string, int64, error)
}

// ServiceConfig describes the dependencies of the user service.
type ServiceConfig struct {
	Store  *Store
	Cache  *cache.View
	Tokens TokenIssuer
	Logger *zap.Logger
}

// Service orchestrates user validation, persistence, cache maintenance and
// credential login. It holds no state of its own.
type Service struct {
	store  *Store
	cache  *cache.View
	tokens TokenIssuer
	logger *zap.Logger
}

// NewService constructs the user service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	if cfg.Cache == nil {
		return nil, errMissingCache
	}
	if cfg.Tokens == nil {
		return nil, errMissingTokens
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		store:  cfg.Store,
		cache:  cfg.Cache,
		tokens: cfg.Tokens,
		logger: logger,
	}, nil
}

// GetOne returns the user by id, consulting the cache before the store and
// repopulating it on a miss. A miss is not an error.
func (s *Service) GetOne(ctx context.Context, id uint) (User, error) {
	key := cache.Key(cacheKeyPrefix, id)

	var cached User
	if s.cache.GetRecord(ctx, key, &cached) {
		return cached, nil
	}

	user, err := s.store.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	s.cache.PutRecord(ctx, key, user)
	return user, nil
}

// Search returns users whose name contains the fragment. Search results are
// never cached; only single-entity lookups are.
func (s *Service) Search(ctx context.Context, name string) ([]User, error) {
	result, err := s.store.Search(ctx, name)
	if err != nil {
		s.logError(opSearch, "store_query_failed", err)
		return nil, err
	}
	return result, nil
}

// Create validates the request, hashes the password, persists the user and
// writes the canonical stored record through to the cache. The raw password
// is discarded; only the hash is stored.
func (s *Service) Create(ctx context.Context, request CreateRequest) (User, error) {
	if request.Name == "" {
		return User{}, fmt.Errorf(`%w: the field "name" is required`, fault.ErrInvalidInput)
	}
	if request.Email == "" {
		return User{}, fmt.Errorf(`%w: the field "email" is required`, fault.ErrInvalidInput)
	}
	if request.Password == "" {
		return User{}, fmt.Errorf(`%w: the field "password" is required`, fault.ErrInvalidInput)
	}

	name, err := validate.Name(request.Name)
	if err != nil {
		return User{}, err
	}
	email, err := validate.Email(request.Email)
	if err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logError(opCreateUser, "password_hash_failed", err)
		return User{}, err
	}

	created, err := s.store.Create(ctx, User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if !errors.Is(err, fault.ErrConflict) {
			s.logError(opCreateUser, "store_create_failed", err)
		}
		return User{}, err
	}

	s.cache.PutRecord(ctx, cache.Key(cacheKeyPrefix, created.ID), created)
	return created, nil
}

// Update applies the fields present in the request to the stored user and
// replaces the cache entry wholesale. At least one field must be present.
func (s *Service) Update(ctx context.Context, id uint, request UpdateRequest) (User, error) {
	user, err := s.store.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	if request.Name == nil && request.Email == nil {
		return User{}, fmt.Errorf("%w: nothing to update", fault.ErrInvalidInput)
	}
	if request.Name != nil {
		name, err := validate.Name(*request.Name)
		if err != nil {
			return User{}, err
		}
		user.Name = name
	}
	if request.Email != nil {
		email, err := validate.Email(*request.Email)
		if err != nil {
			return User{}, err
		}
		user.Email = email
	}

	updated, err := s.store.Update(ctx, user)
	if err != nil {
		if !errors.Is(err, fault.ErrConflict) {
			s.logError(opUpdateUser, "store_update_failed", err, zap.Uint("user_id", id))
		}
		return User{}, err
	}

	s.cache.PutRecord(ctx, cache.Key(cacheKeyPrefix, updated.ID), updated)
	return updated, nil
}

// Delete removes the user after removing its dependent tasks. Task cleanup
// must precede the user delete; if cleanup fails the user row is left
// untouched. The cache entry is evicted, never overwritten, so no stale copy
// survives the record.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteTasks(ctx, id); err != nil {
		s.logError(opDeleteUser, "task_cleanup_failed", err, zap.Uint("user_id", id))
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.logError(opDeleteUser, "store_delete_failed", err, zap.Uint("user_id", id))
		return err
	}
	s.cache.DropRecord(ctx, cache.Key(cacheKeyPrefix, id))
	return nil
}

// Login checks the submitted credentials and issues a signed bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, request LoginRequest) (Session, error) {
	if request.Email == "" {
		return Session{}, fmt.Errorf(`%w: the field "email" is required`, fault.ErrInvalidInput)
	}
	if request.Password == "" {
		return Session{}, fmt.Errorf(`%w: the field "password" is required`, fault.ErrInvalidInput)
	}

	// No format check here: a malformed email is simply an address no user
	// is registered under, and must fail exactly like any other unknown
	// email. Lowercasing matches the normalization applied at registration.
	email := strings.ToLower(strings.TrimSpace(request.Email))

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return Session{}, fmt.Errorf("%w: login failed", fault.ErrUnauthorized)
		}
		s.logError(opLogin, "store_lookup_failed", err)
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return Session{}, fmt.Errorf("%w: login failed", fault.ErrUnauthorized)
	}

	token, expiresIn, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		s.logError(opLogin, "token_issue_failed", err, zap.Uint("user_id", user.ID))
		return Session{}, err
	}

	return Session{AccessToken: token, ExpiresIn: expiresIn}, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err),
	}
	attrs = append(attrs, fields...)
	s.logger.Error("user service error", attrs...)
}
