package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/notewell/backend/internal/fault"
	"gorm.io/gorm"
)

// Store owns the authoritative user and task lifecycle in the backing
// database.
type Store struct {
	db *gorm.DB
}

// NewStore wraps the database handle for user persistence.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("users: database handle is required")
	}
	return &Store{db: db}, nil
}

// Create inserts the user after rejecting an already-registered email, and
// returns the canonical stored record. The conflict check runs before any
// mutation.
func (s *Store) Create(ctx context.Context, user User) (User, error) {
	taken, err := s.emailTaken(ctx, user.Email, 0)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, fmt.Errorf("%w: email already registered", fault.ErrConflict)
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return User{}, err
	}
	return user, nil
}

// Get loads a user by id.
func (s *Store) Get(ctx context.Context, id uint) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Take(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, fmt.Errorf("%w: user %d", fault.ErrNotFound, id)
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// FindByEmail loads a user by its normalized email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, fmt.Errorf("%w: email %s", fault.ErrNotFound, email)
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Search returns users whose name contains the given fragment.
func (s *Store) Search(ctx context.Context, name string) ([]User, error) {
	var result []User
	err := s.db.WithContext(ctx).
		Where("name LIKE ?", "%"+name+"%").
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update persists the full record, rejecting an email already registered to
// another user, and returns the stored value.
func (s *Store) Update(ctx context.Context, user User) (User, error) {
	taken, err := s.emailTaken(ctx, user.Email, user.ID)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, fmt.Errorf("%w: email already registered", fault.ErrConflict)
	}
	result := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":  user.Name,
			"email": user.Email,
		})
	if result.Error != nil {
		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, fmt.Errorf("%w: user %d", fault.ErrNotFound, user.ID)
	}
	return s.Get(ctx, user.ID)
}

// DeleteTasks removes every task owned by the user.
func (s *Store) DeleteTasks(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Task{}).Error
}

// Delete removes the user row.
func (s *Store) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", fault.ErrNotFound, id)
	}
	return nil
}

// emailTaken reports whether the normalized email is registered to a user
// other than excludeID.
func (s *Store) emailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
