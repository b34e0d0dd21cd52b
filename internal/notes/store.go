package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/notewell/backend/internal/fault"
	"gorm.io/gorm"
)

// Store owns the authoritative note lifecycle in the backing database.
type Store struct {
	db *gorm.DB
}

// NewStore wraps the database handle for note persistence.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("notes: database handle is required")
	}
	return &Store{db: db}, nil
}

// Create inserts the note and returns the canonical stored record. The id is
// unknown until the store assigns it here.
func (s *Store) Create(ctx context.Context, note Note) (Note, error) {
	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		return Note{}, err
	}
	return note, nil
}

// Get loads a note by id.
func (s *Store) Get(ctx context.Context, id uint) (Note, error) {
	var note Note
	err := s.db.WithContext(ctx).Take(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Note{}, fmt.Errorf("%w: note %d", fault.ErrNotFound, id)
	}
	if err != nil {
		return Note{}, err
	}
	return note, nil
}

// Update persists the full record and returns the stored value.
func (s *Store) Update(ctx context.Context, note Note) (Note, error) {
	result := s.db.WithContext(ctx).Model(&Note{}).Where("id = ?", note.ID).
		Updates(map[string]interface{}{
			"name":        note.Name,
			"description": note.Description,
		})
	if result.Error != nil {
		return Note{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Note{}, fmt.Errorf("%w: note %d", fault.ErrNotFound, note.ID)
	}
	return s.Get(ctx, note.ID)
}

// List returns all notes ordered by id.
func (s *Store) List(ctx context.Context) ([]Note, error) {
	var result []Note
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the note row.
func (s *Store) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Note{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: note %d", fault.ErrNotFound, id)
	}
	return nil
}
