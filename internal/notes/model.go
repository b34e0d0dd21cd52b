package notes

import "time"

// Note models a persisted note. The identifier is assigned by the store on
// creation and immutable afterwards; Description stays NULL until a client
// sets it.
type Note struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;size:100;not null" json:"name"`
	Description *string   `gorm:"column:description;size:255" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Note) TableName() string {
	return "notes"
}

// CreateRequest carries the fields accepted when creating a note. Name is
// required; a nil Description leaves the column NULL.
type CreateRequest struct {
	Name        string
	Description *string
}

// UpdateRequest carries a partial update. Nil fields are left untouched.
type UpdateRequest struct {
	Name        *string
	Description *string
}
