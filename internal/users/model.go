package users

import "time"

// User models a registered account. Email is stored normalized to lower case
// so uniqueness and login lookups are case-insensitive. The password hash
// never leaves the service layer.
type User struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	Email        string    `gorm:"column:email;size:320;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:100;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (User) TableName() string {
	return "users"
}

// Task is a record owned by a user. Tasks must be removed before their owner
// so no orphaned references survive a user delete.
type Task struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	UserID      uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	Name        string    `gorm:"column:name;size:100;not null" json:"name"`
	Description *string   `gorm:"column:description;size:255" json:"description"`
	Status      bool      `gorm:"column:status;not null;default:false" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Task) TableName() string {
	return "tasks"
}

// CreateRequest carries the fields required to register a user.
type CreateRequest struct {
	Name     string
	Email    string
	Password string
}

// UpdateRequest carries a partial user update. Nil fields are left untouched;
// at least one must be present.
type UpdateRequest struct {
	Name  *string
	Email *string
}

// LoginRequest carries submitted credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// Session is the outcome of a successful login: a signed bearer token and
// its lifetime in seconds. No server-side session record exists.
type Session struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
