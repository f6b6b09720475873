package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultImageFile is the placeholder picture reference used until a user or
// post has an uploaded image.
const DefaultImageFile = "default.jpg"

// Principal is the capability-checking view of a caller. It is implemented
// by *User for authenticated callers and by Anonymous for everyone else.
type Principal interface {
	CheckAccess(p Permission) bool
	IsAdministrator() bool
}

// User represents a registered account
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username     string    `gorm:"type:varchar(64);not null;uniqueIndex:users_ux1;column:username"`
	Email        string    `gorm:"type:varchar(64);not null;uniqueIndex:users_ux2;column:email"`
	Name         string    `gorm:"type:varchar(64);column:name"`
	Description  string    `gorm:"type:varchar(256);column:description"`
	PasswordHash string    `gorm:"type:varchar(128);not null;column:password_hash"`
	ImageFile    string    `gorm:"type:varchar(64);not null;default:'default.jpg';column:image_file"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`
	RoleID       int64     `gorm:"not null;column:role_id"`

	Role     *Role     `gorm:"foreignKey:RoleID;references:ID"`
	Posts    []Post    `gorm:"foreignKey:AuthorID;references:ID"`
	Comments []Comment `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// SetPassword stores a salted one-way hash of the plaintext. The plaintext
// is never persisted.
func (u *User) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrPasswordEmpty
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// Password always fails: the plaintext is write-only and cannot be read back
func (u *User) Password() (string, error) {
	return "", ErrPasswordWriteOnly
}

// CheckPassword verifies the candidate against the stored hash without side
// effects. The comparison is constant time.
func (u *User) CheckPassword(candidate string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// CheckAccess reports whether the user's role grants the given permission
func (u *User) CheckAccess(p Permission) bool {
	return u.Role != nil && u.Role.HasPermission(p)
}

// IsAdministrator reports whether the user holds the admin permission
func (u *User) IsAdministrator() bool {
	return u.CheckAccess(PermissionAdmin)
}

// Anonymous stands in for unauthenticated callers. It has no role, so every
// capability check answers false.
type Anonymous struct{}

// CheckAccess always returns false for anonymous callers
func (Anonymous) CheckAccess(Permission) bool {
	return false
}

// IsAdministrator always returns false for anonymous callers
func (Anonymous) IsAdministrator() bool {
	return false
}
