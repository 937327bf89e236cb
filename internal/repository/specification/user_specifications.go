package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByEmail filters users by email
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByUsername filters users by username
type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

// ByToken filters sessions or reset tokens by their opaque token
type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

// OwnedBy filters rows by their owning user
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ExpiresBefore filters rows whose expiry has passed
type ExpiresBefore struct {
	Time time.Time
}

func (s ExpiresBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at < ?", s.Time)
}
