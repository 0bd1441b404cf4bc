package model

import (
	"time"

	"gorm.io/gorm"
)

// User is an administrator login for the management console.
type User struct {
	gorm.Model
	Name           string     `json:"name"`
	Email          string     `json:"email" gorm:"uniqueIndex"`
	Password       string     `json:"-"`
	FailedAttempts int        `json:"-"`
	LockedUntil    *time.Time `json:"-"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}
