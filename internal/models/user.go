package models

import (
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a shop operator allowed to use the API.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Password     string     `json:"password,omitempty"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func (u *User) Prepare() {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
}
