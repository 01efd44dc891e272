package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an authoring principal. PasswordHash never leaves this package
// in a response.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
