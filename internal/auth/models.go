package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profilePicture"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePatch holds the fields a user may change on their own profile. Nil
// fields are left untouched.
type ProfilePatch struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	ProfilePicture *string `json:"profilePicture"`
}

// Profile is the caller's own view of their account. The password hash never
// leaves the service.
type Profile struct {
	ID             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
	SavedLookbooks []string  `json:"savedLookbooks"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type AuthResponse struct {
	Profile
	Token string `json:"token"`
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type user struct {
	Profile
	PasswordHash string
}
