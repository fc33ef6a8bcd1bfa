package social

import (
	"time"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/lookbook"
)

// PublicUser is what other users may see of an account. Email and
// credentials are never part of it.
type PublicUser struct {
	ID             string                 `json:"_id"`
	Username       string                 `json:"username"`
	ProfilePicture string                 `json:"profilePicture"`
	Followers      []lookbook.UserSummary `json:"followers"`
	Following      []lookbook.UserSummary `json:"following"`
	CreatedAt      time.Time              `json:"createdAt"`
}

type UserProfile struct {
	User      PublicUser          `json:"user"`
	Lookbooks []lookbook.Lookbook `json:"lookbooks"`
}

type FollowResult struct {
	Following bool `json:"following"`
}

type SaveResult struct {
	Saved bool `json:"saved"`
}
