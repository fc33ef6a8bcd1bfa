package lookbook

import "time"

// PageSize is the number of lookbooks returned per listing page.
const PageSize = 12

// UserSummary is the public projection of a user embedded in other records.
type UserSummary struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

type Image struct {
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type Comment struct {
	ID        string      `json:"_id"`
	User      UserSummary `json:"user"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Lookbook struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Creator     UserSummary `json:"creator"`
	Theme       string      `json:"theme"`
	Season      string      `json:"season"`
	Occasion    string      `json:"occasion"`
	Tags        []string    `json:"tags"`
	Images      []Image     `json:"images"`
	Likes       []string    `json:"likes"`
	Comments    []Comment   `json:"comments"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Theme       string   `json:"theme"`
	Season      string   `json:"season"`
	Occasion    string   `json:"occasion"`
	Tags        []string `json:"tags"`
	Images      []Image  `json:"images"`
}

// Patch carries the owner-editable fields. Nil fields are left untouched;
// a non-nil Images replaces the whole ordered image list.
type Patch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Theme       *string   `json:"theme"`
	Season      *string   `json:"season"`
	Occasion    *string   `json:"occasion"`
	Tags        *[]string `json:"tags"`
	Images      *[]Image  `json:"images"`
}

type Page struct {
	Lookbooks []Lookbook `json:"lookbooks"`
	Page      int        `json:"page"`
	Pages     int        `json:"pages"`
	Total     int        `json:"total"`
}

type LikeResult struct {
	Likes []string `json:"likes"`
	Liked bool     `json:"liked"`
}

type Order int

const (
	OrderNewest Order = iota
	// OrderMostLiked sorts by like count, breaking ties newest first.
	OrderMostLiked
	// OrderSaved sorts by when Query.SavedBy saved each lookbook, oldest
	// save first. Without SavedBy it falls back to OrderNewest.
	OrderSaved
)

// Query selects lookbooks for Find. Zero-valued fields do not filter.
type Query struct {
	ID           string
	CreatorID    string
	FollowedBy   string
	SavedBy      string
	CreatedAfter time.Time
	// Text matches title, description or any tag, case-insensitively.
	Text     string
	Theme    string
	Season   string
	Occasion string
	Order    Order
	Limit    int
	Offset   int
}
