package discover

import (
	"context"
	"strings"
	"time"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/cache"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/lookbook"
)

const (
	feedLimit      = 10
	trendingWindow = 7 * 24 * time.Hour
)

type SearchParams struct {
	Q        string
	Theme    string
	Season   string
	Occasion string
}

type Service struct {
	lookbooks *lookbook.Service
	cache     *cache.Cache
	now       func() time.Time
}

func NewService(lookbooks *lookbook.Service, cache *cache.Cache) *Service {
	return &Service{lookbooks: lookbooks, cache: cache, now: time.Now}
}

// Trending returns the most liked lookbooks of the last week.
func (s *Service) Trending(ctx context.Context) ([]lookbook.Lookbook, error) {
	return cache.Remember(ctx, s.cache, cache.KeyTrending, func(ctx context.Context) ([]lookbook.Lookbook, error) {
		return s.lookbooks.Find(ctx, lookbook.Query{
			CreatedAfter: s.now().Add(-trendingWindow),
			Order:        lookbook.OrderMostLiked,
			Limit:        feedLimit,
		})
	})
}

// Recommended returns the newest lookbooks by creators userID follows.
func (s *Service) Recommended(ctx context.Context, userID string) ([]lookbook.Lookbook, error) {
	return s.lookbooks.Find(ctx, lookbook.Query{FollowedBy: userID, Limit: feedLimit})
}

func (s *Service) Search(ctx context.Context, p SearchParams) ([]lookbook.Lookbook, error) {
	return s.lookbooks.Find(ctx, lookbook.Query{
		Text:     strings.TrimSpace(p.Q),
		Theme:    strings.TrimSpace(p.Theme),
		Season:   strings.TrimSpace(p.Season),
		Occasion: strings.TrimSpace(p.Occasion),
	})
}
