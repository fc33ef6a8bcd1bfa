package lookbook

import (
	"context"
	"strings"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/cache"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var errNotFound = apperror.NotFound("lookbook not found")

type Service struct {
	db    db.Querier
	cache *cache.Cache
}

func NewService(db db.Querier, cache *cache.Cache) *Service {
	return &Service{db: db, cache: cache}
}

func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Lookbook, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || input.Description == "" {
		return Lookbook{}, apperror.Validation("title and description are required")
	}
	if err := validateImages(input.Images); err != nil {
		return Lookbook{}, err
	}

	id := uuid.NewString()
	err := db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO lookbooks (id, creator_id, title, description, theme, season, occasion, tags)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, id, ownerID, input.Title, input.Description,
			strings.TrimSpace(input.Theme), strings.TrimSpace(input.Season), strings.TrimSpace(input.Occasion), cleanTags(input.Tags))
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return apperror.NotFound("user not found")
			}
			return apperror.Upstream("failed to create lookbook", err)
		}
		return insertImages(ctx, tx, id, input.Images)
	})
	if err != nil {
		return Lookbook{}, err
	}

	s.cache.Invalidate(ctx, cache.KeyTrending)
	return s.Get(ctx, id)
}

// List returns one page of lookbooks, newest first. Pages outside 1..pages
// yield an empty page rather than an error.
func (s *Service) List(ctx context.Context, page int) (Page, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM lookbooks`).Scan(&total); err != nil {
		return Page{}, apperror.Upstream("failed to count lookbooks", err)
	}

	pages := int((total + PageSize - 1) / PageSize)
	result := Page{Lookbooks: []Lookbook{}, Page: page, Pages: pages, Total: int(total)}
	if page < 1 || page > pages {
		return result, nil
	}

	lookbooks, err := s.Find(ctx, Query{Limit: PageSize, Offset: (page - 1) * PageSize})
	if err != nil {
		return Page{}, err
	}
	result.Lookbooks = lookbooks
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (Lookbook, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Lookbook{}, errNotFound
	}
	found, err := s.Find(ctx, Query{ID: id, Limit: 1})
	if err != nil {
		return Lookbook{}, err
	}
	if len(found) == 0 {
		return Lookbook{}, errNotFound
	}
	return found[0], nil
}

// Update applies patch to a lookbook owned by callerID.
func (s *Service) Update(ctx context.Context, callerID, id string, patch Patch) (Lookbook, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Lookbook{}, errNotFound
	}

	err := db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := lockOwned(ctx, tx, callerID, id); err != nil {
			return err
		}
		if err := validatePatch(&patch); err != nil {
			return err
		}

		var tags *[]string
		if patch.Tags != nil {
			cleaned := cleanTags(*patch.Tags)
			tags = &cleaned
		}
		_, err := tx.Exec(ctx, `
			UPDATE lookbooks
			SET title = COALESCE($2, title),
			    description = COALESCE($3, description),
			    theme = COALESCE($4, theme),
			    season = COALESCE($5, season),
			    occasion = COALESCE($6, occasion),
			    tags = COALESCE($7, tags),
			    updated_at = now()
			WHERE id = $1
		`, id, patch.Title, patch.Description, patch.Theme, patch.Season, patch.Occasion, tags)
		if err != nil {
			return apperror.Upstream("failed to update lookbook", err)
		}

		if patch.Images == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM lookbook_images WHERE lookbook_id = $1`, id); err != nil {
			return apperror.Upstream("failed to update lookbook", err)
		}
		return insertImages(ctx, tx, id, *patch.Images)
	})
	if err != nil {
		return Lookbook{}, err
	}

	s.cache.Invalidate(ctx, cache.KeyTrending)
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errNotFound
	}

	err := db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := lockOwned(ctx, tx, callerID, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM lookbooks WHERE id = $1`, id); err != nil {
			return apperror.Upstream("failed to delete lookbook", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.KeyTrending)
	return nil
}

// ToggleLike adds callerID to the lookbook's likes, or removes it when
// already present. The lookbook row lock serializes concurrent toggles.
func (s *Service) ToggleLike(ctx context.Context, callerID, id string) (LikeResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LikeResult{}, errNotFound
	}

	var result LikeResult
	err := db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var locked string
		if err := tx.QueryRow(ctx, `SELECT id FROM lookbooks WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			if db.IsNoRows(err) {
				return errNotFound
			}
			return apperror.Upstream("failed to like lookbook", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM lookbook_likes WHERE lookbook_id = $1 AND user_id = $2`, id, callerID)
		if err != nil {
			return apperror.Upstream("failed to like lookbook", err)
		}
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx, `INSERT INTO lookbook_likes (lookbook_id, user_id) VALUES ($1,$2)`, id, callerID); err != nil {
				return apperror.Upstream("failed to like lookbook", err)
			}
			result.Liked = true
		}

		likes, err := loadLikes(ctx, tx, []string{id})
		if err != nil {
			return err
		}
		result.Likes = likes[id]
		if result.Likes == nil {
			result.Likes = []string{}
		}
		return nil
	})
	if err != nil {
		return LikeResult{}, err
	}

	s.cache.Invalidate(ctx, cache.KeyTrending)
	return result, nil
}

// AddComment appends a comment and returns the lookbook's full comment list.
func (s *Service) AddComment(ctx context.Context, callerID, id, text string) ([]Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Validation("comment text is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, errNotFound
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO lookbook_comments (id, lookbook_id, user_id, text)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), id, callerID, text)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, errNotFound
		}
		return nil, apperror.Upstream("failed to add comment", err)
	}
	s.cache.Invalidate(ctx, cache.KeyTrending)

	comments, err := loadComments(ctx, s.db, []string{id})
	if err != nil {
		return nil, err
	}
	if comments[id] == nil {
		return []Comment{}, nil
	}
	return comments[id], nil
}

// lockOwned locks the lookbook row and checks that callerID created it.
func lockOwned(ctx context.Context, tx pgx.Tx, callerID, id string) error {
	var creatorID string
	if err := tx.QueryRow(ctx, `SELECT creator_id FROM lookbooks WHERE id = $1 FOR UPDATE`, id).Scan(&creatorID); err != nil {
		if db.IsNoRows(err) {
			return errNotFound
		}
		return apperror.Upstream("failed to load lookbook", err)
	}
	if creatorID != callerID {
		return apperror.Forbidden("not authorized to modify this lookbook")
	}
	return nil
}

func insertImages(ctx context.Context, tx pgx.Tx, lookbookID string, images []Image) error {
	for i, img := range images {
		_, err := tx.Exec(ctx, `
			INSERT INTO lookbook_images (lookbook_id, position, url, description, tags)
			VALUES ($1,$2,$3,$4,$5)
		`, lookbookID, i, strings.TrimSpace(img.URL), strings.TrimSpace(img.Description), cleanTags(img.Tags))
		if err != nil {
			return apperror.Upstream("failed to save images", err)
		}
	}
	return nil
}

func validateImages(images []Image) error {
	if len(images) == 0 {
		return apperror.Validation("at least one image is required")
	}
	for _, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			return apperror.Validation("every image needs a url")
		}
	}
	return nil
}

func validatePatch(p *Patch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return apperror.Validation("title cannot be empty")
		}
		p.Title = &title
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		if description == "" {
			return apperror.Validation("description cannot be empty")
		}
		p.Description = &description
	}
	if p.Images != nil {
		return validateImages(*p.Images)
	}
	return nil
}

// cleanTags trims tags and drops blanks. It never returns nil so the
// NOT NULL array columns always receive a value.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
