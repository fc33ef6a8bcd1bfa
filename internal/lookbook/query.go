package lookbook

import (
	"context"
	"fmt"
	"strings"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/db"
)

const selectLookbooks = `
		SELECT l.id, l.title, l.description, l.theme, l.season, l.occasion, l.tags, l.created_at, l.updated_at,
		       u.id, u.username, u.profile_picture
		FROM lookbooks l
		JOIN users u ON u.id = l.creator_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns free text into a substring ILIKE pattern, escaping the
// wildcard characters the user typed.
func likePattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

type whereBuilder struct {
	conds []string
	args  []any
}

// add appends a condition whose %[1]d verbs refer to the placeholder of arg.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) placeholder(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

func buildQuery(q Query) (string, []any) {
	var w whereBuilder
	savedArg := 0
	if q.ID != "" {
		w.add(`l.id = $%[1]d`, q.ID)
	}
	if q.CreatorID != "" {
		w.add(`l.creator_id = $%[1]d`, q.CreatorID)
	}
	if q.FollowedBy != "" {
		w.add(`l.creator_id IN (SELECT following_id FROM user_follows WHERE follower_id = $%[1]d)`, q.FollowedBy)
	}
	if q.SavedBy != "" {
		w.add(`l.id IN (SELECT lookbook_id FROM saved_lookbooks WHERE user_id = $%[1]d)`, q.SavedBy)
		savedArg = len(w.args)
	}
	if !q.CreatedAfter.IsZero() {
		w.add(`l.created_at >= $%[1]d`, q.CreatedAfter)
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		w.add(`(l.title ILIKE $%[1]d OR l.description ILIKE $%[1]d OR EXISTS (SELECT 1 FROM unnest(l.tags) AS tag WHERE tag ILIKE $%[1]d))`, likePattern(text))
	}
	if q.Theme != "" {
		w.add(`l.theme = $%[1]d`, q.Theme)
	}
	if q.Season != "" {
		w.add(`l.season = $%[1]d`, q.Season)
	}
	if q.Occasion != "" {
		w.add(`l.occasion = $%[1]d`, q.Occasion)
	}

	var b strings.Builder
	b.WriteString(selectLookbooks)
	if len(w.conds) > 0 {
		b.WriteString("\n\t\tWHERE ")
		b.WriteString(strings.Join(w.conds, " AND "))
	}

	switch {
	case q.Order == OrderSaved && savedArg > 0:
		fmt.Fprintf(&b, "\n\t\tORDER BY (SELECT s.created_at FROM saved_lookbooks s WHERE s.user_id = $%d AND s.lookbook_id = l.id), l.id", savedArg)
	case q.Order == OrderMostLiked:
		b.WriteString("\n\t\tORDER BY (SELECT COUNT(*) FROM lookbook_likes k WHERE k.lookbook_id = l.id) DESC, l.created_at DESC, l.id DESC")
	default:
		b.WriteString("\n\t\tORDER BY l.created_at DESC, l.id DESC")
	}

	if q.Limit > 0 {
		b.WriteString(" LIMIT " + w.placeholder(q.Limit))
	}
	if q.Offset > 0 {
		b.WriteString(" OFFSET " + w.placeholder(q.Offset))
	}
	return b.String(), w.args
}

// Find runs q and returns fully resolved lookbooks: creator, images, likes
// and comments with their authors.
func (s *Service) Find(ctx context.Context, q Query) ([]Lookbook, error) {
	return find(ctx, s.db, q)
}

func find(ctx context.Context, ex db.Execer, q Query) ([]Lookbook, error) {
	sql, args := buildQuery(q)
	rows, err := ex.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.Upstream("failed to load lookbooks", err)
	}
	defer rows.Close()

	lookbooks := []Lookbook{}
	var ids []string
	for rows.Next() {
		var l Lookbook
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.Theme, &l.Season, &l.Occasion, &l.Tags, &l.CreatedAt, &l.UpdatedAt,
			&l.Creator.ID, &l.Creator.Username, &l.Creator.ProfilePicture); err != nil {
			return nil, apperror.Upstream("failed to load lookbooks", err)
		}
		if l.Tags == nil {
			l.Tags = []string{}
		}
		l.Images, l.Likes, l.Comments = []Image{}, []string{}, []Comment{}
		ids = append(ids, l.ID)
		lookbooks = append(lookbooks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to load lookbooks", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return lookbooks, nil
	}
	if err := loadRelations(ctx, ex, lookbooks, ids); err != nil {
		return nil, err
	}
	return lookbooks, nil
}

func loadRelations(ctx context.Context, ex db.Execer, lookbooks []Lookbook, ids []string) error {
	images, err := loadImages(ctx, ex, ids)
	if err != nil {
		return err
	}
	likes, err := loadLikes(ctx, ex, ids)
	if err != nil {
		return err
	}
	comments, err := loadComments(ctx, ex, ids)
	if err != nil {
		return err
	}
	for i := range lookbooks {
		id := lookbooks[i].ID
		if v, ok := images[id]; ok {
			lookbooks[i].Images = v
		}
		if v, ok := likes[id]; ok {
			lookbooks[i].Likes = v
		}
		if v, ok := comments[id]; ok {
			lookbooks[i].Comments = v
		}
	}
	return nil
}

func loadImages(ctx context.Context, ex db.Execer, ids []string) (map[string][]Image, error) {
	rows, err := ex.Query(ctx, `
		SELECT lookbook_id, url, description, tags
		FROM lookbook_images WHERE lookbook_id = ANY($1)
		ORDER BY lookbook_id, position
	`, ids)
	if err != nil {
		return nil, apperror.Upstream("failed to load images", err)
	}
	defer rows.Close()

	images := map[string][]Image{}
	for rows.Next() {
		var lookbookID string
		var img Image
		if err := rows.Scan(&lookbookID, &img.URL, &img.Description, &img.Tags); err != nil {
			return nil, apperror.Upstream("failed to load images", err)
		}
		if img.Tags == nil {
			img.Tags = []string{}
		}
		images[lookbookID] = append(images[lookbookID], img)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to load images", err)
	}
	return images, nil
}

func loadLikes(ctx context.Context, ex db.Execer, ids []string) (map[string][]string, error) {
	rows, err := ex.Query(ctx, `
		SELECT lookbook_id, user_id
		FROM lookbook_likes WHERE lookbook_id = ANY($1)
		ORDER BY created_at, user_id
	`, ids)
	if err != nil {
		return nil, apperror.Upstream("failed to load likes", err)
	}
	defer rows.Close()

	likes := map[string][]string{}
	for rows.Next() {
		var lookbookID, userID string
		if err := rows.Scan(&lookbookID, &userID); err != nil {
			return nil, apperror.Upstream("failed to load likes", err)
		}
		likes[lookbookID] = append(likes[lookbookID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to load likes", err)
	}
	return likes, nil
}

func loadComments(ctx context.Context, ex db.Execer, ids []string) (map[string][]Comment, error) {
	rows, err := ex.Query(ctx, `
		SELECT c.id, c.lookbook_id, c.text, c.created_at, u.id, u.username, u.profile_picture
		FROM lookbook_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.lookbook_id = ANY($1)
		ORDER BY c.seq
	`, ids)
	if err != nil {
		return nil, apperror.Upstream("failed to load comments", err)
	}
	defer rows.Close()

	comments := map[string][]Comment{}
	for rows.Next() {
		var lookbookID string
		var c Comment
		if err := rows.Scan(&c.ID, &lookbookID, &c.Text, &c.CreatedAt, &c.User.ID, &c.User.Username, &c.User.ProfilePicture); err != nil {
			return nil, apperror.Upstream("failed to load comments", err)
		}
		comments[lookbookID] = append(comments[lookbookID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to load comments", err)
	}
	return comments, nil
}
