package social

import (
	"context"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/db"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/lookbook"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	errUserNotFound     = apperror.NotFound("user not found")
	errLookbookNotFound = apperror.NotFound("lookbook not found")
)

type Service struct {
	db        db.Querier
	lookbooks *lookbook.Service
}

func NewService(db db.Querier, lookbooks *lookbook.Service) *Service {
	return &Service{db: db, lookbooks: lookbooks}
}

// ToggleFollow follows targetID, or unfollows when the edge already exists.
// One user_follows row is both sides of the relationship.
func (s *Service) ToggleFollow(ctx context.Context, callerID, targetID string) (FollowResult, error) {
	target, err := uuid.Parse(targetID)
	if err != nil {
		return FollowResult{}, errUserNotFound
	}
	// Compare canonical forms; Postgres resolves uppercase or braced ids to the same row.
	targetID = target.String()
	if caller, err := uuid.Parse(callerID); err == nil {
		callerID = caller.String()
	}
	if callerID == targetID {
		return FollowResult{}, apperror.Validation("you cannot follow yourself")
	}

	var result FollowResult
	err = db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		// Both rows are locked in id order so opposite follows cannot deadlock.
		rows, err := tx.Query(ctx, `SELECT id FROM users WHERE id = ANY($1) ORDER BY id FOR UPDATE`, []string{callerID, targetID})
		if err != nil {
			return apperror.Upstream("failed to follow user", err)
		}
		locked, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return apperror.Upstream("failed to follow user", err)
		}
		if len(locked) != 2 {
			return errUserNotFound
		}

		tag, err := tx.Exec(ctx, `DELETE FROM user_follows WHERE follower_id = $1 AND following_id = $2`, callerID, targetID)
		if err != nil {
			return apperror.Upstream("failed to follow user", err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, `INSERT INTO user_follows (follower_id, following_id) VALUES ($1,$2)`, callerID, targetID); err != nil {
			return apperror.Upstream("failed to follow user", err)
		}
		result.Following = true
		return nil
	})
	if err != nil {
		return FollowResult{}, err
	}
	return result, nil
}

func (s *Service) ToggleSave(ctx context.Context, callerID, lookbookID string) (SaveResult, error) {
	if _, err := uuid.Parse(lookbookID); err != nil {
		return SaveResult{}, errLookbookNotFound
	}

	var result SaveResult
	err := db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, callerID).Scan(&id); err != nil {
			if db.IsNoRows(err) {
				return errUserNotFound
			}
			return apperror.Upstream("failed to save lookbook", err)
		}
		if err := tx.QueryRow(ctx, `SELECT id FROM lookbooks WHERE id = $1 FOR SHARE`, lookbookID).Scan(&id); err != nil {
			if db.IsNoRows(err) {
				return errLookbookNotFound
			}
			return apperror.Upstream("failed to save lookbook", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM saved_lookbooks WHERE user_id = $1 AND lookbook_id = $2`, callerID, lookbookID)
		if err != nil {
			return apperror.Upstream("failed to save lookbook", err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, `INSERT INTO saved_lookbooks (user_id, lookbook_id) VALUES ($1,$2)`, callerID, lookbookID); err != nil {
			return apperror.Upstream("failed to save lookbook", err)
		}
		result.Saved = true
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}
	return result, nil
}

func (s *Service) SavedLookbooks(ctx context.Context, callerID string) ([]lookbook.Lookbook, error) {
	return s.lookbooks.Find(ctx, lookbook.Query{SavedBy: callerID, Order: lookbook.OrderSaved})
}

func (s *Service) UserProfile(ctx context.Context, userID string) (UserProfile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return UserProfile{}, errUserNotFound
	}

	var u PublicUser
	err := s.db.QueryRow(ctx, `
		SELECT id, username, profile_picture, created_at
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.Username, &u.ProfilePicture, &u.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return UserProfile{}, errUserNotFound
		}
		return UserProfile{}, apperror.Upstream("failed to load user", err)
	}

	if u.Followers, err = s.summaries(ctx, `
		SELECT u.id, u.username, u.profile_picture
		FROM user_follows f JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at
	`, userID); err != nil {
		return UserProfile{}, err
	}
	if u.Following, err = s.summaries(ctx, `
		SELECT u.id, u.username, u.profile_picture
		FROM user_follows f JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at
	`, userID); err != nil {
		return UserProfile{}, err
	}

	lookbooks, err := s.lookbooks.Find(ctx, lookbook.Query{CreatorID: userID})
	if err != nil {
		return UserProfile{}, err
	}
	return UserProfile{User: u, Lookbooks: lookbooks}, nil
}

func (s *Service) summaries(ctx context.Context, sql, userID string) ([]lookbook.UserSummary, error) {
	rows, err := s.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, apperror.Upstream("failed to load connections", err)
	}
	defer rows.Close()

	users := []lookbook.UserSummary{}
	for rows.Next() {
		var u lookbook.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.ProfilePicture); err != nil {
			return nil, apperror.Upstream("failed to load connections", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to load connections", err)
	}
	return users, nil
}
