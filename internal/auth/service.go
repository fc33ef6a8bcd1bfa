package auth

import (
	"context"
	"strings"
	"time"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = 30 * 24 * time.Hour
	minPasswordLength = 6
)

var errInvalidCredentials = apperror.Unauthorized("invalid email or password")

type Service struct {
	secret []byte
	ttl    time.Duration
	db     db.Querier
}

func NewService(secret string, ttl time.Duration, db db.Querier) *Service {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		db:     db,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return AuthResponse{}, apperror.Validation("username, email and password are required")
	}
	if err := validateEmail(email); err != nil {
		return AuthResponse{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	u := Profile{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		ProfilePicture: strings.TrimSpace(req.ProfilePicture),
		Followers:      []string{},
		Following:      []string{},
		SavedLookbooks: []string{},
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, profile_picture)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, u.ID, u.Username, u.Email, string(hash), u.ProfilePicture)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return AuthResponse{}, userWriteError(err)
	}

	return s.respond(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return AuthResponse{}, apperror.Validation("email and password are required")
	}

	u, err := s.findUser(ctx, `email = $1`, email)
	if apperror.Is(err, apperror.KindNotFound) {
		return AuthResponse{}, errInvalidCredentials
	}
	if err != nil {
		return AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return AuthResponse{}, errInvalidCredentials
	}

	if err := s.loadEdges(ctx, &u.Profile); err != nil {
		return AuthResponse{}, err
	}
	return s.respond(u.Profile)
}

func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return Profile{}, apperror.NotFound("user not found")
	}
	u, err := s.findUser(ctx, `id = $1`, userID)
	if err != nil {
		return Profile{}, err
	}
	if err := s.loadEdges(ctx, &u.Profile); err != nil {
		return Profile{}, err
	}
	return u.Profile, nil
}

// UpdateProfile applies the fields present in patch. Username and email stay
// unique; a clash is reported as a conflict.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AuthResponse{}, apperror.NotFound("user not found")
	}
	u, err := s.findUser(ctx, `id = $1`, userID)
	if err != nil {
		return AuthResponse{}, err
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return AuthResponse{}, apperror.Validation("username cannot be empty")
		}
		u.Username = username
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if err := validateEmail(email); err != nil {
			return AuthResponse{}, err
		}
		u.Email = email
	}
	if patch.ProfilePicture != nil {
		u.ProfilePicture = strings.TrimSpace(*patch.ProfilePicture)
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return AuthResponse{}, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return AuthResponse{}, err
		}
		u.PasswordHash = string(hash)
	}

	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET username=$2, email=$3, password_hash=$4, profile_picture=$5, updated_at=now()
		WHERE id=$1
		RETURNING updated_at
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.ProfilePicture)
	if err := row.Scan(&u.UpdatedAt); err != nil {
		if db.IsNoRows(err) {
			return AuthResponse{}, apperror.NotFound("user not found")
		}
		return AuthResponse{}, userWriteError(err)
	}

	if err := s.loadEdges(ctx, &u.Profile); err != nil {
		return AuthResponse{}, err
	}
	return s.respond(u.Profile)
}

func (s *Service) respond(p Profile) (AuthResponse, error) {
	token, err := s.signToken(p.ID, s.ttl)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{Profile: p, Token: token}, nil
}

func (s *Service) findUser(ctx context.Context, where string, arg any) (user, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, profile_picture, created_at, updated_at
		FROM users WHERE `+where, arg)

	var u user
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if db.IsNoRows(err) {
			return user{}, apperror.NotFound("user not found")
		}
		return user{}, apperror.Upstream("failed to load user", err)
	}
	return u, nil
}

func (s *Service) loadEdges(ctx context.Context, p *Profile) error {
	var err error
	if p.Following, err = s.idList(ctx, `SELECT following_id FROM user_follows WHERE follower_id = $1 ORDER BY created_at`, p.ID); err != nil {
		return err
	}
	if p.Followers, err = s.idList(ctx, `SELECT follower_id FROM user_follows WHERE following_id = $1 ORDER BY created_at`, p.ID); err != nil {
		return err
	}
	if p.SavedLookbooks, err = s.idList(ctx, `SELECT lookbook_id FROM saved_lookbooks WHERE user_id = $1 ORDER BY created_at`, p.ID); err != nil {
		return err
	}
	return nil
}

func (s *Service) idList(ctx context.Context, sql string, id string) ([]string, error) {
	rows, err := s.db.Query(ctx, sql, id)
	if err != nil {
		return nil, apperror.Upstream("failed to load profile", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperror.Upstream("failed to load profile", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *Service) signToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func userWriteError(err error) error {
	constraint, ok := db.UniqueViolation(err)
	if !ok {
		return apperror.Upstream("failed to save user", err)
	}
	switch constraint {
	case "users_username_key":
		return apperror.Conflict("username already taken")
	case "users_email_key":
		return apperror.Conflict("email already registered")
	default:
		return apperror.Conflict("username or email already taken")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return apperror.Validation("email cannot be empty")
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return apperror.Validation("email is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperror.Validation("password must be at least 6 characters")
	}
	return nil
}
