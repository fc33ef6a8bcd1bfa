package storage

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/db"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	keyPrefix       = "fashion-lookbook/"
	defaultMaxFiles = 10
)

var allowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

type Object struct {
	ID          string
	UserID      string
	Key         string
	URL         string
	ContentType string
	Size        int64
}

type Service struct {
	db       db.Querier
	backend  ObjectStorage
	baseURL  string
	maxFiles int
}

// NewService builds the upload service. A nil backend keeps the service
// usable but every upload fails as an upstream error.
func NewService(db db.Querier, backend ObjectStorage, baseURL string, maxFiles int) *Service {
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}
	return &Service{
		db:       db,
		backend:  backend,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxFiles: maxFiles,
	}
}

// Upload stores every file and returns their public URLs in input order.
// All files are validated before anything is written. Objects are stored
// first and then recorded in one transaction; on any failure the stored
// objects are removed and no rows remain.
func (s *Service) Upload(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, apperror.Validation("no images uploaded")
	}
	if len(files) > s.maxFiles {
		return nil, apperror.Validation(fmt.Sprintf("at most %d images can be uploaded at once", s.maxFiles))
	}
	exts := make([]string, len(files))
	for i, fh := range files {
		ext := extension(fh.Filename)
		if _, ok := allowedExtensions[ext]; !ok {
			return nil, apperror.Validation("only jpg, jpeg, png and gif images are allowed")
		}
		exts[i] = ext
	}
	if s.backend == nil {
		return nil, apperror.Upstream("image storage is not configured", nil)
	}

	objects := make([]Object, 0, len(files))
	for i, fh := range files {
		obj, err := s.put(ctx, userID, fh, exts[i])
		if err != nil {
			s.cleanup(ctx, objects)
			return nil, err
		}
		objects = append(objects, obj)
	}

	err := db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		for _, obj := range objects {
			if err := saveObject(ctx, tx, obj); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.cleanup(ctx, objects)
		return nil, err
	}

	urls := make([]string, len(objects))
	for i, obj := range objects {
		urls[i] = obj.URL
	}
	return urls, nil
}

func (s *Service) put(ctx context.Context, userID string, fh *multipart.FileHeader, ext string) (Object, error) {
	f, err := fh.Open()
	if err != nil {
		return Object{}, apperror.Validation("could not read uploaded file")
	}
	defer f.Close()

	obj := Object{
		ID:          uuid.NewString(),
		UserID:      userID,
		ContentType: contentType(fh, ext),
		Size:        fh.Size,
	}
	obj.Key = keyPrefix + obj.ID + "." + ext
	obj.URL = s.baseURL + "/" + obj.Key

	if err := s.backend.Put(ctx, obj.Key, f, obj.Size, obj.ContentType); err != nil {
		return Object{}, apperror.Upstream("failed to store image", err)
	}
	return obj, nil
}

func (s *Service) cleanup(ctx context.Context, objects []Object) {
	for _, obj := range objects {
		if err := s.backend.Delete(ctx, obj.Key); err != nil {
			logger.Warn("failed to remove orphaned upload", "key", obj.Key, "error", err)
		}
	}
}

// saveObject records an uploaded object.
func saveObject(ctx context.Context, ex db.Execer, obj Object) error {
	_, err := ex.Exec(ctx, `
		INSERT INTO storage_objects (id, user_id, object_key, url, content_type, size_bytes)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, obj.ID, obj.UserID, obj.Key, obj.URL, obj.ContentType, obj.Size)
	if err != nil {
		return apperror.Upstream("failed to record upload", err)
	}
	return nil
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func contentType(fh *multipart.FileHeader, ext string) string {
	if ct := fh.Header.Get("Content-Type"); strings.HasPrefix(ct, "image/") {
		return ct
	}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return allowedExtensions[ext]
}
