// Package gcsimages stores receipt images in a GCS bucket and hands back
// publicly resolvable URLs. Upload and record write are deliberately
// separate operations: the image is uploaded first so a transaction never
// points at a URL that does not exist. An image orphaned by a failed
// follow-up write is not cleaned up.
package gcsimages

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Store implements store.ObjectStore on a single bucket.
type Store struct {
	client *storage.Client
	bucket string
}

func New(ctx context.Context, bucket string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsimages: create storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// UploadImage writes the blob under <user_id>/<uuid>.<ext> and returns the
// public URL. The object name never derives from the original filename
// beyond its extension.
func (s *Store) UploadImage(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	objectName := userID + "/" + uuid.NewString() + path.Ext(filename)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcsimages: copy to writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcsimages: finalize upload: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName), nil
}
