package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

const uploadTimeout = 2 * time.Minute

// GCSStore is the concrete ObjectStore backed by Google Cloud Storage.
// It assumes Application Default Credentials are configured
// (gcloud auth application-default login).
type GCSStore struct {
	bucket string
}

// NewGCSStore creates a GCSStore writing to the given bucket.
func NewGCSStore(bucket string) *GCSStore {
	return &GCSStore{bucket: bucket}
}

// UploadReceipt streams the reader into
// gs://<bucket>/receipts/<userID>/<timestamp>_<filename> and returns the URI.
func (s *GCSStore) UploadReceipt(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("UploadReceipt: creating storage client: %w", err)
	}
	defer client.Close()

	objectName := fmt.Sprintf("receipts/%s/%d_%s", userID, time.Now().UnixNano(), filename)

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("UploadReceipt: copying to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("UploadReceipt: finalizing upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// Fetch downloads the object bytes from the given gs:// URI.
func (s *GCSStore) Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	bucket, object, ok := splitURI(gcsURI)
	if !ok {
		return nil, fmt.Errorf("Fetch: invalid GCS URI: %s", gcsURI)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: creating storage client: %w", err)
	}
	defer client.Close()

	rd, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: opening GCS object reader: %w", err)
	}
	defer rd.Close()

	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading GCS object: %w", err)
	}

	return data, nil
}

var _ ObjectStore = (*GCSStore)(nil)
