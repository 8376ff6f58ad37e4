// Package storage handles receipt images in Google Cloud Storage. Uploaded
// receipts live under receipts/<user_id>/ and are referenced everywhere else
// by their gs:// URI.
package storage

import (
	"context"
	"io"
	"strings"
)

// ObjectStore provides an interface for cloud storage operations.
// This interface enables mocking and testing of storage functionality.
type ObjectStore interface {
	// UploadReceipt stores the receipt image under the user's prefix and
	// returns its gs:// URI.
	UploadReceipt(ctx context.Context, userID, filename string, r io.Reader) (string, error)

	// Fetch downloads file bytes from the given gs:// URI.
	Fetch(ctx context.Context, gcsURI string) ([]byte, error)
}

// FilenameFromURI extracts the object's base filename from a gs:// URI.
func FilenameFromURI(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}

	if i := strings.LastIndex(parts[1], "/"); i >= 0 {
		return parts[1][i+1:]
	}
	return parts[1]
}

// splitURI breaks a gs://bucket/object URI into bucket and object path.
func splitURI(uri string) (bucket, object string, ok bool) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", false
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
