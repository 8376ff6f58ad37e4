package storage

import "testing"

func TestFilenameFromURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"nested path", "gs://receipts-bucket/receipts/user-1/1700000000_dinner.jpg", "1700000000_dinner.jpg"},
		{"flat object", "gs://receipts-bucket/receipt.png", "receipt.png"},
		{"bucket only", "gs://receipts-bucket", "receipts-bucket"},
		{"no scheme", "receipts/user-1/receipt.jpg", "receipt.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilenameFromURI(tt.uri); got != tt.want {
				t.Errorf("FilenameFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}

func TestSplitURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantObject string
		wantOK     bool
	}{
		{"valid", "gs://bucket/path/to/object.jpg", "bucket", "path/to/object.jpg", true},
		{"no scheme", "bucket/object.jpg", "", "", false},
		{"no object", "gs://bucket", "", "", false},
		{"trailing slash only", "gs://bucket/", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, ok := splitURI(tt.uri)
			if ok != tt.wantOK {
				t.Fatalf("splitURI(%q) ok = %v, want %v", tt.uri, ok, tt.wantOK)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("splitURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}
