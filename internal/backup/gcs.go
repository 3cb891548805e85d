package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSUploader copies library files to a Google Cloud Storage bucket.
type GCSUploader struct {
	client       *storage.Client
	bucket       string
	objectPrefix string
}

// NewGCSUploader creates the client. An empty credentialsFile falls back to
// application default credentials.
func NewGCSUploader(ctx context.Context, bucket, objectPrefix, credentialsFile string) (*GCSUploader, error) {
	var client *storage.Client
	var err error

	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		client, err = storage.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSUploader{client: client, bucket: bucket, objectPrefix: objectPrefix}, nil
}

// Upload copies a local file to the bucket under objectName.
func (u *GCSUploader) Upload(ctx context.Context, localPath, objectName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer f.Close()

	if u.objectPrefix != "" {
		objectName = u.objectPrefix + "/" + objectName
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute*5)
	defer cancel()

	wc := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	if _, err = io.Copy(wc, f); err != nil {
		return fmt.Errorf("failed to copy file to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}

	return nil
}

// Close closes the GCS client.
func (u *GCSUploader) Close() error {
	return u.client.Close()
}
