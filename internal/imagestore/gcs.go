package imagestore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS uploads images into a Google Cloud Storage bucket with public-read
// URLs. credsPath may be empty, in which case application default
// credentials are used.
type GCS struct {
	Client *storage.Client
	Bucket string
}

func NewGCS(ctx context.Context, bucket, credsPath string) (*GCS, error) {
	var client *storage.Client
	var err error
	if credsPath == "" {
		client, err = storage.NewClient(ctx)
	} else {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
	}
	if err != nil {
		return nil, err
	}
	return &GCS{Client: client, Bucket: bucket}, nil
}

func (g *GCS) Upload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	wc := g.Client.Bucket(g.Bucket).Object(fileName).NewWriter(ctx)
	wc.ContentType = mime.TypeByExtension(filepath.Ext(fileName))
	wc.ChunkSize = 0
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(g.Bucket, fileName), nil
}

func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
