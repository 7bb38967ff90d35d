package imagestore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Uploader stores binary image data and returns a retrievable URL.
type Uploader interface {
	Upload(ctx context.Context, fileName string, r io.Reader) (string, error)
}

// ObjectName builds the upload name for an image, IMG-<timestamp>.<ext>,
// keeping the extension of the original file.
func ObjectName(originalName string) string {
	ext := strings.TrimPrefix(filepath.Ext(originalName), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("IMG-%d.%s", time.Now().UnixMilli(), ext)
}
