package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ortholink/ortholink-api/pkg/helpers"
)

// allowed upload folders; anything else collapses to "misc".
var mediaFolders = map[string]bool{
	"blogs": true, "courses": true, "ebooks": true,
	"case-studies": true, "practices": true, "avatars": true,
}

// MediaService proxies file uploads to the media bucket and hands back the
// public URL.
type MediaService struct {
	GCS    *storage.Client
	Bucket string
	Logger *logrus.Logger
}

func (s *MediaService) Upload(ctx context.Context, actor Actor, folder, filename, contentType string, r io.Reader) (string, error) {
	if s.GCS == nil || s.Bucket == "" {
		return "", errors.New("media storage not configured")
	}
	if !mediaFolders[folder] {
		folder = "misc"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join(folder, actor.ID, uuid.NewString()+ext))
	return helpers.UploadObject(ctx, s.GCS, s.Bucket, objectPath, contentType, r)
}
