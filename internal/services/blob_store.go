package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wayspot/backend/internal/config"
)

// imageExts is the set of extensions the store recognizes as images. Both the
// blob writer and the orphan reconciler consult it; the reconciler never
// touches files outside this set.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// IsImageExt reports whether name carries a recognized image extension
func IsImageExt(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// BlobStore persists raw image bytes under generated names inside the upload
// directory and maps between filenames, public URLs and paths on disk.
type BlobStore struct {
	cfg *config.Config
}

func NewBlobStore(cfg *config.Config) *BlobStore {
	// ensure the upload dir exists
	_ = os.MkdirAll(cfg.UploadDir, 0o755)
	return &BlobStore{cfg: cfg}
}

// buildFilename generates "<unixMillis>-<token><ext>". The extension comes
// from the suggested name and falls back to .jpg when absent or unrecognized.
func (s *BlobStore) buildFilename(suggestedName string) string {
	ext := strings.ToLower(filepath.Ext(suggestedName))
	if !imageExts[ext] {
		ext = ".jpg"
	}
	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), token, ext)
}

// Write persists data under a generated name and returns the public URL of
// the new file. The write goes through a temp file, fsync and rename, so a
// returned URL always refers to bytes already flushed to disk.
func (s *BlobStore) Write(data []byte, suggestedName string) (string, error) {
	filename := s.buildFilename(suggestedName)
	absPath := filepath.Join(s.cfg.UploadDir, filename)

	tmp := absPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	return s.PublicURL(filename), nil
}

// PublicURL maps a filename inside the upload dir to the URL it is served
// under, e.g. "123456789-ab12cd34.jpg" -> "/uploads/123456789-ab12cd34.jpg"
func (s *BlobStore) PublicURL(filename string) string {
	return "/" + filepath.ToSlash(s.cfg.UploadDir) + "/" + filename
}

// LocalPath maps a public URL back to a path on disk. It returns "" when the
// URL does not point under the upload dir (external or seed-data URLs).
func (s *BlobStore) LocalPath(url string) string {
	prefix := "/" + filepath.ToSlash(s.cfg.UploadDir) + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return ""
	}
	return filepath.Join(s.cfg.UploadDir, name)
}
