package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bucket names a category subdirectory under the upload root.
type Bucket string

const (
	BucketAudio Bucket = "audios"
	BucketPDF   Bucket = "pdfs"
	BucketOther Bucket = "outros"
)

var audioExtensions = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".ogg": {}, ".m4a": {}, ".aac": {}, ".flac": {},
}

// UploadStore persists uploaded files on disk under a base directory,
// subdivided into category buckets. A legacy flat root (files stored
// directly under the base directory by older deployments) can optionally be
// probed when deleting.
type UploadStore struct {
	baseDir         string
	probeLegacyRoot bool
}

// NewUploadStore ensures the base directory and bucket subdirectories exist.
func NewUploadStore(baseDir string, probeLegacyRoot bool) (*UploadStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	for _, bucket := range []Bucket{BucketAudio, BucketPDF, BucketOther} {
		if err := os.MkdirAll(filepath.Join(baseDir, string(bucket)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload directory: %w", err)
		}
	}
	return &UploadStore{baseDir: baseDir, probeLegacyRoot: probeLegacyRoot}, nil
}

// Classify picks the destination bucket from the declared MIME type first,
// falling back to the filename extension.
func Classify(mimeType, filename string) Bucket {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mimeType, "audio/"):
		return BucketAudio
	case mimeType == "application/pdf":
		return BucketPDF
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := audioExtensions[ext]; ok {
		return BucketAudio
	}
	if ext == ".pdf" {
		return BucketPDF
	}
	return BucketOther
}

// AllowedCourseFile reports whether an upload is acceptable as course
// material. Either the MIME type or the extension must identify the file as
// audio or PDF.
func AllowedCourseFile(mimeType, filename string) bool {
	return Classify(mimeType, filename) != BucketOther
}

// GenerateName builds a collision-resistant stored filename: the field name
// and a timestamp plus random token replace the original base name, keeping
// only the original (lowercased) extension. The raw client filename is never
// used as a path component.
func GenerateName(field, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	token := strings.Split(uuid.NewString(), "-")[0]
	if field == "" {
		field = "file"
	}
	return fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixMilli(), token, ext)
}

// Save writes the reader's contents under the given bucket and filename and
// returns the stored filename.
func (s *UploadStore) Save(bucket Bucket, filename string, r io.Reader) (string, error) {
	path := filepath.Join(s.baseDir, string(bucket), filename)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return filename, nil
}

// RemoveBest deletes a previously stored file by probing every bucket (and
// the legacy flat root when enabled) for a same-named file, removing the
// first match. Not finding the file is not an error: replace flows must
// succeed even when the old file is already gone.
func (s *UploadStore) RemoveBest(filename string) bool {
	if filename == "" || filename != filepath.Base(filename) {
		return false
	}
	candidates := []string{
		filepath.Join(s.baseDir, string(BucketAudio), filename),
		filepath.Join(s.baseDir, string(BucketPDF), filename),
		filepath.Join(s.baseDir, string(BucketOther), filename),
	}
	if s.probeLegacyRoot {
		candidates = append(candidates, filepath.Join(s.baseDir, filename))
	}
	for _, path := range candidates {
		if err := os.Remove(path); err == nil {
			return true
		}
	}
	return false
}

// Exists reports whether a stored file is present in any known location.
func (s *UploadStore) Exists(filename string) bool {
	if filename == "" || filename != filepath.Base(filename) {
		return false
	}
	candidates := []Bucket{BucketAudio, BucketPDF, BucketOther}
	for _, bucket := range candidates {
		if _, err := os.Stat(filepath.Join(s.baseDir, string(bucket), filename)); err == nil {
			return true
		}
	}
	if s.probeLegacyRoot {
		if _, err := os.Stat(filepath.Join(s.baseDir, filename)); err == nil {
			return true
		}
	}
	return false
}

// Dir exposes the base directory, used to mount the public static route.
func (s *UploadStore) Dir() string {
	return s.baseDir
}
