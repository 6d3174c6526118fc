// Package avatar assigns participant avatars: either a validated
// uploaded image or a random pick from the stock pool.
package avatar

import (
	"fmt"
	"image"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	// Registered so image.DecodeConfig can sniff all accepted formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	apperrors "luminora-backend/internal/common/errors"
)

// Stock DiceBear avatars handed out when a participant uploads nothing.
var stockPool = []string{
	"https://api.dicebear.com/7.x/anime/svg?seed=anime1",
	"https://api.dicebear.com/7.x/anime/svg?seed=anime2",
	"https://api.dicebear.com/7.x/anime/svg?seed=anime3",
	"https://api.dicebear.com/7.x/anime/svg?seed=anime4",
	"https://api.dicebear.com/7.x/anime/svg?seed=anime5",
	"https://api.dicebear.com/7.x/anime/svg?seed=anime6",
	"https://api.dicebear.com/7.x/anime/svg?seed=anime7",
	"https://api.dicebear.com/7.x/anime/svg?seed=anime8",
	"https://api.dicebear.com/7.x/anime/svg?seed=anime9",
	"https://api.dicebear.com/7.x/anime/svg?seed=anime10",
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// RandomStock returns a random stock avatar URL.
func RandomStock() string {
	return stockPool[rand.Intn(len(stockPool))]
}

// Saver validates and stores uploaded avatar images.
type Saver struct {
	dir      string
	maxBytes int64
	baseURL  string
}

// NewSaver creates a Saver writing into dir; stored files are served
// under baseURL/uploads/.
func NewSaver(dir string, maxBytes int64, baseURL string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Saver{dir: dir, maxBytes: maxBytes, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save checks size, extension, MIME type and the actual image header,
// then stores the file under a fresh uuid name. It returns the public
// URL of the stored avatar.
func (s *Saver) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", apperrors.NewPayloadTooLargeError(s.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", apperrors.NewValidationError("avatar", "invalid file type")
	}

	if contentType := fh.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "image/") {
		return "", apperrors.NewValidationError("avatar", "only image files are allowed")
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to read upload")
	}
	defer src.Close()

	// Don't trust the declared type: the bytes must decode as an image.
	if _, _, err := image.DecodeConfig(src); err != nil {
		return "", apperrors.NewValidationError("avatar", "file is not a valid image")
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to rewind upload")
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to store upload")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to store upload")
	}

	return s.baseURL + "/uploads/" + name, nil
}
