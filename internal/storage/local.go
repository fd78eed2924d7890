package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("định dạng ảnh không được hỗ trợ")
	ErrTooLarge        = errors.New("ảnh vượt quá dung lượng cho phép")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Local keeps uploaded images under <root>/images and serves them from
// /images/<name>. The client filename only contributes its extension.
type Local struct {
	dir      string
	urlPath  string
	maxBytes int64
}

func NewLocal(staticDir string, maxBytes int64) (*Local, error) {
	dir := filepath.Join(staticDir, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &Local{dir: dir, urlPath: "/images/", maxBytes: maxBytes}, nil
}

func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) SaveImage(ctx context.Context, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	path := filepath.Join(l.dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}

	reader := src
	if l.maxBytes > 0 {
		reader = io.LimitReader(src, l.maxBytes+1)
	}
	written, err := io.Copy(dst, reader)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && l.maxBytes > 0 && written > l.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return l.urlPath + name, nil
}

// RemoveImage deletes a file previously returned by SaveImage. Unknown or
// foreign paths are ignored.
func (l *Local) RemoveImage(url string) error {
	if !strings.HasPrefix(url, l.urlPath) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, l.urlPath))
	if name == "." || name == string(filepath.Separator) {
		return nil
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
