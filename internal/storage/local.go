package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// LocalStore writes images below a root directory of an afero filesystem.
// The router serves that directory under baseURL.
type LocalStore struct {
	fs      afero.Fs
	root    string
	baseURL string
}

func NewLocalStore(fs afero.Fs, root, baseURL string) *LocalStore {
	return &LocalStore{fs: fs, root: root, baseURL: baseURL}
}

func (s *LocalStore) Save(ctx context.Context, folder, filename string, body io.Reader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := inspectImage(filename, body)
	if err != nil {
		return nil, err
	}
	key := objectKey(folder, img.ext, time.Now())
	target := filepath.Join(s.root, filepath.FromSlash(key))

	if err := s.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	f, err := s.fs.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, img.body)
	if err != nil {
		_ = s.fs.Remove(target)
		return nil, fmt.Errorf("write media file: %w", err)
	}
	if size > MaxImageSize {
		_ = s.fs.Remove(target)
		return nil, ErrImageTooLarge
	}

	return &UploadResult{
		Key:  key,
		URL:  publicURL(s.baseURL, path.Clean(key)),
		Size: size,
	}, nil
}
