package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageSize caps a single uploaded image
const MaxImageSize int64 = 10 << 20

// sniffLen is how much of the upload is inspected to detect its type
const sniffLen = 3072

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
)

// allowedImages maps the accepted content types to the extension they are stored under
var allowedImages = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore persists uploaded images and returns the URL they are served from
type ImageStore interface {
	Save(ctx context.Context, folder, filename string, body io.Reader) (*UploadResult, error)
}

// UploadResult contains the result of an upload
type UploadResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// image is an upload that passed inspection. body replays the sniffed
// header and is capped one byte past MaxImageSize so oversize input is
// detectable by the writer.
type image struct {
	ext         string
	contentType string
	body        io.Reader
}

// inspectImage checks the client filename and the leading bytes of body.
// The stored extension always comes from the detected type.
func inspectImage(filename string, body io.Reader) (*image, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case "", ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ext)
	}

	limited := io.LimitReader(body, MaxImageSize+1)
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(limited, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	for m := mtype; m != nil; m = m.Parent() {
		if ext, ok := allowedImages[m.String()]; ok {
			return &image{
				ext:         ext,
				contentType: m.String(),
				body:        io.MultiReader(bytes.NewReader(head), limited),
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mtype.String())
}

// objectKey builds folder/{year}/{month}/{uuid}{ext}
func objectKey(folder, ext string, now time.Time) string {
	return path.Join(folder, fmt.Sprintf("%d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), uuid.NewString()+ext)
}

func publicURL(baseURL, key string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + key
}
