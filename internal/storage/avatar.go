// Package storage keeps uploaded profile avatars on local disk.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"network/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// DefaultMaxUploadSizeMB caps a single avatar upload.
	DefaultMaxUploadSizeMB = 5
	// MaxAvatarDimension is the longest edge kept on disk; larger uploads are downscaled.
	MaxAvatarDimension = 512
	// WebPQuality is used when a downscaled avatar is re-encoded.
	WebPQuality  = 70
	avatarSubdir = "avatars"
)

var allowedMIME = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// AvatarStore writes avatars below a media root and returns paths relative to it.
type AvatarStore struct {
	root     string
	maxBytes int64
}

// NewAvatarStore returns a store rooted at dir. maxUploadMB <= 0 uses DefaultMaxUploadSizeMB.
func NewAvatarStore(dir string, maxUploadMB int) *AvatarStore {
	if maxUploadMB <= 0 {
		maxUploadMB = DefaultMaxUploadSizeMB
	}
	return &AvatarStore{
		root:     dir,
		maxBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// Root is the directory served as /media.
func (s *AvatarStore) Root() string {
	return s.root
}

// Save validates content as a JPEG, PNG, GIF or WebP image and stores it under a fresh
// name. Images wider or taller than MaxAvatarDimension are downscaled and re-encoded as WebP.
func (s *AvatarStore) Save(ctx context.Context, filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}
	if _, ok := allowedMIME[http.DetectContentType(content)]; !ok {
		if !looksLikeWebP(content) {
			return "", models.NewValidationError("Invalid image type")
		}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	data, ext := content, extensionFor(format, filename)
	if cfg.Width > MaxAvatarDimension || cfg.Height > MaxAvatarDimension {
		data, err = downscale(content)
		ext = ".webp"
		if err != nil {
			return "", models.NewValidationError("Invalid image file")
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := filepath.ToSlash(filepath.Join(avatarSubdir, uuid.New().String()+ext))
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}
	return rel, nil
}

// Remove deletes a stored avatar. The shared default image and paths outside the
// avatar directory are left alone.
func (s *AvatarStore) Remove(rel string) error {
	if rel == "" || rel == models.DefaultAvatar {
		return nil
	}
	clean := filepath.ToSlash(filepath.Clean(rel))
	if !strings.HasPrefix(clean, avatarSubdir+"/") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func downscale(content []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = h * MaxAvatarDimension / w
		w = MaxAvatarDimension
	} else {
		w = w * MaxAvatarDimension / h
		h = MaxAvatarDimension
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)

	return encodeWebP(dst, WebPQuality)
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func extensionFor(format, filename string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png", "gif", "webp":
		return "." + format
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	return ".img"
}

// looksLikeWebP covers Go versions whose sniffer does not know WebP.
func looksLikeWebP(b []byte) bool {
	return len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WEBP"
}
