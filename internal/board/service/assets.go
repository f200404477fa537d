package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// ============================================================
// Asset Storage
// ============================================================

// AssetStorage turns uploaded image files into references an item can
// display, and resolves references back into decoded images for export.
type AssetStorage struct {
	root   string
	prefix string
}

// NewAssetStorage stores files under root and serves them below prefix
// (for example "/assets").
func NewAssetStorage(root, prefix string) *AssetStorage {
	return &AssetStorage{root: root, prefix: strings.TrimSuffix(prefix, "/")}
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Allowed reports whether filename has an accepted image extension.
func Allowed(filename string) bool {
	return imageExts[strings.ToLower(filepath.Ext(filename))]
}

func (s *AssetStorage) Root() string { return s.root }

func (s *AssetStorage) OwnerDir(ownerID string) string {
	return filepath.Join(s.root, ownerID)
}

func (s *AssetStorage) EnsureDir(ownerID string) error {
	if err := os.MkdirAll(s.OwnerDir(ownerID), 0o755); err != nil {
		return fmt.Errorf("mkdir asset dir: %w", err)
	}
	return nil
}

// SaveImage writes data under a fresh name and returns its reference.
func (s *AssetStorage) SaveImage(ownerID, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	if err := s.EnsureDir(ownerID); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.OwnerDir(ownerID), name), data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	return s.prefix + "/" + ownerID + "/" + name, nil
}

// Path maps an asset reference to its file. References outside the asset
// root are rejected.
func (s *AssetStorage) Path(ref string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, s.prefix+"/")
	if !ok {
		return "", false
	}
	owner, name, ok := strings.Cut(rest, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") ||
		owner == ".." || name == ".." || owner == "." || name == "." {
		return "", false
	}
	return filepath.Join(s.root, owner, name), true
}

// Open decodes the image behind ref. Both stored assets and data URLs are
// accepted.
func (s *AssetStorage) Open(ref string) (image.Image, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}

	path, ok := s.Path(ref)
	if !ok {
		return nil, fmt.Errorf("unknown image reference %q", ref)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func decodeDataURL(ref string) (image.Image, error) {
	meta, payload, ok := strings.Cut(ref, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data url")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("data url payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return img, nil
}
