package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Bucket is a logical storage area for uploaded pictures
type Bucket string

// Picture buckets. Profile pictures and post pictures are stored apart.
const (
	BucketProfile Bucket = "profile_pics"
	BucketPost    Bucket = "post_pics"
)

// Bounding dimensions per bucket. Profile pictures are always thumbnailed;
// post pictures are only downsampled when a side exceeds the bound.
const (
	profileBound  = 125
	postBound     = 1280
	postBoundWide = 1280
	postBoundTall = 720
)

// ErrUnsupportedImageType is returned for uploads outside the extension
// allow-list
var ErrUnsupportedImageType = errors.New("unsupported image type")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// PictureStore saves uploaded pictures under a root directory, one
// subdirectory per bucket. Stored files get random, unguessable names; only
// the returned filename is retained by the caller.
type PictureStore struct {
	root string
}

// NewPictureStore creates the store and its bucket directories
func NewPictureStore(root string) (*PictureStore, error) {
	for _, bucket := range []Bucket{BucketProfile, BucketPost} {
		if err := os.MkdirAll(filepath.Join(root, string(bucket)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create bucket directory: %w", err)
		}
	}
	return &PictureStore{root: root}, nil
}

// Save validates, resizes and stores an uploaded picture, returning the
// stored filename. The original filename contributes only its extension,
// which must be on the allow-list.
func (s *PictureStore) Save(r io.Reader, originalName string, bucket Bucket) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedImageType
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	switch bucket {
	case BucketProfile:
		img = fitWithin(img, profileBound, profileBound)
	case BucketPost:
		bounds := img.Bounds()
		if bounds.Dx() > postBound || bounds.Dy() > postBound {
			img = fitWithin(img, postBoundWide, postBoundTall)
		}
	}

	name, err := randomFilename(ext)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.root, string(bucket), name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create picture file: %w", err)
	}
	defer f.Close()

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return name, nil
}

// Path returns the filesystem path of a stored picture
func (s *PictureStore) Path(bucket Bucket, name string) string {
	return filepath.Join(s.root, string(bucket), filepath.Base(name))
}

// fitWithin scales the image down to fit inside maxW x maxH, preserving
// aspect ratio. Images already within the bound are returned unchanged.
func fitWithin(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxW && h <= maxH {
		return img
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// randomFilename generates an unguessable name so stored files cannot
// collide or leak the uploader's path
func randomFilename(ext string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate filename: %w", err)
	}
	return hex.EncodeToString(buf) + ext, nil
}
