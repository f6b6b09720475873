package storage

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return &buf
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	store, err := NewPictureStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	tests := []string{"animation.gif", "vector.svg", "noext", "archive.zip"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := store.Save(encodePNG(t, 4, 4), name, BucketPost)
			if !errors.Is(err, ErrUnsupportedImageType) {
				t.Errorf("Save(%q) error = %v, want ErrUnsupportedImageType", name, err)
			}
		})
	}
}

func TestSaveGeneratesRandomName(t *testing.T) {
	root := t.TempDir()
	store, err := NewPictureStore(root)
	if err != nil {
		t.Fatal(err)
	}

	name, err := store.Save(encodePNG(t, 4, 4), "holiday.png", BucketPost)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 8 random bytes hex-encoded plus the original extension
	if !regexp.MustCompile(`^[0-9a-f]{16}\.png$`).MatchString(name) {
		t.Errorf("stored name %q does not look like a random hex filename", name)
	}

	if _, err := os.Stat(filepath.Join(root, string(BucketPost), name)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	// A second upload of the same file gets a different name
	other, err := store.Save(encodePNG(t, 4, 4), "holiday.png", BucketPost)
	if err != nil {
		t.Fatal(err)
	}
	if other == name {
		t.Error("two uploads produced the same stored filename")
	}
}

func TestSaveDownsamplesProfilePicture(t *testing.T) {
	root := t.TempDir()
	store, err := NewPictureStore(root)
	if err != nil {
		t.Fatal(err)
	}

	name, err := store.Save(encodePNG(t, 300, 150), "me.png", BucketProfile)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := os.Open(store.Path(BucketProfile, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode stored image: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > 125 || b.Dy() > 125 {
		t.Errorf("profile picture stored at %dx%d, want within 125x125", b.Dx(), b.Dy())
	}
	// Aspect ratio preserved: 300x150 scales to 125x62
	if b.Dx() != 125 {
		t.Errorf("width = %d, want 125", b.Dx())
	}
}

func TestSaveKeepsSmallPostPicture(t *testing.T) {
	root := t.TempDir()
	store, err := NewPictureStore(root)
	if err != nil {
		t.Fatal(err)
	}

	name, err := store.Save(encodePNG(t, 640, 480), "pic.png", BucketPost)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := os.Open(store.Path(BucketPost, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("small post picture resized to %dx%d, want 640x480", b.Dx(), b.Dy())
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		wantW      int
		wantH      int
	}{
		{name: "already within bound", w: 100, h: 50, maxW: 125, maxH: 125, wantW: 100, wantH: 50},
		{name: "wide image", w: 2560, h: 1440, maxW: 1280, maxH: 720, wantW: 1280, wantH: 720},
		{name: "tall image", w: 720, h: 2880, maxW: 1280, maxH: 720, wantW: 180, wantH: 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			dst := fitWithin(src, tt.maxW, tt.maxH)
			b := dst.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("fitWithin(%dx%d, %d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.maxW, tt.maxH, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}
