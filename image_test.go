package instacap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG writes a w x h PNG into dir and returns its path and contents.
func writePNG(t *testing.T, dir, name string, w, h int) (string, []byte) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.RGBA{R: uint8(x), A: 255})
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, buf.Bytes()
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"a.png", true},
		{"/photos/B.JPG", true},
		{"c.jpeg", true},
		{"d.bmp", true},
		{"e.gif", true},
		{"f.webp", false},
		{"notes.txt", false},
		{"png", false},
	}

	for _, tc := range tests {
		if actual := IsImageFile(tc.path); actual != tc.expected {
			t.Errorf("IsImageFile(%q): expected %t, got %t", tc.path, tc.expected, actual)
		}
	}
}

func TestInspectImage(t *testing.T) {
	dir := t.TempDir()

	t.Run("png", func(t *testing.T) {
		path, data := writePNG(t, dir, "a.png", 64, 48)
		info, err := InspectImage(path)
		if err != nil {
			t.Fatalf("Unexpected error %s", err)
		}
		if info.Format != "png" || info.Width != 64 || info.Height != 48 {
			t.Errorf("Unexpected info %+v", info)
		}
		if expected, actual := int64(len(data)), info.Size; expected != actual {
			t.Errorf("Expected size %d, got %d", expected, actual)
		}
	})

	t.Run("undecodable", func(t *testing.T) {
		path := filepath.Join(dir, "broken.jpg")
		if err := os.WriteFile(path, []byte("definitely not a jpeg"), 0o644); err != nil {
			t.Fatal(err)
		}
		info, err := InspectImage(path)
		if err != nil {
			t.Fatalf("Unexpected error %s", err)
		}
		if info.Format != "" {
			t.Errorf("Expected empty format, got %q", info.Format)
		}
		if expected, actual := "broken.jpg (unrecognized image, 21 B)", info.String(); expected != actual {
			t.Errorf("Expected %q, got %q", expected, actual)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := InspectImage(filepath.Join(dir, "missing.png")); err == nil {
			t.Errorf("Expected error for missing file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		sub := filepath.Join(dir, "dir.png")
		if err := os.Mkdir(sub, 0o755); err != nil {
			t.Fatal(err)
		}
		if _, err := InspectImage(sub); err == nil {
			t.Errorf("Expected error for directory")
		}
	})
}
