package instacap

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"
)

// Extensions accepted by the file picker.
var imageExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}

// IsImageFile reports whether path has one of the supported image extensions.
func IsImageFile(path string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(path)))
}

// ImageInfo summarizes a selected image. Format is empty when the header could
// not be decoded, in which case Width and Height are zero.
type ImageInfo struct {
	Path   string
	Size   int64
	Format string
	Width  int
	Height int
}

func (ii ImageInfo) String() string {
	name := filepath.Base(ii.Path)
	size := humanize.Bytes(uint64(ii.Size))
	if ii.Format == "" {
		return fmt.Sprintf("%s (unrecognized image, %s)", name, size)
	}
	return fmt.Sprintf("%s (%s, %dx%d, %s)", name, ii.Format, ii.Width, ii.Height, size)
}

// InspectImage reads just enough of path to return its format and dimensions.
func InspectImage(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return ImageInfo{}, err
	}
	if fi.IsDir() {
		return ImageInfo{}, fmt.Errorf("%s is a directory", path)
	}

	info := ImageInfo{Path: path, Size: fi.Size()}
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		// Unrecognized, not an error. The raw bytes are still sent as is.
		return info, nil
	}
	info.Format = format
	info.Width = cfg.Width
	info.Height = cfg.Height

	return info, nil
}
