package utils

import (
	"fmt"
	"image"
	"os"

	// decoders for the image formats the engines accept
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageDimensions decodes only the image header and returns its size and format
func ImageDimensions(path string) (width, height int, format string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, "", NewIOError(fmt.Sprintf("cannot open image: %s", path), err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, "", NewValidationError(fmt.Sprintf("not a decodable image: %s", path), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, format, NewValidationError(fmt.Sprintf("image has no pixels: %s", path), nil)
	}
	return cfg.Width, cfg.Height, format, nil
}
