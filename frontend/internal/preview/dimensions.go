package preview

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// imageDimensions reads the size of raster images. Unknown or broken data yields ok=false.
func imageDimensions(mimeType string, data []byte) (width, height int, ok bool) {
	switch mimeType {
	case "image/png", "image/jpeg", "image/gif", "image/bmp":
	default:
		return 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
