package media

import (
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".m4v":  true,
	".mkv":  true,
}

// ImageMIMETypes maps image extensions to content types for serving
// originals and thumbnails.
var ImageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
}

func IsImageFile(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

func IsVideoFile(filename string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsMediaFile reports whether the filename is a supported image or video.
func IsMediaFile(filename string) bool {
	return IsImageFile(filename) || IsVideoFile(filename)
}
