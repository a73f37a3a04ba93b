package embed

import (
	"path"
	"strings"
)

// MediaClass selects which preview tag set a page carries
type MediaClass string

const (
	ClassImage MediaClass = "image"
	ClassVideo MediaClass = "video"
	ClassOther MediaClass = "other"
)

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".ogg":  "video/ogg",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
}

// MimeType returns the content type for a file name, by extension
func MimeType(fileName string) string {
	if mt, ok := mimeTypes[strings.ToLower(path.Ext(fileName))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// Classify buckets a file name into image, video or other
func Classify(fileName string) MediaClass {
	mt := MimeType(fileName)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return ClassImage
	case strings.HasPrefix(mt, "video/"):
		return ClassVideo
	default:
		return ClassOther
	}
}
