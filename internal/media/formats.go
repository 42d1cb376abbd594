package media

import (
	"path/filepath"
	"strings"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".3gp":  "video/3gpp",
}

var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/wav",
}

// KindOf classifies a file by extension. ok is false for unsupported files.
func KindOf(filename string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageTypes[ext] != "":
		return KindImage, true
	case videoTypes[ext] != "":
		return KindVideo, true
	case audioTypes[ext] != "":
		return KindAudio, true
	}
	return KindAny, false
}

func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, types := range []map[string]string{imageTypes, videoTypes, audioTypes} {
		if t, ok := types[ext]; ok {
			return t
		}
	}
	return "application/octet-stream"
}
