package media

import (
	"strconv"

	"photogallery/internal/storage"
)

var (
	imageColumns = []string{
		storage.ColID, storage.ColDisplayName, storage.ColTitle, storage.ColWidth, storage.ColHeight,
		storage.ColSize, storage.ColOrientation, storage.ColMimeType, storage.ColDateAdded, storage.ColDateModified,
	}
	imageBriefColumns = []string{
		storage.ColID, storage.ColWidth, storage.ColHeight, storage.ColOrientation,
		storage.ColDateAdded, storage.ColDateModified,
	}
	videoColumns = []string{
		storage.ColID, storage.ColDisplayName, storage.ColTitle, storage.ColWidth, storage.ColHeight,
		storage.ColSize, storage.ColMimeType, storage.ColDuration, storage.ColDateAdded, storage.ColDateModified,
	}
	videoBriefColumns = []string{
		storage.ColID, storage.ColWidth, storage.ColHeight, storage.ColDuration,
		storage.ColDateAdded, storage.ColDateModified,
	}
)

func projectionFor(kind Kind, brief bool) []string {
	switch {
	case kind == KindVideo && brief:
		return videoBriefColumns
	case kind == KindVideo:
		return videoColumns
	case brief:
		return imageBriefColumns
	default:
		return imageColumns
	}
}

// Normalize maps a raw image or video row to a Record. The brief variant
// carries id, dimensions, orientation or duration, and the two dates.
func Normalize(kind Kind, row storage.Row, brief bool) Record {
	r := Record{
		ID:           stringValue(row[storage.ColID]),
		MediumType:   kind,
		Width:        intValue(row[storage.ColWidth]),
		Height:       intValue(row[storage.ColHeight]),
		CreationDate: millis(row[storage.ColDateAdded]),
		ModifiedDate: millis(row[storage.ColDateModified]),
	}

	switch kind {
	case KindVideo:
		d := intValue(row[storage.ColDuration])
		r.Duration = &d
	default:
		o := OrientationFromDegrees(intValue(row[storage.ColOrientation]))
		r.Orientation = &o
	}

	if brief {
		return r
	}

	r.Filename = optionalString(row[storage.ColDisplayName])
	r.Title = optionalString(row[storage.ColTitle])
	size := intValue(row[storage.ColSize])
	r.Size = &size
	r.MimeType = optionalString(row[storage.ColMimeType])
	return r
}

// OrientationFromDegrees maps a rotation in degrees to its EXIF orientation code.
func OrientationFromDegrees(degrees int64) int {
	switch degrees {
	case 0:
		return 1
	case 90:
		return 8
	case 180:
		return 3
	case 270:
		return 6
	default:
		return 0
	}
}

// millis converts a seconds cell to milliseconds. Anything that is not an
// integer cell yields nil.
func millis(v any) *int64 {
	var sec int64
	switch n := v.(type) {
	case int64:
		sec = n
	case int:
		sec = int64(n)
	case int32:
		sec = int64(n)
	default:
		return nil
	}
	ms := sec * 1000
	return &ms
}

func intValue(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
	}
	return 0
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return ""
}

func optionalString(v any) *string {
	if v == nil {
		return nil
	}
	s := stringValue(v)
	return &s
}
