package media

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// readOrientation returns the EXIF orientation code of an image stream, or 1
// when there is none.
func readOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	code, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return code
}

// degreesFromOrientation is the inverse of OrientationFromDegrees for the
// pure rotations. Mirrored codes read as unrotated.
func degreesFromOrientation(code int) int {
	switch code {
	case 8:
		return 90
	case 3:
		return 180
	case 6:
		return 270
	}
	return 0
}
