package media

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

const exifOrientationTag = 0x0112

// exifSegment builds an APP1 segment carrying one orientation entry.
func exifSegment(order binary.ByteOrder, code uint16) []byte {
	var tiff bytes.Buffer
	if order == binary.LittleEndian {
		tiff.WriteString("II")
	} else {
		tiff.WriteString("MM")
	}
	binary.Write(&tiff, order, uint16(0x2A))
	binary.Write(&tiff, order, uint32(8))
	binary.Write(&tiff, order, uint16(1))
	binary.Write(&tiff, order, uint16(exifOrientationTag))
	binary.Write(&tiff, order, uint16(3)) // SHORT
	binary.Write(&tiff, order, uint32(1))
	binary.Write(&tiff, order, code)
	binary.Write(&tiff, order, uint16(0))
	binary.Write(&tiff, order, uint32(0))

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}

// withExif splices an orientation segment right after the SOI marker.
func withExif(jpeg []byte, order binary.ByteOrder, code uint16) []byte {
	out := append([]byte{}, jpeg[:2]...)
	out = append(out, exifSegment(order, code)...)
	return append(out, jpeg[2:]...)
}

func TestReadOrientation(t *testing.T) {
	sos := []byte{0xFF, 0xDA, 0x00, 0x02}
	app0 := []byte{0xFF, 0xE0, 0x00, 0x04, 0x00, 0x00}

	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"big endian", withExif(append([]byte{0xFF, 0xD8}, sos...), binary.BigEndian, 6), 6},
		{"little endian", withExif(append([]byte{0xFF, 0xD8}, sos...), binary.LittleEndian, 8), 8},
		{"after other segment", append(append([]byte{0xFF, 0xD8}, app0...), exifSegment(binary.BigEndian, 3)...), 3},
		{"mirrored", withExif(append([]byte{0xFF, 0xD8}, sos...), binary.BigEndian, 2), 2},
		{"no exif", append([]byte{0xFF, 0xD8}, sos...), 1},
		{"not a jpeg", []byte("\x89PNG\r\n\x1a\n"), 1},
		{"truncated", []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x01}, 1},
		{"empty", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readOrientation(bytes.NewReader(tt.data)))
		})
	}
}

func TestDegreesFromOrientation(t *testing.T) {
	for code, want := range map[int]int{1: 0, 8: 90, 3: 180, 6: 270, 2: 0, 5: 0, 0: 0} {
		assert.Equal(t, want, degreesFromOrientation(code), "code %d", code)
	}
}
