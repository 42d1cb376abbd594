package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photogallery/internal/storage"
)

func TestOrientationFromDegrees(t *testing.T) {
	tests := []struct {
		degrees int64
		want    int
	}{
		{0, 1},
		{90, 8},
		{180, 3},
		{270, 6},
		{45, 0},
		{-90, 0},
		{360, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OrientationFromDegrees(tt.degrees), "degrees %d", tt.degrees)
	}
}

func TestDegreesFromOrientation_RoundTrip(t *testing.T) {
	for _, degrees := range []int64{0, 90, 180, 270} {
		code := OrientationFromDegrees(degrees)
		assert.Equal(t, int(degrees), degreesFromOrientation(code))
	}
}

func TestNormalize_FullImage(t *testing.T) {
	row := storage.Row{
		storage.ColID:           "img1",
		storage.ColDisplayName:  "beach.jpg",
		storage.ColTitle:        "beach",
		storage.ColWidth:        int64(4000),
		storage.ColHeight:       int64(3000),
		storage.ColSize:         int64(2048),
		storage.ColOrientation:  int64(90),
		storage.ColMimeType:     "image/jpeg",
		storage.ColDateAdded:    int64(1700000000),
		storage.ColDateModified: int64(1700000100),
	}

	r := Normalize(KindImage, row, false)

	assert.Equal(t, "img1", r.ID)
	assert.Equal(t, KindImage, r.MediumType)
	assert.Equal(t, int64(4000), r.Width)
	assert.Equal(t, int64(3000), r.Height)
	require.NotNil(t, r.Filename)
	assert.Equal(t, "beach.jpg", *r.Filename)
	require.NotNil(t, r.Size)
	assert.Equal(t, int64(2048), *r.Size)
	require.NotNil(t, r.Orientation)
	assert.Equal(t, 8, *r.Orientation)
	assert.Nil(t, r.Duration)
	require.NotNil(t, r.CreationDate)
	assert.Equal(t, int64(1700000000000), *r.CreationDate)
	require.NotNil(t, r.ModifiedDate)
	assert.Equal(t, int64(1700000100000), *r.ModifiedDate)
}

func TestNormalize_BriefVideo(t *testing.T) {
	row := storage.Row{
		storage.ColID:           "vid1",
		storage.ColWidth:        int64(1920),
		storage.ColHeight:       int64(1080),
		storage.ColDuration:     int64(63000),
		storage.ColDateAdded:    int64(10),
		storage.ColDateModified: int64(11),
	}

	r := Normalize(KindVideo, row, true)

	assert.Equal(t, KindVideo, r.MediumType)
	require.NotNil(t, r.Duration)
	assert.Equal(t, int64(63000), *r.Duration)
	assert.Nil(t, r.Orientation)
	assert.Nil(t, r.Filename)
	assert.Nil(t, r.Title)
	assert.Nil(t, r.Size)
	assert.Nil(t, r.MimeType)
	assert.Equal(t, int64(10000), *r.CreationDate)
}

func TestNormalize_NonIntegerDatesAreNull(t *testing.T) {
	row := storage.Row{
		storage.ColID:           "img2",
		storage.ColDateAdded:    "yesterday",
		storage.ColDateModified: nil,
	}

	r := Normalize(KindImage, row, true)

	assert.Nil(t, r.CreationDate)
	assert.Nil(t, r.ModifiedDate)
	assert.Equal(t, int64(0), r.Width)
	assert.Equal(t, 1, *r.Orientation)
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindImage, ParseKind("image"))
	assert.Equal(t, KindVideo, ParseKind("video"))
	assert.Equal(t, KindAudio, ParseKind("audio"))
	assert.Equal(t, KindAny, ParseKind(""))
	assert.Equal(t, KindAny, ParseKind("document"))
}

func TestThumbnailOptions_Size(t *testing.T) {
	w, h := ThumbnailOptions{}.Size()
	assert.Equal(t, []int{96, 96}, []int{w, h})

	w, h = ThumbnailOptions{HighQuality: true}.Size()
	assert.Equal(t, []int{512, 384}, []int{w, h})

	width := 200
	w, h = ThumbnailOptions{Width: &width, HighQuality: true}.Size()
	assert.Equal(t, []int{200, 384}, []int{w, h})
}
