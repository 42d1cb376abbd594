package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photogallery/internal/storage"
)

func bucket(id, name string) storage.Bucket {
	return storage.Bucket{ID: id, Name: &name}
}

func TestGroupAlbums(t *testing.T) {
	albums := groupAlbums([]storage.Bucket{
		bucket("b2", "Camera"),
		bucket("b1", "Screenshots"),
		bucket("b2", "Camera renamed"),
		bucket("b2", "Camera"),
	})

	require.Len(t, albums, 3)
	assert.Equal(t, AllAlbumID, albums[0].ID)
	assert.Equal(t, AllAlbumName, *albums[0].Name)
	assert.Equal(t, 4, albums[0].Count)

	assert.Equal(t, "b2", albums[1].ID)
	assert.Equal(t, "Camera", *albums[1].Name)
	assert.Equal(t, 3, albums[1].Count)
	assert.Equal(t, "b1", albums[2].ID)
	assert.Equal(t, 1, albums[2].Count)

	var sum int
	for _, a := range albums[1:] {
		sum += a.Count
	}
	assert.Equal(t, albums[0].Count, sum)
}

func TestGroupAlbums_Empty(t *testing.T) {
	albums := groupAlbums(nil)

	require.Len(t, albums, 1)
	assert.Equal(t, AllAlbumID, albums[0].ID)
	assert.Equal(t, 0, albums[0].Count)
}

func TestMergeAlbums(t *testing.T) {
	images := groupAlbums([]storage.Bucket{bucket("cam", "Camera"), bucket("cam", "Camera")})
	videos := groupAlbums([]storage.Bucket{bucket("cam", "Camera"), bucket("clips", "Clips")})

	merged := mergeAlbums(images, videos)

	require.Len(t, merged, 3)
	assert.Equal(t, AllAlbumID, merged[0].ID)
	assert.Equal(t, 4, merged[0].Count)
	assert.Equal(t, "cam", merged[1].ID)
	assert.Equal(t, 3, merged[1].Count)
	assert.Equal(t, "Camera", *merged[1].Name)

	// video-only buckets carry no name
	assert.Equal(t, "clips", merged[2].ID)
	assert.Equal(t, 1, merged[2].Count)
	assert.Nil(t, merged[2].Name)
}
