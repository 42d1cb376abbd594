package media

import "photogallery/internal/storage"

// groupAlbums counts rows per bucket in one pass. The synthetic All album
// comes first with the number of rows seen; the rest keep first-seen order
// and the name of the first row of each bucket.
func groupAlbums(buckets []storage.Bucket) []Album {
	index := make(map[string]int)
	albums := []Album{{ID: AllAlbumID, Name: strPtr(AllAlbumName)}}

	for _, b := range buckets {
		albums[0].Count++

		if i, ok := index[b.ID]; ok {
			albums[i].Count++
			continue
		}
		index[b.ID] = len(albums)
		albums = append(albums, Album{ID: b.ID, Name: b.Name, Count: 1})
	}

	return albums
}

// mergeAlbums unions image and video albums by id and sums their counts.
// Names come from the image side only, so a video-only bucket has a nil name.
func mergeAlbums(images, videos []Album) []Album {
	index := make(map[string]int)
	var merged []Album

	for _, a := range images {
		index[a.ID] = len(merged)
		merged = append(merged, Album{ID: a.ID, Name: a.Name, Count: a.Count})
	}

	for _, a := range videos {
		if i, ok := index[a.ID]; ok {
			merged[i].Count += a.Count
			continue
		}
		index[a.ID] = len(merged)
		merged = append(merged, Album{ID: a.ID, Name: nil, Count: a.Count})
	}

	return merged
}

func strPtr(s string) *string {
	return &s
}
