package media

import (
	"path/filepath"
	"strings"

	"photogallery/internal/storage"
)

var audioColumns = []string{
	storage.ColID, storage.ColDisplayName, storage.ColTitle, storage.ColSize, storage.ColMimeType,
	storage.ColDateAdded, storage.ColDateModified, storage.ColAlbum, storage.ColArtist,
	storage.ColDuration, storage.ColData,
}

type AudioItem struct {
	ID           string  `json:"id"`
	DisplayName  *string `json:"displayName"`
	Title        *string `json:"title"`
	Size         int64   `json:"size"`
	MimeType     *string `json:"mimeType"`
	DateAdded    *int64  `json:"dateAdded"`    // epoch milliseconds
	DateModified *int64  `json:"dateModified"` // epoch milliseconds
	Album        *string `json:"album"`
	Artist       *string `json:"artist"`
	Duration     int64   `json:"duration"` // milliseconds
	Data         string  `json:"data"`
}

type MusicFolder struct {
	FolderPath string      `json:"folderPath"`
	AudioItems []AudioItem `json:"audioItems"`
}

type MusicListing struct {
	Start int           `json:"start"`
	Items []MusicFolder `json:"items"`
}

func audioItem(row storage.Row) AudioItem {
	return AudioItem{
		ID:           stringValue(row[storage.ColID]),
		DisplayName:  optionalString(row[storage.ColDisplayName]),
		Title:        optionalString(row[storage.ColTitle]),
		Size:         intValue(row[storage.ColSize]),
		MimeType:     optionalString(row[storage.ColMimeType]),
		DateAdded:    millis(row[storage.ColDateAdded]),
		DateModified: millis(row[storage.ColDateModified]),
		Album:        optionalString(row[storage.ColAlbum]),
		Artist:       optionalString(row[storage.ColArtist]),
		Duration:     intValue(row[storage.ColDuration]),
		Data:         stringValue(row[storage.ColData]),
	}
}

// groupMusic buckets audio rows by folder, in order of first appearance.
func groupMusic(rows []storage.Row, roots []string) MusicListing {
	listing := MusicListing{Items: []MusicFolder{}}
	index := make(map[string]int)

	for _, row := range rows {
		item := audioItem(row)
		folder := folderPath(item.Data, roots)

		i, ok := index[folder]
		if !ok {
			i = len(listing.Items)
			index[folder] = i
			listing.Items = append(listing.Items, MusicFolder{FolderPath: folder})
		}
		listing.Items[i].AudioItems = append(listing.Items[i].AudioItems, item)
	}

	return listing
}

// folderPath is the directory of path relative to the library root that
// holds it. Files directly in a root get "". Paths outside every root keep
// their absolute directory.
func folderPath(path string, roots []string) string {
	dir := filepath.Dir(path)
	for _, root := range roots {
		rel, err := filepath.Rel(filepath.Clean(root), dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if rel == "." {
			return ""
		}
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(dir)
}
