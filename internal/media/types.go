package media

import "photogallery/internal/storage"

// Kind is the medium type of a record.
type Kind string

const (
	// KindAny means the caller did not name a kind; operations span images and videos.
	KindAny   Kind = ""
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// ParseKind maps a bridge argument to a Kind. Unknown values fall back to KindAny.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindImage, KindVideo, KindAudio:
		return Kind(s)
	}
	return KindAny
}

func (k Kind) collection() storage.Collection {
	switch k {
	case KindVideo:
		return storage.Videos
	case KindAudio:
		return storage.Audio
	}
	return storage.Images
}

const (
	AllAlbumID   = "__ALL__"
	AllAlbumName = "All"
)

// Record is the normalized view of one index row.
type Record struct {
	ID           string  `json:"id"`
	Filename     *string `json:"filename,omitempty"`
	Title        *string `json:"title,omitempty"`
	MediumType   Kind    `json:"mediumType"`
	Width        int64   `json:"width"`
	Height       int64   `json:"height"`
	Size         *int64  `json:"size,omitempty"`
	Orientation  *int    `json:"orientation,omitempty"`
	MimeType     *string `json:"mimeType,omitempty"`
	Duration     *int64  `json:"duration,omitempty"` // milliseconds
	CreationDate *int64  `json:"creationDate"`       // epoch milliseconds
	ModifiedDate *int64  `json:"modifiedDate"`       // epoch milliseconds
}

// Album summarizes one bucket. Name is nil when no source supplied one.
type Album struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Count int     `json:"count"`
}

// Page is one slice of a listing.
type Page struct {
	Start int      `json:"start"`
	Items []Record `json:"items"`
}

// ListOptions carries the listMedia arguments.
type ListOptions struct {
	AlbumID     string
	Newest      bool
	Skip        *int
	Take        *int
	LightWeight bool
}

// ThumbnailOptions carries the requested thumbnail box.
type ThumbnailOptions struct {
	Width       *int
	Height      *int
	HighQuality bool
}

// Size resolves the box, falling back to 512x384 for high quality and 96x96 otherwise.
func (o ThumbnailOptions) Size() (int, int) {
	w, h := 96, 96
	if o.HighQuality {
		w, h = 512, 384
	}
	if o.Width != nil && *o.Width > 0 {
		w = *o.Width
	}
	if o.Height != nil && *o.Height > 0 {
		h = *o.Height
	}
	return w, h
}
