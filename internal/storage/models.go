package storage

// Collection names one record set of the media index.
type Collection string

const (
	Images Collection = "images"
	Videos Collection = "videos"
	Audio  Collection = "audio"
)

// Column names shared by the collections.
const (
	ColID           = "id"
	ColBucketID     = "bucket_id"
	ColBucketName   = "bucket_display_name"
	ColDisplayName  = "display_name"
	ColTitle        = "title"
	ColWidth        = "width"
	ColHeight       = "height"
	ColSize         = "size"
	ColOrientation  = "orientation"
	ColMimeType     = "mime_type"
	ColDuration     = "duration"
	ColDateAdded    = "date_added"
	ColDateModified = "date_modified"
	ColData         = "data"
	ColAlbumID      = "album_id"
	ColAlbum        = "album"
	ColArtist       = "artist"
)

var collectionColumns = map[Collection][]string{
	Images: {
		ColID, ColBucketID, ColBucketName, ColDisplayName, ColTitle, ColWidth, ColHeight,
		ColSize, ColOrientation, ColMimeType, ColDateAdded, ColDateModified, ColData,
	},
	Videos: {
		ColID, ColBucketID, ColBucketName, ColDisplayName, ColTitle, ColWidth, ColHeight,
		ColSize, ColMimeType, ColDuration, ColDateAdded, ColDateModified, ColData,
	},
	Audio: {
		ColID, ColAlbumID, ColAlbum, ColArtist, ColDisplayName, ColTitle,
		ColSize, ColMimeType, ColDuration, ColDateAdded, ColDateModified, ColData,
	},
}

// Row is a raw index row keyed by column name. Values keep the type SQLite
// stored them with, so a date cell may hold an int64, a string or nil.
type Row map[string]any

// Bucket is the grouping key of a single index row.
type Bucket struct {
	ID   string
	Name *string
}

// Query selects rows from one collection.
type Query struct {
	BucketID   string // empty selects every bucket
	Descending bool
	Columns    []string
	Offset     *int
	Limit      *int
}

type ImageEntry struct {
	ID           string
	BucketID     string
	BucketName   string
	DisplayName  string
	Title        string
	Width        int
	Height       int
	Size         int64
	Orientation  int // degrees
	MimeType     string
	DateModified int64 // seconds
	Path         string
}

type VideoEntry struct {
	ID           string
	BucketID     string
	BucketName   string
	DisplayName  string
	Title        string
	Width        int
	Height       int
	Size         int64
	MimeType     string
	Duration     int64 // milliseconds
	DateModified int64 // seconds
	Path         string
}

type AudioEntry struct {
	ID           string
	AlbumID      string
	Album        string
	Artist       string
	DisplayName  string
	Title        string
	Size         int64
	MimeType     string
	Duration     int64 // milliseconds
	DateModified int64 // seconds
	Path         string
}
