package media

import (
	"github.com/rs/zerolog"
	"photogallery/internal/storage"
)

// Index is the part of the media index the gallery reads and deletes through.
type Index interface {
	Query(c storage.Collection, q storage.Query) ([]storage.Row, error)
	GetByID(c storage.Collection, id string, columns []string) (storage.Row, error)
	Buckets(c storage.Collection) ([]storage.Bucket, error)
	Delete(c storage.Collection, id string) (bool, error)
}

// recordSource reads one kind's collection. Index failures are logged and
// read as an empty result.
type recordSource struct {
	index  Index
	kind   Kind
	logger zerolog.Logger
}

func (s recordSource) rows(albumID string, newest bool, columns []string, offset, limit *int) []storage.Row {
	q := storage.Query{
		Descending: newest,
		Columns:    columns,
		Offset:     offset,
		Limit:      limit,
	}
	if albumID != AllAlbumID {
		q.BucketID = albumID
	}

	rows, err := s.index.Query(s.kind.collection(), q)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(s.kind)).Str("album", albumID).Msg("media index query failed")
		return nil
	}
	return rows
}

func (s recordSource) list(albumID string, newest, brief bool, offset, limit *int) []Record {
	rows := s.rows(albumID, newest, projectionFor(s.kind, brief), offset, limit)

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Normalize(s.kind, row, brief))
	}
	return records
}

// first returns the first record of an album in the requested order.
func (s recordSource) first(albumID string, newest bool) *Record {
	one := 1
	records := s.list(albumID, newest, true, nil, &one)
	if len(records) == 0 {
		return nil
	}
	return &records[0]
}

func (s recordSource) get(id string) *Record {
	row := s.lookup(id, projectionFor(s.kind, false))
	if row == nil {
		return nil
	}
	r := Normalize(s.kind, row, false)
	return &r
}

func (s recordSource) albums() []Album {
	buckets, err := s.index.Buckets(s.kind.collection())
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(s.kind)).Msg("bucket listing failed")
	}
	return groupAlbums(buckets)
}

// file returns the stored path and mime type, or empty strings when the id is unknown.
func (s recordSource) file(id string) (path, mimeType string) {
	row := s.lookup(id, []string{storage.ColData, storage.ColMimeType})
	if row == nil {
		return "", ""
	}
	return stringValue(row[storage.ColData]), stringValue(row[storage.ColMimeType])
}

func (s recordSource) delete(id string) bool {
	deleted, err := s.index.Delete(s.kind.collection(), id)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(s.kind)).Str("id", id).Msg("index delete failed")
		return false
	}
	return deleted
}

func (s recordSource) lookup(id string, columns []string) storage.Row {
	row, err := s.index.GetByID(s.kind.collection(), id, columns)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(s.kind)).Str("id", id).Msg("media index lookup failed")
		return nil
	}
	return row
}
