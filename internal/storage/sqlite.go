package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// PagingMode selects how offset/limit reach the index.
type PagingMode string

const (
	PagingAuto PagingMode = "auto"
	// PagingNative binds offset and limit as query parameters.
	PagingNative PagingMode = "native"
	// PagingTextual appends literal LIMIT/OFFSET clauses to the order expression.
	PagingTextual PagingMode = "textual"
)

func ParsePagingMode(s string) (PagingMode, error) {
	switch PagingMode(strings.ToLower(s)) {
	case "", PagingAuto:
		return PagingAuto, nil
	case PagingNative:
		return PagingNative, nil
	case PagingTextual:
		return PagingTextual, nil
	}
	return "", fmt.Errorf("unknown paging mode %q", s)
}

type SQLiteStorage struct {
	db     *sql.DB
	paging PagingMode
}

func NewSQLiteStorage(dbPath string, paging PagingMode) (*SQLiteStorage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStorage{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	if paging == PagingAuto || paging == "" {
		paging = s.DetectPaging()
	}
	s.paging = paging

	return s, nil
}

func (s *SQLiteStorage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS images (
		id TEXT PRIMARY KEY,
		bucket_id TEXT NOT NULL,
		bucket_display_name TEXT,
		display_name TEXT,
		title TEXT,
		width INTEGER DEFAULT 0,
		height INTEGER DEFAULT 0,
		size INTEGER DEFAULT 0,
		orientation INTEGER DEFAULT 0,
		mime_type TEXT,
		date_added INTEGER,
		date_modified INTEGER,
		data TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS videos (
		id TEXT PRIMARY KEY,
		bucket_id TEXT NOT NULL,
		bucket_display_name TEXT,
		display_name TEXT,
		title TEXT,
		width INTEGER DEFAULT 0,
		height INTEGER DEFAULT 0,
		size INTEGER DEFAULT 0,
		mime_type TEXT,
		duration INTEGER DEFAULT 0,
		date_added INTEGER,
		date_modified INTEGER,
		data TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS audio (
		id TEXT PRIMARY KEY,
		album_id TEXT NOT NULL,
		album TEXT,
		artist TEXT,
		display_name TEXT,
		title TEXT,
		size INTEGER DEFAULT 0,
		mime_type TEXT,
		duration INTEGER DEFAULT 0,
		date_added INTEGER,
		date_modified INTEGER,
		data TEXT NOT NULL UNIQUE
	);

	CREATE INDEX IF NOT EXISTS idx_images_bucket ON images(bucket_id);
	CREATE INDEX IF NOT EXISTS idx_images_dates ON images(date_added, date_modified);
	CREATE INDEX IF NOT EXISTS idx_videos_bucket ON videos(bucket_id);
	CREATE INDEX IF NOT EXISTS idx_videos_dates ON videos(date_added, date_modified);
	CREATE INDEX IF NOT EXISTS idx_audio_album ON audio(album_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// DetectPaging probes once whether offset and limit can be bound as
// parameters. Anything that fails the probe gets the textual fallback.
func (s *SQLiteStorage) DetectPaging() PagingMode {
	var one int
	if err := s.db.QueryRow("SELECT 1 LIMIT ? OFFSET ?", 1, 0).Scan(&one); err != nil || one != 1 {
		return PagingTextual
	}
	return PagingNative
}

func (s *SQLiteStorage) Paging() PagingMode {
	return s.paging
}

// Query returns the rows of one collection filtered by bucket and ordered by
// (date_added, date_modified).
func (s *SQLiteStorage) Query(c Collection, q Query) ([]Row, error) {
	cols, err := projection(c, q.Columns)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(string(c))

	if q.BucketID != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(bucketColumns(c)[0])
		sb.WriteString(" = ?")
		args = append(args, q.BucketID)
	}

	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, %s %s", ColDateAdded, dir, ColDateModified, dir)

	args = append(args, s.pagingClause(&sb, q.Offset, q.Limit)...)

	rows, err := s.db.Query(sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

func (s *SQLiteStorage) pagingClause(sb *strings.Builder, offset, limit *int) []any {
	if offset == nil && limit == nil {
		return nil
	}

	// SQLite needs a LIMIT before OFFSET; -1 means unbounded.
	lim := -1
	if limit != nil {
		lim = max(*limit, 0)
	}
	off := 0
	if offset != nil {
		off = max(*offset, 0)
	}

	if s.paging == PagingTextual {
		fmt.Fprintf(sb, " LIMIT %d OFFSET %d", lim, off)
		return nil
	}

	sb.WriteString(" LIMIT ? OFFSET ?")
	return []any{lim, off}
}

// GetByID returns a single row, or nil when the id is unknown.
func (s *SQLiteStorage) GetByID(c Collection, id string, columns []string) (Row, error) {
	cols, err := projection(c, columns)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", strings.Join(cols, ", "), c, ColID)
	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result[0], nil
}

// Buckets returns the bucket of every row in the collection, in storage order.
func (s *SQLiteStorage) Buckets(c Collection) ([]Bucket, error) {
	cols := bucketColumns(c)
	rows, err := s.db.Query(fmt.Sprintf("SELECT %s, %s FROM %s", cols[0], cols[1], c))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		var b Bucket
		var name sql.NullString
		if err := rows.Scan(&b.ID, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			b.Name = &name.String
		}
		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}

// Delete removes a row and reports whether it existed.
func (s *SQLiteStorage) Delete(c Collection, id string) (bool, error) {
	res, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", c, ColID), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Scanner writes

func (s *SQLiteStorage) UpsertImage(e *ImageEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO images (
			id, bucket_id, bucket_display_name, display_name, title, width, height,
			size, orientation, mime_type, date_added, date_modified, data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			bucket_display_name = excluded.bucket_display_name,
			width = excluded.width,
			height = excluded.height,
			size = excluded.size,
			orientation = excluded.orientation,
			mime_type = excluded.mime_type,
			date_modified = excluded.date_modified
	`,
		e.ID, e.BucketID, e.BucketName, e.DisplayName, e.Title, e.Width, e.Height,
		e.Size, e.Orientation, e.MimeType, time.Now().Unix(), e.DateModified, e.Path,
	)
	return err
}

func (s *SQLiteStorage) UpsertVideo(e *VideoEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO videos (
			id, bucket_id, bucket_display_name, display_name, title, width, height,
			size, mime_type, duration, date_added, date_modified, data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			bucket_display_name = excluded.bucket_display_name,
			width = excluded.width,
			height = excluded.height,
			size = excluded.size,
			mime_type = excluded.mime_type,
			duration = excluded.duration,
			date_modified = excluded.date_modified
	`,
		e.ID, e.BucketID, e.BucketName, e.DisplayName, e.Title, e.Width, e.Height,
		e.Size, e.MimeType, e.Duration, time.Now().Unix(), e.DateModified, e.Path,
	)
	return err
}

func (s *SQLiteStorage) UpsertAudio(e *AudioEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO audio (
			id, album_id, album, artist, display_name, title,
			size, mime_type, duration, date_added, date_modified, data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			album_id = excluded.album_id,
			album = excluded.album,
			artist = excluded.artist,
			title = excluded.title,
			size = excluded.size,
			mime_type = excluded.mime_type,
			duration = excluded.duration,
			date_modified = excluded.date_modified
	`,
		e.ID, e.AlbumID, e.Album, e.Artist, e.DisplayName, e.Title,
		e.Size, e.MimeType, e.Duration, time.Now().Unix(), e.DateModified, e.Path,
	)
	return err
}

// Exists reports whether an id is already indexed with the given modification time.
func (s *SQLiteStorage) Exists(c Collection, id string, dateModified int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ? AND %s = ?", c, ColID, ColDateModified),
		id, dateModified,
	).Scan(&n)
	return n > 0, err
}

// AllPaths returns id -> file path for cleanup
func (s *SQLiteStorage) AllPaths(c Collection) (map[string]string, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT %s, %s FROM %s", ColID, ColData, c))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]string)
	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, err
		}
		paths[id] = path
	}
	return paths, rows.Err()
}

func bucketColumns(c Collection) [2]string {
	if c == Audio {
		return [2]string{ColAlbumID, ColAlbum}
	}
	return [2]string{ColBucketID, ColBucketName}
}

// projection validates requested columns against the collection schema.
// An empty request selects every column.
func projection(c Collection, requested []string) ([]string, error) {
	known, ok := collectionColumns[c]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", c)
	}
	if len(requested) == 0 {
		return known, nil
	}
	for _, col := range requested {
		found := false
		for _, k := range known {
			if k == col {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("collection %s has no column %q", c, col)
		}
	}
	return requested, nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
