package media

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"photogallery/internal/deletion"
	"photogallery/internal/storage"
)

// Gallery implements the bridge operations on top of the media index.
// Calls are expected to arrive one at a time from the worker queue.
type Gallery struct {
	index      Index
	thumbnails *ThumbnailService
	images     *ImageCache
	deletions  *deletion.Registry
	roots      []string
	logger     zerolog.Logger
}

func NewGallery(
	index Index,
	thumbnails *ThumbnailService,
	images *ImageCache,
	deletions *deletion.Registry,
	roots []string,
	logger zerolog.Logger,
) *Gallery {
	return &Gallery{
		index:      index,
		thumbnails: thumbnails,
		images:     images,
		deletions:  deletions,
		roots:      roots,
		logger:     logger,
	}
}

func (g *Gallery) source(kind Kind) recordSource {
	return recordSource{index: g.index, kind: kind, logger: g.logger}
}

// ListAlbums lists the albums of one kind. Any other kind unions image and
// video albums.
func (g *Gallery) ListAlbums(kind Kind) []Album {
	switch kind {
	case KindImage, KindVideo, KindAudio:
		return g.source(kind).albums()
	}
	return mergeAlbums(g.source(KindImage).albums(), g.source(KindVideo).albums())
}

// ListMedia pages through an album. A single kind is paged by the index;
// otherwise both kinds are read in full and merged before slicing.
func (g *Gallery) ListMedia(kind Kind, opts ListOptions) Page {
	switch kind {
	case KindImage, KindVideo:
		start := 0
		if opts.Skip != nil && *opts.Skip > 0 {
			start = *opts.Skip
		}
		items := g.source(kind).list(opts.AlbumID, opts.Newest, opts.LightWeight, opts.Skip, opts.Take)
		return Page{Start: start, Items: items}
	}

	images := g.source(KindImage).list(opts.AlbumID, false, opts.LightWeight, nil, nil)
	videos := g.source(KindVideo).list(opts.AlbumID, false, opts.LightWeight, nil, nil)
	return Paginate(MergeRecords(opts.Newest, images, videos), opts.Skip, opts.Take)
}

// GetMedium returns the full record, or nil when no collection holds the id.
func (g *Gallery) GetMedium(id string, kind Kind) *Record {
	switch kind {
	case KindImage, KindVideo:
		return g.source(kind).get(id)
	}
	if r := g.source(KindImage).get(id); r != nil {
		return r
	}
	return g.source(KindVideo).get(id)
}

// locate finds the collection holding id. Without a kind, images are tried
// before videos.
func (g *Gallery) locate(id string, kind Kind) (Kind, string, string) {
	kinds := []Kind{KindImage, KindVideo}
	if kind != KindAny {
		kinds = []Kind{kind}
	}
	for _, k := range kinds {
		if path, mime := g.source(k).file(id); path != "" {
			return k, path, mime
		}
	}
	return KindAny, "", ""
}

// GetThumbnail returns JPEG bytes, or nil when the medium is unknown or
// cannot be rendered.
func (g *Gallery) GetThumbnail(id string, kind Kind, opts ThumbnailOptions) []byte {
	k, path, _ := g.locate(id, kind)
	if path == "" {
		return nil
	}
	return g.thumbnail(k, id, path, opts)
}

func (g *Gallery) thumbnail(kind Kind, id, path string, opts ThumbnailOptions) []byte {
	width, height := opts.Size()
	data, err := g.thumbnails.GetThumbnail(kind, id, path, width, height)
	if err != nil {
		g.logger.Debug().Err(err).Str("id", id).Str("kind", string(kind)).Msg("no thumbnail available")
		return nil
	}
	return data
}

func (g *Gallery) thumbnailOf(kind Kind, id string, opts ThumbnailOptions) []byte {
	path, _ := g.source(kind).file(id)
	if path == "" {
		return nil
	}
	return g.thumbnail(kind, id, path, opts)
}

// GetAlbumThumbnail renders the first medium of an album in the requested
// order. Across kinds the first image and first video compete on creation
// date, then modification date; the image wins a full tie.
func (g *Gallery) GetAlbumThumbnail(albumID string, kind Kind, newest bool, opts ThumbnailOptions) []byte {
	switch kind {
	case KindImage, KindVideo:
		first := g.source(kind).first(albumID, newest)
		if first == nil {
			return nil
		}
		return g.thumbnailOf(kind, first.ID, opts)
	}

	image := g.source(KindImage).first(albumID, newest)
	video := g.source(KindVideo).first(albumID, newest)

	switch {
	case image != nil && video != nil:
		if preferImage(*image, *video, newest) {
			return g.thumbnailOf(KindImage, image.ID, opts)
		}
		return g.thumbnailOf(KindVideo, video.ID, opts)
	case image != nil:
		return g.thumbnailOf(KindImage, image.ID, opts)
	case video != nil:
		return g.thumbnailOf(KindVideo, video.ID, opts)
	}
	return nil
}

func preferImage(image, video Record, newest bool) bool {
	order := compareNullable(image.CreationDate, video.CreationDate)
	if order == 0 {
		order = compareNullable(image.ModifiedDate, video.ModifiedDate)
	}
	if newest {
		order = -order
	}
	return order <= 0
}

// GetFile returns a path the caller can read. An image requested as another
// mime type is re-encoded into the cache first; unsupported targets give nil.
func (g *Gallery) GetFile(id string, kind Kind, mimeType string) *string {
	k, path, stored := g.locate(id, kind)
	if path == "" {
		return nil
	}

	if k == KindImage && mimeType != "" && mimeType != stored {
		cached, err := g.images.Convert(id, path, mimeType)
		if err != nil {
			if !errors.Is(err, ErrUnsupportedFormat) {
				g.logger.Warn().Err(err).Str("id", id).Msg("image conversion failed")
			}
			return nil
		}
		return &cached
	}

	return &path
}

// DeleteMedium opens a deletion request. Without required consent it is
// carried out at once. Unknown media yield nil.
func (g *Gallery) DeleteMedium(id string, kind Kind) *deletion.Request {
	k, path, _ := g.locate(id, kind)
	if path == "" {
		return nil
	}

	req := g.deletions.Open(id, string(k))
	if req.State != deletion.StateGranted {
		return &req
	}

	done := g.carryOut(req)
	return &done
}

// ResolveDeletion grants or denies a request awaiting consent.
func (g *Gallery) ResolveDeletion(requestID string, grant bool) (deletion.Request, error) {
	if !grant {
		return g.deletions.Deny(requestID)
	}

	req, err := g.deletions.Grant(requestID)
	if err != nil {
		return req, err
	}
	return g.carryOut(req), nil
}

func (g *Gallery) GetDeletion(requestID string) (deletion.Request, error) {
	return g.deletions.Get(requestID)
}

func (g *Gallery) carryOut(req deletion.Request) deletion.Request {
	deleted, err := g.remove(req.MediumID, Kind(req.MediumType))

	done, cerr := g.deletions.Complete(req.ID, deleted, err)
	if cerr != nil {
		g.logger.Error().Err(cerr).Str("request", req.ID).Msg("failed to record deletion outcome")
		return req
	}

	g.logger.Info().
		Str("id", req.MediumID).
		Str("kind", req.MediumType).
		Bool("deleted", deleted).
		Msg("medium deleted")
	return done
}

func (g *Gallery) remove(id string, kind Kind) (bool, error) {
	src := g.source(kind)
	path, _ := src.file(id)
	if path == "" {
		return false, nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to remove %s: %w", path, err)
	}

	g.thumbnails.Evict(id)
	return src.delete(id), nil
}

// CleanCache wipes rendered thumbnails and re-encoded images.
func (g *Gallery) CleanCache() error {
	if err := g.thumbnails.Clear(); err != nil {
		return fmt.Errorf("failed to clear thumbnails: %w", err)
	}
	if err := g.images.Clear(); err != nil {
		return fmt.Errorf("failed to clear image cache: %w", err)
	}
	g.logger.Info().Str("dir", g.images.Dir()).Msg("cache cleaned")
	return nil
}

// ListMusicFiles groups every audio record by its folder under the library roots.
func (g *Gallery) ListMusicFiles() MusicListing {
	rows, err := g.index.Query(storage.Audio, storage.Query{Columns: audioColumns})
	if err != nil {
		g.logger.Warn().Err(err).Msg("audio listing failed")
		rows = nil
	}
	return groupMusic(rows, g.roots)
}
