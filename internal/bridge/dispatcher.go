package bridge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"photogallery/internal/deletion"
	"photogallery/internal/media"
	"photogallery/internal/metrics"
	"photogallery/internal/worker"
)

// Gallery is the set of operations the bridge exposes.
type Gallery interface {
	ListAlbums(kind media.Kind) []media.Album
	ListMedia(kind media.Kind, opts media.ListOptions) media.Page
	GetMedium(id string, kind media.Kind) *media.Record
	GetThumbnail(id string, kind media.Kind, opts media.ThumbnailOptions) []byte
	GetAlbumThumbnail(albumID string, kind media.Kind, newest bool, opts media.ThumbnailOptions) []byte
	GetFile(id string, kind media.Kind, mimeType string) *string
	DeleteMedium(id string, kind media.Kind) *deletion.Request
	ResolveDeletion(requestID string, grant bool) (deletion.Request, error)
	GetDeletion(requestID string) (deletion.Request, error)
	CleanCache() error
	ListMusicFiles() media.MusicListing
}

// method decodes arguments and returns the work to queue.
type method func(call MethodCall) (worker.Task, error)

// Dispatcher routes calls by method name. Arguments are checked before a
// call is queued; the work itself always runs on the queue.
type Dispatcher struct {
	gallery Gallery
	queue   *worker.Queue
	logger  zerolog.Logger
	methods map[string]method
}

func NewDispatcher(gallery Gallery, queue *worker.Queue, logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		gallery: gallery,
		queue:   queue,
		logger:  logger,
	}

	d.methods = map[string]method{
		"listAlbums":        d.listAlbums,
		"listMedia":         d.listMedia,
		"getMedium":         d.getMedium,
		"getThumbnail":      d.getThumbnail,
		"getAlbumThumbnail": d.getAlbumThumbnail,
		"getFile":           d.getFile,
		"deleteMedium":      d.deleteMedium,
		"cleanCache":        d.cleanCache,
		"listMusicFiles":    d.listMusicFiles,
		"getAllMusicFiles":  d.listMusicFiles,
		"getDeletion":       d.getDeletion,
		"grantDeletion":     d.resolveDeletion(true),
		"denyDeletion":      d.resolveDeletion(false),
	}

	return d
}

// Methods lists the supported method names.
func (d *Dispatcher) Methods() []string {
	names := make([]string, 0, len(d.methods))
	for name := range d.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs one method and returns its result. A nil result means no data.
func (d *Dispatcher) Call(ctx context.Context, call MethodCall) (any, error) {
	m, ok := d.methods[call.Method]
	if !ok {
		metrics.BridgeCallsTotal.WithLabelValues("unknown", "not_implemented").Inc()
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, call.Method)
	}

	task, err := m(call)
	if err != nil {
		metrics.BridgeCallsTotal.WithLabelValues(call.Method, "invalid").Inc()
		return nil, err
	}

	start := time.Now()
	result, err := d.queue.Submit(ctx, call.Method, task)
	metrics.BridgeCallDuration.WithLabelValues(call.Method).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.BridgeCallsTotal.WithLabelValues(call.Method, "error").Inc()
		if !errors.Is(err, context.Canceled) {
			d.logger.Warn().Err(err).Str("method", call.Method).Msg("bridge call failed")
		}
		return nil, err
	}

	metrics.BridgeCallsTotal.WithLabelValues(call.Method, "ok").Inc()
	return result, nil
}

func kindArg(call MethodCall) (media.Kind, error) {
	s, err := call.StringOr("mediumType", "")
	return media.ParseKind(s), err
}

func thumbnailArgs(call MethodCall) (media.ThumbnailOptions, error) {
	var opts media.ThumbnailOptions
	var err error

	if opts.Width, err = call.Int("width"); err != nil {
		return opts, err
	}
	if opts.Height, err = call.Int("height"); err != nil {
		return opts, err
	}
	opts.HighQuality, err = call.Flag("highQuality")
	return opts, err
}

func (d *Dispatcher) listAlbums(call MethodCall) (worker.Task, error) {
	kind, err := kindArg(call)
	if err != nil {
		return nil, err
	}
	return func() (any, error) {
		return d.gallery.ListAlbums(kind), nil
	}, nil
}

func (d *Dispatcher) listMedia(call MethodCall) (worker.Task, error) {
	kind, err := kindArg(call)
	if err != nil {
		return nil, err
	}

	var opts media.ListOptions
	if opts.AlbumID, err = call.RequiredString("albumId"); err != nil {
		return nil, err
	}
	if opts.Newest, err = call.RequiredBool("newest"); err != nil {
		return nil, err
	}
	if opts.Skip, err = call.Int("skip"); err != nil {
		return nil, err
	}
	if opts.Take, err = call.Int("take"); err != nil {
		return nil, err
	}
	if opts.LightWeight, err = call.Flag("lightWeight"); err != nil {
		return nil, err
	}

	return func() (any, error) {
		return d.gallery.ListMedia(kind, opts), nil
	}, nil
}

func (d *Dispatcher) getMedium(call MethodCall) (worker.Task, error) {
	id, err := call.RequiredString("mediumId")
	if err != nil {
		return nil, err
	}
	kind, err := kindArg(call)
	if err != nil {
		return nil, err
	}

	return func() (any, error) {
		if r := d.gallery.GetMedium(id, kind); r != nil {
			return r, nil
		}
		return nil, nil
	}, nil
}

func (d *Dispatcher) getThumbnail(call MethodCall) (worker.Task, error) {
	id, err := call.RequiredString("mediumId")
	if err != nil {
		return nil, err
	}
	kind, err := kindArg(call)
	if err != nil {
		return nil, err
	}
	opts, err := thumbnailArgs(call)
	if err != nil {
		return nil, err
	}

	return func() (any, error) {
		if data := d.gallery.GetThumbnail(id, kind, opts); data != nil {
			return data, nil
		}
		return nil, nil
	}, nil
}

func (d *Dispatcher) getAlbumThumbnail(call MethodCall) (worker.Task, error) {
	albumID, err := call.RequiredString("albumId")
	if err != nil {
		return nil, err
	}
	kind, err := kindArg(call)
	if err != nil {
		return nil, err
	}
	newest, err := call.RequiredBool("newest")
	if err != nil {
		return nil, err
	}
	opts, err := thumbnailArgs(call)
	if err != nil {
		return nil, err
	}

	return func() (any, error) {
		if data := d.gallery.GetAlbumThumbnail(albumID, kind, newest, opts); data != nil {
			return data, nil
		}
		return nil, nil
	}, nil
}

func (d *Dispatcher) getFile(call MethodCall) (worker.Task, error) {
	id, err := call.RequiredString("mediumId")
	if err != nil {
		return nil, err
	}
	kind, err := kindArg(call)
	if err != nil {
		return nil, err
	}
	mimeType, err := call.StringOr("mimeType", "")
	if err != nil {
		return nil, err
	}

	return func() (any, error) {
		if path := d.gallery.GetFile(id, kind, mimeType); path != nil {
			return *path, nil
		}
		return nil, nil
	}, nil
}

func (d *Dispatcher) deleteMedium(call MethodCall) (worker.Task, error) {
	id, err := call.RequiredString("mediumId")
	if err != nil {
		return nil, err
	}
	kind, err := kindArg(call)
	if err != nil {
		return nil, err
	}

	return func() (any, error) {
		if req := d.gallery.DeleteMedium(id, kind); req != nil {
			return *req, nil
		}
		return nil, nil
	}, nil
}

func (d *Dispatcher) cleanCache(MethodCall) (worker.Task, error) {
	return func() (any, error) {
		return nil, d.gallery.CleanCache()
	}, nil
}

func (d *Dispatcher) listMusicFiles(MethodCall) (worker.Task, error) {
	return func() (any, error) {
		return d.gallery.ListMusicFiles(), nil
	}, nil
}

func (d *Dispatcher) getDeletion(call MethodCall) (worker.Task, error) {
	id, err := call.RequiredString("requestId")
	if err != nil {
		return nil, err
	}
	return func() (any, error) {
		return d.gallery.GetDeletion(id)
	}, nil
}

func (d *Dispatcher) resolveDeletion(grant bool) method {
	return func(call MethodCall) (worker.Task, error) {
		id, err := call.RequiredString("requestId")
		if err != nil {
			return nil, err
		}
		return func() (any, error) {
			return d.gallery.ResolveDeletion(id, grant)
		}, nil
	}
}
