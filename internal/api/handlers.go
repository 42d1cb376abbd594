package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"photogallery/internal/bridge"
	"photogallery/internal/deletion"
	"photogallery/internal/media"
	"photogallery/internal/streaming"
)

const Version = "0.1.0"

type Handler struct {
	dispatcher *bridge.Dispatcher
	logger     zerolog.Logger
	scanner    ScannerInterface
	streamer   *streaming.Handler
	upgrader   websocket.Upgrader
	pongWait   time.Duration
	roots      []string
	paging     string
}

type ScannerInterface interface {
	Scan(roots []string) (media.ScanStats, error)
	IsScanning() bool
}

func NewHandler(
	dispatcher *bridge.Dispatcher,
	streamer *streaming.Handler,
	roots []string,
	paging string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger,
		streamer:   streamer,
		roots:      roots,
		paging:     paging,
		pongWait:   channelPongWait,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) SetScanner(scanner ScannerInterface) {
	h.scanner = scanner
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: Version,
		Paging:  h.paging,
	}
	if h.scanner != nil {
		resp.Scanning = h.scanner.IsScanning()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ScanLibrary(w http.ResponseWriter, r *http.Request) {
	if h.scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Scanner not initialized")
		return
	}

	if h.scanner.IsScanning() {
		writeJSON(w, http.StatusOK, ScanResponse{
			Status:  "in_progress",
			Message: "Scan already in progress",
		})
		return
	}

	if len(h.roots) == 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "No library path configured")
		return
	}

	go func() {
		if _, err := h.scanner.Scan(h.roots); err != nil && !errors.Is(err, media.ErrScanInProgress) {
			h.logger.Error().Err(err).Msg("scan failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, ScanResponse{
		Status:  "started",
		Message: "Library scan started",
	})
}

// Call runs any bridge method from a JSON MethodCall body.
func (h *Handler) Call(w http.ResponseWriter, r *http.Request) {
	var call bridge.MethodCall
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&call); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	result, err := h.dispatcher.Call(r.Context(), call)
	if err != nil {
		writeCallError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CallResponse{Result: result})
}

func (h *Handler) call(ctx context.Context, method string, args map[string]any) (any, error) {
	return h.dispatcher.Call(ctx, bridge.MethodCall{Method: method, Arguments: args})
}

func (h *Handler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	args, err := queryArgs(r, []string{"mediumType"}, nil, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := h.call(r.Context(), "listAlbums", args)
	if err != nil {
		writeCallError(w, err)
		return
	}

	albums, _ := result.([]media.Album)
	writeJSON(w, http.StatusOK, AlbumsResponse{Albums: albums})
}

func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	args, err := queryArgs(r, []string{"mediumType"}, []string{"skip", "take"}, []string{"newest", "lightWeight"})
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	args["albumId"] = chi.URLParam(r, "id")
	if _, ok := args["newest"]; !ok {
		args["newest"] = false
	}

	result, err := h.call(r.Context(), "listMedia", args)
	if err != nil {
		writeCallError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetAlbumThumbnail(w http.ResponseWriter, r *http.Request) {
	args, err := queryArgs(r, []string{"mediumType"}, []string{"width", "height"}, []string{"newest", "highQuality"})
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	args["albumId"] = chi.URLParam(r, "id")
	if _, ok := args["newest"]; !ok {
		args["newest"] = true
	}

	result, err := h.call(r.Context(), "getAlbumThumbnail", args)
	if err != nil {
		writeCallError(w, err)
		return
	}

	writeThumbnail(w, result)
}

func (h *Handler) GetMedium(w http.ResponseWriter, r *http.Request) {
	mediumID := chi.URLParam(r, "id")
	args, err := queryArgs(r, []string{"mediumType"}, nil, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	args["mediumId"] = mediumID

	result, err := h.call(r.Context(), "getMedium", args)
	if err != nil {
		writeCallError(w, err)
		return
	}

	medium, _ := result.(*media.Record)
	if medium == nil {
		writeError(w, http.StatusNotFound, "MEDIA_NOT_FOUND", "Media not found")
		return
	}

	writeJSON(w, http.StatusOK, MediumResponse{
		Medium:    medium,
		StreamURL: "/api/v1/media/" + mediumID + "/stream?mediumType=" + string(medium.MediumType),
	})
}

func (h *Handler) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	args, err := queryArgs(r, []string{"mediumType"}, []string{"width", "height"}, []string{"highQuality"})
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	args["mediumId"] = chi.URLParam(r, "id")

	result, err := h.call(r.Context(), "getThumbnail", args)
	if err != nil {
		writeCallError(w, err)
		return
	}

	writeThumbnail(w, result)
}

func (h *Handler) resolveFile(r *http.Request) (string, error) {
	args, err := queryArgs(r, []string{"mediumType", "mimeType"}, nil, nil)
	if err != nil {
		return "", err
	}
	args["mediumId"] = chi.URLParam(r, "id")

	result, err := h.call(r.Context(), "getFile", args)
	if err != nil {
		return "", err
	}
	path, _ := result.(string)
	return path, nil
}

func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolveFile(r)
	if err != nil {
		writeCallError(w, err)
		return
	}
	if path == "" {
		writeError(w, http.StatusNotFound, "FILE_NOT_FOUND", "File not available")
		return
	}

	streamURL := "/api/v1/media/" + chi.URLParam(r, "id") + "/stream"
	if r.URL.RawQuery != "" {
		streamURL += "?" + r.URL.RawQuery
	}
	writeJSON(w, http.StatusOK, FileResponse{Path: path, StreamURL: streamURL})
}

func (h *Handler) StreamMedium(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolveFile(r)
	if err != nil {
		writeCallError(w, err)
		return
	}
	if path == "" {
		writeError(w, http.StatusNotFound, "MEDIA_NOT_FOUND", "Media not found")
		return
	}

	h.streamer.ServeFile(w, r, path)
}

func (h *Handler) DeleteMedium(w http.ResponseWriter, r *http.Request) {
	args, err := queryArgs(r, []string{"mediumType"}, nil, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	args["mediumId"] = chi.URLParam(r, "id")

	result, err := h.call(r.Context(), "deleteMedium", args)
	if err != nil {
		writeCallError(w, err)
		return
	}

	req, ok := result.(deletion.Request)
	if !ok {
		writeError(w, http.StatusNotFound, "MEDIA_NOT_FOUND", "Media not found")
		return
	}
	writeDeletion(w, req)
}

func (h *Handler) GetDeletion(w http.ResponseWriter, r *http.Request) {
	h.deletionCall(w, r, "getDeletion")
}

func (h *Handler) GrantDeletion(w http.ResponseWriter, r *http.Request) {
	h.deletionCall(w, r, "grantDeletion")
}

func (h *Handler) DenyDeletion(w http.ResponseWriter, r *http.Request) {
	h.deletionCall(w, r, "denyDeletion")
}

func (h *Handler) deletionCall(w http.ResponseWriter, r *http.Request, method string) {
	result, err := h.call(r.Context(), method, map[string]any{"requestId": chi.URLParam(r, "id")})
	if err != nil {
		writeCallError(w, err)
		return
	}
	writeDeletion(w, result.(deletion.Request))
}

func (h *Handler) CleanCache(w http.ResponseWriter, r *http.Request) {
	if _, err := h.call(r.Context(), "cleanCache", nil); err != nil {
		writeCallError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMusicFiles(w http.ResponseWriter, r *http.Request) {
	result, err := h.call(r.Context(), "listMusicFiles", nil)
	if err != nil {
		writeCallError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// queryArgs turns query parameters into bridge arguments. Absent
// parameters are left out.
func queryArgs(r *http.Request, strs, ints, bools []string) (map[string]any, error) {
	q := r.URL.Query()
	args := make(map[string]any)

	for _, key := range strs {
		if q.Has(key) {
			args[key] = q.Get(key)
		}
	}
	for _, key := range ints {
		if !q.Has(key) {
			continue
		}
		n, err := strconv.Atoi(q.Get(key))
		if err != nil {
			return nil, errors.New(key + " must be an integer")
		}
		args[key] = n
	}
	for _, key := range bools {
		if !q.Has(key) {
			continue
		}
		b, err := strconv.ParseBool(q.Get(key))
		if err != nil {
			return nil, errors.New(key + " must be a boolean")
		}
		args[key] = b
	}

	return args, nil
}

func writeThumbnail(w http.ResponseWriter, result any) {
	data, _ := result.([]byte)
	if data == nil {
		writeError(w, http.StatusNotFound, "THUMBNAIL_NOT_FOUND", "Thumbnail not available")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeDeletion(w http.ResponseWriter, req deletion.Request) {
	status := http.StatusOK
	if req.State == deletion.StateAwaitingConsent {
		status = http.StatusAccepted
	}
	writeJSON(w, status, req)
}

// errorStatus maps bridge failures to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, bridge.ErrNotImplemented):
		return http.StatusNotImplemented, "NOT_IMPLEMENTED"
	case errors.Is(err, bridge.ErrMissingArgument), errors.Is(err, bridge.ErrInvalidArgument):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, deletion.ErrUnknownRequest):
		return http.StatusNotFound, "REQUEST_NOT_FOUND"
	case errors.Is(err, deletion.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_STATE"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "TIMEOUT"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func writeCallError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
