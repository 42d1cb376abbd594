package api

import "photogallery/internal/media"

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Paging   string `json:"paging"`
	Scanning bool   `json:"scanning"`
}

type ScanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CallResponse wraps a bridge result. A null result means no data.
type CallResponse struct {
	Result any `json:"result"`
}

type FileResponse struct {
	Path      string `json:"path"`
	StreamURL string `json:"stream_url"`
}

type AlbumsResponse struct {
	Albums []media.Album `json:"albums"`
}

type MediumResponse struct {
	Medium    *media.Record `json:"medium"`
	StreamURL string        `json:"stream_url"`
}

// Channel messages

type ChannelRequest struct {
	ID        string         `json:"id"`
	Method    string         `json:"method"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

type ChannelResponse struct {
	ID     string       `json:"id"`
	Result any          `json:"result"`
	Error  *ErrorDetail `json:"error,omitempty"`
}
