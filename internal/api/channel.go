package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"photogallery/internal/bridge"
)

const (
	channelPongWait  = 60 * time.Second
	channelWriteWait = 10 * time.Second
)

// Channel serves bridge calls over a WebSocket. Requests on one connection
// are answered in the order they arrive.
func (h *Handler) Channel(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("channel upgrade failed")
		return
	}
	defer conn.Close()

	pongWait := h.pongWait
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(conn, pongWait*9/10, done)

	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("channel opened")

	for {
		var req ChannelRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn().Err(err).Msg("channel read failed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		resp := ChannelResponse{ID: req.ID}
		result, err := h.dispatcher.Call(r.Context(), bridge.MethodCall{Method: req.Method, Arguments: req.Arguments})
		if err != nil {
			_, code := errorStatus(err)
			resp.Error = &ErrorDetail{Code: code, Message: err.Error()}
		} else {
			resp.Result = result
		}

		conn.SetWriteDeadline(time.Now().Add(channelWriteWait))
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Warn().Err(err).Msg("channel write failed")
			return
		}
	}
}

// keepAlive pings until done is closed. WriteControl may run alongside
// WriteJSON, so the reply loop needs no extra locking.
func (h *Handler) keepAlive(conn *websocket.Conn, period time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(channelWriteWait)); err != nil {
				h.logger.Debug().Err(err).Msg("channel ping failed")
				return
			}
		}
	}
}
