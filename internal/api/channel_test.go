package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	_, r := newTestHandler(t, &stubGallery{}, t.TempDir())
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/channel"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	requests := []ChannelRequest{
		{ID: "1", Method: "listAlbums"},
		{ID: "2", Method: "getMedium", Arguments: map[string]any{"mediumId": "x"}},
		{ID: "3", Method: "unknownMethod"},
		{ID: "4", Method: "getThumbnail"},
	}
	for _, req := range requests {
		require.NoError(t, conn.WriteJSON(req))
	}

	var responses []map[string]any
	for range requests {
		var resp map[string]any
		require.NoError(t, conn.ReadJSON(&resp))
		responses = append(responses, resp)
	}

	// answered in submission order
	for i, resp := range responses {
		assert.Equal(t, requests[i].ID, resp["id"])
	}

	albums, ok := responses[0]["result"].([]any)
	require.True(t, ok)
	assert.Len(t, albums, 1)

	assert.Nil(t, responses[1]["result"])
	assert.NotContains(t, responses[1], "error")

	errDetail := responses[2]["error"].(map[string]any)
	assert.Equal(t, "NOT_IMPLEMENTED", errDetail["code"])

	errDetail = responses[3]["error"].(map[string]any)
	assert.Equal(t, "BAD_REQUEST", errDetail["code"])
}

func TestChannel_IdleConnectionStaysOpen(t *testing.T) {
	h, r := newTestHandler(t, &stubGallery{}, t.TempDir())
	h.pongWait = 200 * time.Millisecond

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/channel"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the default ping handler answers with a pong while the client reads
	responses := make(chan ChannelResponse)
	go func() {
		defer close(responses)
		for {
			var resp ChannelResponse
			if err := conn.ReadJSON(&resp); err != nil {
				return
			}
			responses <- resp
		}
	}()

	time.Sleep(3 * h.pongWait)

	require.NoError(t, conn.WriteJSON(ChannelRequest{ID: "late", Method: "listAlbums"}))

	select {
	case resp, ok := <-responses:
		require.True(t, ok, "connection closed while idle")
		assert.Equal(t, "late", resp.ID)
		assert.Nil(t, resp.Error)
	case <-time.After(5 * time.Second):
		t.Fatal("no response after idle period")
	}
}
