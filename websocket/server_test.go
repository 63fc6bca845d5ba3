package websocket_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	swarm "github.com/esimov/ascii-swarm/particle-system"
	"github.com/esimov/ascii-swarm/websocket"
)

func newTestServer(t *testing.T, count int) (*websocket.Server, *httptest.Server, string) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<canvas></canvas>"), 0644))

	params := websocket.DefaultParams()
	params.Root = root
	srv, err := websocket.NewServer(params, swarm.NewSystem(count, swarm.WithRand(swarm.NewRand(2))), 120, true)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestServeStatic(t *testing.T) {
	_, ts, _ := newTestServer(t, 1)

	resp, err := http.Get(ts.URL + "/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<canvas></canvas>", string(body))
}

func TestStreamFrames(t *testing.T) {
	srv, _, url := newTestServer(t, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Simulate(ctx)

	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(gws.TextMessage, []byte(`{"type":"pointer","x":1,"y":2}`)))
	require.NoError(t, conn.WriteMessage(gws.TextMessage, []byte(`{"type":"theme","dark":false}`)))
	require.NoError(t, conn.WriteMessage(gws.TextMessage, []byte(`garbage`)))

	var prev float32 = -1
	for i := 0; i < 3; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		kind, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, gws.BinaryMessage, kind)

		frame, err := websocket.DecodeFrame(msg)
		require.NoError(t, err)
		assert.Equal(t, 10, frame.Count())
		assert.Len(t, frame.Positions, 30)
		assert.Len(t, frame.Colors, 40)
		assert.Greater(t, frame.Time, prev)
		prev = frame.Time

		for _, v := range frame.Positions {
			assert.LessOrEqual(t, v, float32(swarm.Boundary))
			assert.GreaterOrEqual(t, v, float32(-swarm.Boundary))
		}
	}
	assert.Equal(t, 1, srv.Clients())

	// Cancelling the simulation disconnects renderers.
	cancel()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	assert.Eventually(t, func() bool { return srv.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	params := websocket.DefaultParams()
	params.Address = "127.0.0.1:0"
	params.Root = t.TempDir()
	srv, err := websocket.NewServer(params, swarm.NewSystem(1), 30, false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
