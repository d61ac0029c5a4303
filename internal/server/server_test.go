package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/editor"
	"github.com/ZacxDev/layout-composer/internal/export"
	"github.com/ZacxDev/layout-composer/internal/ffmpeg"
	"github.com/ZacxDev/layout-composer/internal/layer"
	"github.com/ZacxDev/layout-composer/internal/textmetrics"
)

type fakeClipboard struct {
	mu   sync.Mutex
	text string
}

func (f *fakeClipboard) write(s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = s
	return nil
}

func (f *fakeClipboard) get() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

type fixture struct {
	srv  *Server
	ts   *httptest.Server
	clip *fakeClipboard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	n := 0
	e := editor.New(editor.SettingsFromConfig(cfg),
		editor.WithMeasurer(textmetrics.Approx{Advance: 0.5}),
		editor.WithIDs(func() string {
			n++
			return fmt.Sprintf("l%d", n)
		}),
	)
	clip := &fakeClipboard{}
	srv := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithEditor(e),
		WithClipboard(export.WithWriter(clip.write)),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Sessions().CloseAll()
	})
	return &fixture{srv: srv, ts: ts, clip: clip}
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (f *fixture) create(t *testing.T, body string) Snapshot {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[Snapshot](t, resp)
}

func (f *fixture) act(t *testing.T, id, body string) Snapshot {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/sessions/"+id+"/actions", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[Snapshot](t, resp)
}

func TestHealthAndPlatforms(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/platforms", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	platforms := decode[[]platformInfo](t, resp)
	require.NotEmpty(t, platforms)

	var tiktok *platformInfo
	for i := range platforms {
		if platforms[i].Name == "tiktok" {
			tiktok = &platforms[i]
		}
	}
	require.NotNil(t, tiktok)
	assert.Equal(t, 1080.0, tiktok.Width)
	assert.Equal(t, 1920.0, tiktok.Height)
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t)

	snap := f.create(t, "")
	assert.NotEmpty(t, snap.ID)
	assert.True(t, snap.Empty)
	assert.Equal(t, ffmpeg.NoLayersMessage, snap.Command)
	assert.Equal(t, layer.CanvasSize{Width: 1080, Height: 1920}, snap.Layout.Canvas)
	assert.Equal(t, "idle", snap.Mode)
	assert.Equal(t, 1, f.srv.Sessions().Len())

	snap = f.create(t, `{"platform":"reddit","layout":{"layers":[{"type":"video","name":"Clip","width":400,"height":300}]}}`)
	assert.Equal(t, layer.CanvasSize{Width: 1920, Height: 1080}, snap.Layout.Canvas)
	require.Len(t, snap.Layout.Layers, 1)
	assert.Contains(t, snap.Command, `-i "clip.mp4"`)
}

func TestCreateSessionRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{
		`{"platform":"myspace"}`,
		`{"layout":{"layers":[{"type":"circle"}]}}`,
		`{nope`,
	} {
		resp := f.do(t, http.MethodPost, "/sessions", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.NotEmpty(t, decode[map[string]string](t, resp)["error"], body)
	}
	assert.Equal(t, 0, f.srv.Sessions().Len())
}

func TestActions(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID

	snap := f.act(t, id, `{"type":"add-video"}`)
	require.Len(t, snap.Layout.Layers, 1)
	assert.False(t, snap.Empty)
	assert.Contains(t, snap.Command, `-i "video_1.mp4"`)

	snap = f.act(t, id, `[{"type":"add-text"},{"type":"set-field","id":"l2","field":"text","value":"Hi"}]`)
	require.Len(t, snap.Layout.Layers, 2)
	assert.Equal(t, "Hi", snap.Layout.Layers[1].Text)

	snap = f.act(t, id, `{"actions":[{"type":"remove","id":"l2"}]}`)
	assert.Len(t, snap.Layout.Layers, 1)

	resp := f.do(t, http.MethodPost, "/sessions/"+id+"/actions", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/sessions/nope/actions", `{"type":"add-video"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDragThroughPointerActions(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID
	f.act(t, id, `{"type":"add-video"}`)

	snap := f.act(t, id, `{"type":"pointer-down","x":100,"y":100}`)
	assert.Equal(t, "dragging", snap.Mode)

	snap = f.act(t, id, `[{"type":"pointer-move","x":150,"y":160},{"type":"pointer-up"}]`)
	assert.Equal(t, "idle", snap.Mode)
	require.Len(t, snap.Layout.Layers, 1)
	assert.Equal(t, 70.0, snap.Layout.Layers[0].X)
	assert.Equal(t, 80.0, snap.Layout.Layers[0].Y)
	assert.Contains(t, snap.Command, "overlay=70:80")
}

func TestCommandAndDownload(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID

	resp := f.do(t, http.MethodGet, "/sessions/"+id+"/download", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	f.act(t, id, `{"type":"add-video"}`)

	resp = f.do(t, http.MethodGet, "/sessions/"+id+"/command", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cmd, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(cmd), "ffmpeg \\\n"))

	resp = f.do(t, http.MethodGet, "/sessions/"+id+"/download?name=my_layout.mp4", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="my_layout.sh"`, resp.Header.Get("Content-Disposition"))
	script, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, string(cmd), string(script))

	resp = f.do(t, http.MethodGet, "/sessions/"+id+"/download", "")
	assert.Equal(t, `attachment; filename="ffmpeg_command.sh"`, resp.Header.Get("Content-Disposition"))
}

func TestCopy(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID
	f.act(t, id, `{"type":"add-text"}`)

	resp := f.do(t, http.MethodPost, "/sessions/"+id+"/copy", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[Snapshot](t, resp)
	assert.True(t, snap.Copied)
	assert.Equal(t, snap.Command, f.clip.get())
}

func pngBody(t *testing.T, w, h int) (*bytes.Buffer, string) {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, w, h))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "frame.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestTemplateLifecycle(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID
	f.act(t, id, `{"type":"add-video"}`)

	body, contentType := pngBody(t, 720, 1280)
	resp, err := http.Post(f.ts.URL+"/sessions/"+id+"/template", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := decode[Snapshot](t, resp)
	require.NotNil(t, snap.Layout.Template)
	assert.Equal(t, "frame.png", snap.Layout.Template.Name)
	assert.Equal(t, 1.0, snap.Layout.Template.Opacity)
	assert.Equal(t, layer.CanvasSize{Width: 720, Height: 1280}, snap.Layout.Canvas)
	assert.Contains(t, snap.Command, `-i "template.png"`)

	resp = f.do(t, http.MethodDelete, "/sessions/"+id+"/template", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decode[Snapshot](t, resp)
	assert.Nil(t, snap.Layout.Template)
	assert.Equal(t, layer.CanvasSize{Width: 1080, Height: 1920}, snap.Layout.Canvas)
	assert.NotContains(t, snap.Command, "template.png")
}

func TestTemplateRejectsNonImage(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	part.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(f.ts.URL+"/sessions/"+id+"/template", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID
	f.act(t, id, `{"type":"add-video"}`)

	resp := f.do(t, http.MethodGet, "/sessions/"+id+"/preview.png", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	cfg, err := png.DecodeConfig(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 540, cfg.Width)
	assert.Equal(t, 960, cfg.Height)

	resp = f.do(t, http.MethodGet, "/sessions/"+id+"/preview.png?scale=abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCursor(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID
	f.act(t, id, `{"type":"add-video"}`)

	cases := map[string]string{
		"x=200&y=200":  "move",
		"x=20&y=20":    "nw-resize",
		"x=900&y=1500": "default",
		"x=560&y=290":  "e-resize",
		"x=290&y=560":  "s-resize",
		"x=560&y=560":  "se-resize",
	}
	for query, want := range cases {
		resp := f.do(t, http.MethodGet, "/sessions/"+id+"/cursor?"+query, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, query)
		assert.Equal(t, want, decode[map[string]string](t, resp)["cursor"], query)
	}

	resp := f.do(t, http.MethodGet, "/sessions/"+id+"/cursor?x=a", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID

	resp := f.do(t, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocket(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(f.ts.URL, "http") + "/sessions/" + id + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var snap Snapshot
	require.NoError(t, wsjson.Read(ctx, conn, &snap))
	assert.Equal(t, id, snap.ID)
	assert.Empty(t, snap.Layout.Layers)

	require.NoError(t, wsjson.Write(ctx, conn, editor.Action{Type: editor.ActionAddText}))
	require.NoError(t, wsjson.Read(ctx, conn, &snap))
	require.Len(t, snap.Layout.Layers, 1)
	assert.Equal(t, "New Text", snap.Layout.Layers[0].Text)

	// changes made over HTTP reach the stream too
	f.act(t, id, `{"type":"add-video"}`)
	require.NoError(t, wsjson.Read(ctx, conn, &snap))
	assert.Len(t, snap.Layout.Layers, 2)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{broken")))
	var reply wsError
	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	assert.NotEmpty(t, reply.Error)

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestWebSocketClosedWithSession(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "").ID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(f.ts.URL, "http") + "/sessions/" + id + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var snap Snapshot
	require.NoError(t, wsjson.Read(ctx, conn, &snap))

	f.srv.Sessions().Delete(id)
	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
}

func TestDecodeActions(t *testing.T) {
	actions, err := decodeActions([]byte(` {"type":"raise","id":"a"} `))
	require.NoError(t, err)
	assert.Equal(t, []editor.Action{{Type: editor.ActionRaise, ID: "a"}}, actions)

	actions, err = decodeActions([]byte(`{"actions":[{"type":"lower","id":"a"},{"type":"raise","id":"a"}]}`))
	require.NoError(t, err)
	assert.Len(t, actions, 2)

	_, err = decodeActions([]byte(`[{"type":1}]`))
	assert.Error(t, err)
}
