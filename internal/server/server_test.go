package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/ims-chat/internal/config"
)

// newTestServer builds the full stack — real SQLite file, real blob
// directory, real router — inside a temp dir, and serves it via httptest.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Config{
		Port:           0,
		DBPath:         filepath.Join(dir, "ims.db"),
		UploadDir:      filepath.Join(dir, "uploads"),
		MaxUploadBytes: 8 << 20,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	srv, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.db.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postForm(t *testing.T, ts *httptest.Server, path string, form url.Values) (*http.Response, []byte) {
	t.Helper()
	res, err := http.PostForm(ts.URL+path, form)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	return res, body
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	res, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	return res
}

type inboxResponse struct {
	Status   string `json:"status"`
	Messages []struct {
		Sender   string  `json:"sender"`
		Message  *string `json:"message"`
		ImageURL *string `json:"image_url"`
	} `json:"messages"`
}

func TestEndToEnd_TextMessage(t *testing.T) {
	ts := newTestServer(t)

	for _, name := range []string{"alice", "bob", "bob"} { // bob twice: idempotent
		res, body := postForm(t, ts, "/register", url.Values{"username": {name}})
		require.Equal(t, http.StatusOK, res.StatusCode, "register %s: %s", name, body)
	}

	res, body := postForm(t, ts, "/send", url.Values{
		"sender":   {"alice"},
		"receiver": {"bob"},
		"message":  {"hi"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "send: %s", body)

	var inbox inboxResponse
	getJSON(t, ts, "/inbox?username=bob", &inbox)

	assert.Equal(t, "ok", inbox.Status)
	require.Len(t, inbox.Messages, 1)
	assert.Equal(t, "alice", inbox.Messages[0].Sender)
	require.NotNil(t, inbox.Messages[0].Message)
	assert.Equal(t, "hi", *inbox.Messages[0].Message)
	assert.Nil(t, inbox.Messages[0].ImageURL)

	// alice sent it, so alice's own inbox stays empty.
	var aliceInbox inboxResponse
	getJSON(t, ts, "/inbox?username=alice", &aliceInbox)
	assert.Empty(t, aliceInbox.Messages)
}

func TestEndToEnd_ImageMessage(t *testing.T) {
	ts := newTestServer(t)

	// A 1000×2000 PNG — must come back as a JPEG inside 240×320.
	img := image.NewRGBA(image.Rect(0, 0, 1000, 2000))
	for y := 0; y < 2000; y += 10 {
		for x := 0; x < 1000; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	res, body := postForm(t, ts, "/send", url.Values{
		"sender":   {"alice"},
		"receiver": {"bob"},
		"image":    {base64.StdEncoding.EncodeToString(buf.Bytes())},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "send: %s", body)

	var inbox inboxResponse
	getJSON(t, ts, "/inbox?username=bob", &inbox)
	require.Len(t, inbox.Messages, 1)
	require.NotNil(t, inbox.Messages[0].ImageURL)
	assert.Nil(t, inbox.Messages[0].Message)
	assert.True(t, strings.HasPrefix(*inbox.Messages[0].ImageURL, "/uploads/"))

	// Fetch the blob and verify it's a bounded JPEG.
	blobRes, err := http.Get(ts.URL + *inbox.Messages[0].ImageURL)
	require.NoError(t, err)
	defer blobRes.Body.Close()
	require.Equal(t, http.StatusOK, blobRes.StatusCode)
	assert.Equal(t, "image/jpeg", blobRes.Header.Get("Content-Type"))

	stored, err := jpeg.Decode(blobRes.Body)
	require.NoError(t, err, "stored blob is not a JPEG")
	assert.LessOrEqual(t, stored.Bounds().Dx(), 240)
	assert.LessOrEqual(t, stored.Bounds().Dy(), 320)
}

func TestEndToEnd_FailureModes(t *testing.T) {
	ts := newTestServer(t)

	t.Run("register without username", func(t *testing.T) {
		res, _ := postForm(t, ts, "/register", url.Values{})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("send with no content", func(t *testing.T) {
		res, body := postForm(t, ts, "/send", url.Values{
			"sender":   {"alice"},
			"receiver": {"bob"},
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Contains(t, string(body), "validation_error")
	})

	t.Run("send with non-image payload", func(t *testing.T) {
		res, body := postForm(t, ts, "/send", url.Values{
			"sender":   {"alice"},
			"receiver": {"bob"},
			"image":    {base64.StdEncoding.EncodeToString([]byte("not an image"))},
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Contains(t, string(body), "decode_error")

		// Nothing was persisted: bob's inbox is still empty.
		var inbox inboxResponse
		getJSON(t, ts, "/inbox?username=bob", &inbox)
		assert.Empty(t, inbox.Messages)
	})

	t.Run("inbox without username", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/inbox")
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("unknown blob", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/uploads/nope.jpg")
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestEndToEnd_ChatPage(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "IMS Chat")
}
