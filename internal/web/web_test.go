package web_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/linkplay/internal/factory"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/web"
)

const (
	discordUA = "Mozilla/5.0 (compatible; Discordbot/2.0; +https://discordapp.com)"
	browserUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"
)

// webTestServer provides a test server for the public routes
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.NewTestApp(t.TempDir())

	router := web.NewRouter(web.RouterConfig{
		Logger:       logger,
		MediaService: app.MediaService,
		Registry:     app.Registry,
		PrefsService: app.PrefsService,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
	}
}

// get makes a GET request with optional headers
func (ts *webTestServer) get(path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = "links.test"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// writeFile puts a file into a bucket
func (ts *webTestServer) writeFile(bucket model.Bucket, name, content string) {
	ts.t.Helper()
	require.NoError(ts.t, os.MkdirAll(bucket.Dir, 0o755))
	require.NoError(ts.t, os.WriteFile(filepath.Join(bucket.Dir, name), []byte(content), 0o644))
}

// issue writes a shared file and returns a short link token for it
func (ts *webTestServer) issue(name, content string) string {
	ts.t.Helper()
	shared := ts.app.MediaService.Shared()
	ts.writeFile(shared, name, content)
	token, err := ts.app.Registry.Issue(context.Background(), shared, name)
	require.NoError(ts.t, err)
	return token
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

func metaContent(doc *goquery.Document, property string) string {
	v, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
	return v
}

func TestShortLinkServesBytesToBrowsers(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.issue("cat.png", "PNGDATA")

	rr := ts.get("/"+token, map[string]string{"User-Agent": browserUA, "Accept": "text/html"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "PNGDATA", rr.Body.String())
}

func TestShortLinkServesPreviewToCrawlers(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.issue("cat.png", "PNGDATA")

	rr := ts.get("/"+token, map[string]string{"User-Agent": discordUA})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-store, max-age=0", rr.Header().Get("Cache-Control"))

	doc := parseHTML(rr.Body)
	assert.Equal(t, "http://links.test/media/shared/cat.png", metaContent(doc, "og:image"))
	assert.Equal(t, "cat.png", metaContent(doc, "og:title"))
	assert.Zero(t, doc.Find(`meta[property="og:video"]`).Length())
	assert.Equal(t, 1, doc.Find("img").Length())
}

func TestShortLinkRangeAlwaysGetsBytes(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.issue("clip.mp4", "0123456789")

	rr := ts.get("/"+token+"?embed=1", map[string]string{"User-Agent": discordUA, "Range": "bytes=0-3"})
	require.Equal(t, http.StatusPartialContent, rr.Code)
	assert.Equal(t, "0123", rr.Body.String())
}

func TestShortLinkEmbedFlagForcesPreview(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.issue("clip.mp4", "0123456789")

	rr := ts.get("/"+token+"?embed=1", map[string]string{"User-Agent": browserUA})
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assert.Equal(t, "http://links.test/media/shared/clip.mp4", metaContent(doc, "og:video"))
	assert.Equal(t, "720", metaContent(doc, "og:video:width"))
	assert.Equal(t, 1, doc.Find("video").Length())
}

func TestEmbedPathAlwaysRendersPreview(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.issue("notes.txt", "hello")

	rr := ts.get("/"+token+"/embed?title=My+notes&color=%23ff0000", map[string]string{"User-Agent": browserUA})
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assert.Equal(t, "My notes", metaContent(doc, "og:title"))
	assert.Equal(t, "website", metaContent(doc, "og:type"))
	color, _ := doc.Find(`meta[name="theme-color"]`).Attr("content")
	assert.Equal(t, "#ff0000", color)
}

func TestPreviewUsesOperatorDefaults(t *testing.T) {
	ts := newWebTestServer(t)
	_, err := ts.app.PrefsService.Set(context.Background(), model.EmbedPrefs{Title: "Shared clips", Desc: "From the box"})
	require.NoError(t, err)
	token := ts.issue("cat.png", "PNGDATA")

	rr := ts.get("/"+token+"/embed", nil)
	doc := parseHTML(rr.Body)
	assert.Equal(t, "Shared clips", metaContent(doc, "og:title"))
	assert.Equal(t, "From the box", metaContent(doc, "og:description"))
}

func TestUnknownAndExpiredTokens(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.issue("cat.png", "PNGDATA")

	rr := ts.get("/zzzzz", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	ts.app.MockClock.Advance(10 * time.Minute)
	rr = ts.get("/"+token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = ts.get("/"+token+"/embed", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTokenForDeletedFileIsNotFound(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.issue("cat.png", "PNGDATA")
	require.NoError(t, os.Remove(filepath.Join(ts.app.MediaService.Shared().Dir, "cat.png")))

	rr := ts.get("/"+token, map[string]string{"User-Agent": discordUA})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQRCode(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.issue("cat.png", "PNGDATA")

	rr := ts.get("/"+token+"/qr", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")))

	rr = ts.get("/nope/qr", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRawMediaRoutes(t *testing.T) {
	ts := newWebTestServer(t)
	ts.writeFile(ts.app.MediaService.Shared(), "a.gif", "GIF89a")
	ts.writeFile(ts.app.MediaService.UserBucket("dana"), "b.webm", "WEBM")

	rr := ts.get("/media/shared/a.gif", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/gif", rr.Header().Get("Content-Type"))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = ts.get("/media/users/dana/b.webm", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "WEBM", rr.Body.String())

	rr = ts.get("/media/users/Dana/b.webm", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.get("/media/shared/missing.gif", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLegacyEmbedRoutes(t *testing.T) {
	ts := newWebTestServer(t)
	ts.writeFile(ts.app.MediaService.UserBucket("dana"), "b.webm", "WEBM")

	rr := ts.get("/media/embed/users/dana/b.webm", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assert.Equal(t, "http://links.test/media/users/dana/b.webm", metaContent(doc, "og:video"))

	rr = ts.get("/media/embed/shared/missing.png", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
