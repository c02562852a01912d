package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageReferer(t *testing.T) {
	cases := map[string]string{
		"https://cdn.shngm.id/chapter/01.jpg":  "https://shinigami.id",
		"https://shinigami.id/cover.jpg":       "https://shinigami.id",
		"https://images.example.com/p/1.jpg":   "https://images.example.com",
		"not a url":                            "https://shinigami.id",
	}
	for rawURL, want := range cases {
		assert.Equal(t, want, imageReferer(rawURL), rawURL)
	}
}

func TestVideoReferer(t *testing.T) {
	cases := []struct {
		rawURL  string
		referer string
	}{
		{"https://video.dramabox.com/ep1.mp4", "https://www.dramabox.com"},
		{"https://cdn.example.net/_v7/seg.ts", "https://megacloud.tv"},
		{"https://megacloud.tv/embed/abc", "https://megacloud.tv"},
		{"https://x.rapid-cloud.co/stream.m3u8", "https://megacloud.tv"},
		{"https://other.example.org/clip.mp4", "https://other.example.org"},
		{"garbage", "https://www.dramabox.com"},
	}
	for _, tc := range cases {
		referer, origin := videoReferer(tc.rawURL)
		assert.Equal(t, tc.referer, referer, tc.rawURL)
		assert.Equal(t, referer, origin, tc.rawURL)
	}
}

func TestImageProxyForwardsBytesAndHeaders(t *testing.T) {
	var gotReferer string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	h := NewHandler()
	req := httptest.NewRequest("GET", "/api/proxy/image?url="+upstream.URL+"/p.png", nil)
	rec := httptest.NewRecorder()
	h.Image(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Equal(t, upstream.URL, gotReferer)
}

func TestImageProxyMissingURL(t *testing.T) {
	h := NewHandler()
	rec := httptest.NewRecorder()
	h.Image(rec, httptest.NewRequest("GET", "/api/proxy/image", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageProxyUpstreamFailureIs404(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()

	h := NewHandler()
	rec := httptest.NewRecorder()
	h.Image(rec, httptest.NewRequest("GET", "/api/proxy/image?url="+upstream.URL+"/p.png", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Image not found"}`, rec.Body.String())
}

func TestVideoProxyForwardsRange(t *testing.T) {
	var gotRange, gotOrigin string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		gotOrigin = r.Header.Get("Origin")
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Accept-Ranges", "bytes")
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte("chunk"))
	}))
	defer upstream.Close()

	h := NewHandler()
	req := httptest.NewRequest("GET", "/api/proxy/video?url="+upstream.URL+"/v.mp4", nil)
	req.Header.Set("Range", "bytes=100-200")
	rec := httptest.NewRecorder()
	h.Video(rec, req)

	assert.Equal(t, "bytes=100-200", gotRange)
	assert.Equal(t, upstream.URL, gotOrigin)
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "chunk", rec.Body.String())
}

func TestVideoProxyDefaultsRangeHeader(t *testing.T) {
	var gotRange string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	h := NewHandler()
	rec := httptest.NewRecorder()
	h.Video(rec, httptest.NewRequest("GET", "/api/proxy/video?url="+upstream.URL+"/v.mp4", nil))

	assert.Equal(t, "bytes=0-", gotRange)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVideoProxyUpstreamFailureIs404(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	h := NewHandler()
	rec := httptest.NewRecorder()
	h.Video(rec, httptest.NewRequest("GET", "/api/proxy/video?url="+upstream.URL+"/v.mp4", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Video not found"}`, rec.Body.String())
}

func TestVideoProxyMissingURL(t *testing.T) {
	h := NewHandler()
	rec := httptest.NewRecorder()
	h.Video(rec, httptest.NewRequest("GET", "/api/proxy/video", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
