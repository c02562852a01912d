// Package proxy re-serves upstream image/video bytes so the frontend can
// load assets from CDNs that reject cross-origin or referer-less requests.
// Only a whitelisted subset of headers is forwarded either way.
package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxVideoBytes caps a single proxied video response. Range requests keep
// players working within the cap.
const maxVideoBytes = 100 << 20

// Handler serves the /api/proxy routes.
type Handler struct {
	imageClient *http.Client
	videoClient *http.Client
}

func NewHandler() *Handler {
	return &Handler{
		imageClient: &http.Client{Timeout: 15 * time.Second},
		videoClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// imageReferer picks the referer for an image URL. The shinigami CDN
// (shngm.id) rejects requests whose referer is not the reader site.
func imageReferer(rawURL string) string {
	if strings.Contains(rawURL, "shngm.id") || strings.Contains(rawURL, "shinigami") {
		return "https://shinigami.id"
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "https://shinigami.id"
	}
	return u.Scheme + "://" + u.Host
}

// videoReferer picks the referer/origin pair for a video URL. The two
// special-cased CDNs serve 403 without a matching referer.
func videoReferer(rawURL string) (referer, origin string) {
	switch {
	case strings.Contains(rawURL, "dramabox"):
		return "https://www.dramabox.com", "https://www.dramabox.com"
	case strings.Contains(rawURL, "/_v7/"), strings.Contains(rawURL, "megacloud"), strings.Contains(rawURL, "rapid-cloud"):
		return "https://megacloud.tv", "https://megacloud.tv"
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "https://www.dramabox.com", "https://www.dramabox.com"
	}
	o := u.Scheme + "://" + u.Host
	return o, o
}

// Image handles GET /api/proxy/image?url=
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "URL required")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid URL")
		return
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", imageReferer(target))
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := h.imageClient.Do(req)
	if err != nil {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	w.WriteHeader(http.StatusOK)
	io.Copy(w, resp.Body)
}

// Video handles GET /api/proxy/video?url=
// The inbound Range header is forwarded so players can seek.
func (h *Handler) Video(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "URL required")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid URL")
		return
	}

	referer, origin := videoReferer(target)
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", referer)
	req.Header.Set("Origin", origin)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	} else {
		req.Header.Set("Range", "bytes=0-")
	}

	resp, err := h.videoClient.Do(req)
	if err != nil {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	if ar := resp.Header.Get("Accept-Ranges"); ar != "" {
		w.Header().Set("Accept-Ranges", ar)
	}

	status := http.StatusOK
	if resp.StatusCode == http.StatusPartialContent {
		status = http.StatusPartialContent
	}
	w.WriteHeader(status)
	io.CopyN(w, resp.Body, maxVideoBytes)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
