package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/rizkan1982/dado-stream/internal/providers"
)

// queryParam returns the first non-empty of the aliased query parameters.
// Different frontend views grew different parameter names for the same
// thing; all remain accepted.
func queryParam(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.URL.Query().Get(name); v != "" {
			return v
		}
	}
	return ""
}

// Dramabox

func (h *Handler) DramaboxLatest(w http.ResponseWriter, r *http.Request) {
	h.dramaboxFeed(w, r, "latest")
}

func (h *Handler) DramaboxTrending(w http.ResponseWriter, r *http.Request) {
	h.dramaboxFeed(w, r, "trending")
}

func (h *Handler) DramaboxVIP(w http.ResponseWriter, r *http.Request) {
	h.dramaboxFeed(w, r, "vip")
}

func (h *Handler) DramaboxForYou(w http.ResponseWriter, r *http.Request) {
	h.dramaboxFeed(w, r, "foryou")
}

func (h *Handler) dramaboxFeed(w http.ResponseWriter, r *http.Request, feed string) {
	results, err := h.dramabox.List(r.Context(), feed)
	if err != nil {
		log.Printf("[dramabox %s] %v", feed, err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch dramabox "+feed)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *Handler) DramaboxDubIndo(w http.ResponseWriter, r *http.Request) {
	results, err := h.dramabox.DubIndo(r.Context(), r.URL.Query().Get("classify"))
	if err != nil {
		log.Printf("[dramabox dubindo] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch dramabox dubindo")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *Handler) DramaboxSearch(w http.ResponseWriter, r *http.Request) {
	q := queryParam(r, "q", "query")
	if q == "" {
		respondError(w, http.StatusBadRequest, "Query required")
		return
	}
	results, err := h.dramabox.Search(r.Context(), q)
	if err != nil {
		log.Printf("[dramabox search] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to search dramabox")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *Handler) DramaboxDetail(w http.ResponseWriter, r *http.Request) {
	bookID := r.URL.Query().Get("bookId")
	if bookID == "" {
		respondError(w, http.StatusBadRequest, "bookId required")
		return
	}
	detail, err := h.dramabox.Detail(r.Context(), bookID)
	if err != nil {
		log.Printf("[dramabox detail] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch dramabox detail")
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *Handler) DramaboxAllEpisodes(w http.ResponseWriter, r *http.Request) {
	bookID := r.URL.Query().Get("bookId")
	if bookID == "" {
		respondError(w, http.StatusBadRequest, "bookId required")
		return
	}
	episodes, err := h.dramabox.AllEpisodes(r.Context(), bookID)
	if err != nil {
		log.Printf("[dramabox allepisode] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch episodes")
		return
	}
	respondJSON(w, http.StatusOK, episodes)
}

// Anime

func (h *Handler) AnimeLatest(w http.ResponseWriter, r *http.Request) {
	items, err := h.anime.Latest(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		log.Printf("[anime latest] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch latest anime")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// AnimeTrending serves both the trending and popular routes; the upstream
// has a single popularity feed.
func (h *Handler) AnimeTrending(w http.ResponseWriter, r *http.Request) {
	items, err := h.anime.Popular(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		log.Printf("[anime popular] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch popular anime")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) AnimeOngoing(w http.ResponseWriter, r *http.Request) {
	items, err := h.anime.Ongoing(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		log.Printf("[anime ongoing] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch ongoing anime")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) AnimeMovies(w http.ResponseWriter, r *http.Request) {
	items, err := h.anime.Movies(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		log.Printf("[anime movie] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch anime movies")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) AnimeSearch(w http.ResponseWriter, r *http.Request) {
	q := queryParam(r, "q", "query")
	if q == "" {
		respondError(w, http.StatusBadRequest, "Query parameter required")
		return
	}
	items, err := h.anime.Search(r.Context(), q, r.URL.Query().Get("page"))
	if err != nil {
		log.Printf("[anime search] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to search anime")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) AnimeDetail(w http.ResponseWriter, r *http.Request) {
	urlID := queryParam(r, "urlId", "id")
	if urlID == "" {
		respondError(w, http.StatusBadRequest, "urlId required")
		return
	}
	detail, err := h.anime.Detail(r.Context(), urlID)
	if err != nil {
		if errors.Is(err, providers.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Anime not found")
			return
		}
		log.Printf("[anime detail] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch anime detail")
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// AnimeVideo resolves a playable stream. Always responds 200: failures
// come back as a soft-failure payload the player renders as a message.
func (h *Handler) AnimeVideo(w http.ResponseWriter, r *http.Request) {
	episodeID := queryParam(r, "episodeId", "episode_id", "chapterUrlId")
	if episodeID == "" {
		respondError(w, http.StatusBadRequest, "episodeId required")
		return
	}
	respondJSON(w, http.StatusOK, h.anime.ResolveVideo(r.Context(), episodeID))
}

// Komik

// KomikPopular serves both the recommended and popular routes.
func (h *Handler) KomikPopular(w http.ResponseWriter, r *http.Request) {
	results, err := h.komik.Popular(r.Context())
	if err != nil {
		log.Printf("[komik popular] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch popular komik")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *Handler) KomikSearch(w http.ResponseWriter, r *http.Request) {
	q := queryParam(r, "q", "query", "keyword")
	if q == "" {
		respondError(w, http.StatusBadRequest, "Query required")
		return
	}
	results, err := h.komik.Search(r.Context(), q)
	if err != nil {
		log.Printf("[komik search] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to search komik")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *Handler) KomikDetail(w http.ResponseWriter, r *http.Request) {
	mangaID := queryParam(r, "manga_id", "mangaId", "id")
	if mangaID == "" {
		respondError(w, http.StatusBadRequest, "manga_id required")
		return
	}
	detail, err := h.komik.Detail(r.Context(), mangaID)
	if err != nil {
		if errors.Is(err, providers.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Komik not found")
			return
		}
		log.Printf("[komik detail] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch komik detail")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    detail,
	})
}

// KomikChapterList degrades softly: a failed upstream fetch answers with
// success=false and an empty list so the reader keeps its navigation.
func (h *Handler) KomikChapterList(w http.ResponseWriter, r *http.Request) {
	mangaID := queryParam(r, "manga_id", "mangaId", "id")
	if mangaID == "" {
		respondError(w, http.StatusBadRequest, "manga_id required")
		return
	}
	chapters, err := h.komik.Chapters(r.Context(), mangaID)
	if err != nil {
		log.Printf("[komik chapterlist] %v", err)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  false,
			"chapters": []interface{}{},
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"chapters": chapters,
	})
}

func (h *Handler) KomikImages(w http.ResponseWriter, r *http.Request) {
	chapterID := queryParam(r, "chapter_id", "chapterId", "id")
	if chapterID == "" {
		respondError(w, http.StatusBadRequest, "chapter_id required")
		return
	}
	images, err := h.komik.ChapterImages(r.Context(), chapterID)
	if err != nil {
		log.Printf("[komik getimage] %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch chapter images")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"images":  images,
	})
}
