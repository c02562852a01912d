package providers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rizkan1982/dado-stream/internal/cache"
	"github.com/rizkan1982/dado-stream/internal/extract"
	"github.com/rizkan1982/dado-stream/internal/models"
)

// AnimeClient talks to the anime catalog API.
type AnimeClient struct {
	BaseURL string
	Client  *http.Client
	lists   *cache.Cache
}

func NewAnimeClient(baseURL string) *AnimeClient {
	return &AnimeClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 20 * time.Second,
		},
		lists: cache.New(5 * time.Minute),
	}
}

// Latest fetches recently released episodes. The list sits under
// data.animeList on this endpoint, unlike every other anime feed.
func (a *AnimeClient) Latest(ctx context.Context, page string) ([]models.ContentItem, error) {
	if page == "" {
		page = "1"
	}
	v, err := fetchJSONCached(ctx, a.Client, a.lists, a.BaseURL+"/recent", url.Values{"page": {page}})
	if err != nil {
		return nil, err
	}

	list := extract.List(extract.Get(v, "data"), "animeList")
	items := make([]models.ContentItem, 0, len(list))
	for _, raw := range list {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		episode := extract.Value(m, "episodes")
		if episode == nil {
			episode = "Latest"
		}
		items = append(items, models.ContentItem{
			ID:          extract.String(m, "animeId"),
			URLID:       extract.String(m, "animeId"),
			Title:       extract.String(m, "title"),
			Judul:       extract.String(m, "title"),
			Image:       extract.String(m, "poster"),
			Thumbnail:   extract.String(m, "poster"),
			Episode:     episode,
			ReleaseDate: extract.String(m, "releasedOn"),
			Type:        "Anime",
		})
	}
	return items, nil
}

// Popular fetches the popular/trending feed.
func (a *AnimeClient) Popular(ctx context.Context, page string) ([]models.ContentItem, error) {
	return a.feed(ctx, "/popular", page, nil, "")
}

// Ongoing fetches currently airing anime ordered by popularity.
func (a *AnimeClient) Ongoing(ctx context.Context, page string) ([]models.ContentItem, error) {
	return a.feed(ctx, "/ongoing", page, url.Values{"order": {"popular"}}, "Ongoing")
}

// Movies fetches the anime movie feed.
func (a *AnimeClient) Movies(ctx context.Context, page string) ([]models.ContentItem, error) {
	return a.feed(ctx, "/movies", page, nil, "Movie")
}

// Search queries the anime catalog.
func (a *AnimeClient) Search(ctx context.Context, query, page string) ([]models.ContentItem, error) {
	if page == "" {
		page = "1"
	}
	params := url.Values{"q": {query}, "page": {page}}
	v, err := fetchJSON(ctx, a.Client, a.BaseURL+"/search", params)
	if err != nil {
		return nil, err
	}
	return animeItems(extract.List(v, "data"), ""), nil
}

func (a *AnimeClient) feed(ctx context.Context, path, page string, params url.Values, forcedType string) ([]models.ContentItem, error) {
	if page == "" {
		page = "1"
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("page", page)
	v, err := fetchJSONCached(ctx, a.Client, a.lists, a.BaseURL+path, params)
	if err != nil {
		return nil, err
	}
	return animeItems(extract.List(v, "data"), forcedType), nil
}

// animeItems maps the common anime list entry shape. The episode count
// hides inside tvInfo as either sub or eps; rating and type fall back to
// placeholders the frontend expects.
func animeItems(list []interface{}, forcedType string) []models.ContentItem {
	items := make([]models.ContentItem, 0, len(list))
	for _, raw := range list {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		episode := interface{}("?")
		if tvInfo, ok := m["tvInfo"].(map[string]interface{}); ok {
			if v := extract.Value(tvInfo, "sub", "eps"); v != nil {
				episode = v
			}
		}

		rating := extract.Value(m, "rating")
		if rating == nil {
			rating = "?"
		}

		itemType := forcedType
		if itemType == "" {
			itemType = extract.String(m, "type")
			if itemType == "" {
				itemType = "TV"
			}
		}

		items = append(items, models.ContentItem{
			ID:        extract.String(m, "animeId"),
			URLID:     extract.String(m, "animeId"),
			Title:     extract.String(m, "title"),
			Judul:     extract.String(m, "title"),
			Image:     extract.String(m, "poster"),
			Thumbnail: extract.String(m, "poster"),
			Episode:   episode,
			Rating:    rating,
			Type:      itemType,
		})
	}
	return items
}

// Detail fetches a single anime with its episode list.
func (a *AnimeClient) Detail(ctx context.Context, urlID string) (*models.AnimeDetail, error) {
	v, err := fetchJSON(ctx, a.Client, a.BaseURL+"/anime/"+url.PathEscape(urlID), nil)
	if err != nil {
		return nil, err
	}

	data, ok := extract.Get(v, "data").(map[string]interface{})
	if !ok {
		return nil, ErrNotFound
	}

	episodeList := extract.List(data, "episodeList")
	episodes := make([]models.Episode, 0, len(episodeList))
	for _, raw := range episodeList {
		ep, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		episodes = append(episodes, models.Episode{
			ID:           extract.String(ep, "episodeId"),
			ChapterURLID: extract.String(ep, "episodeId"),
			Title:        extract.Value(ep, "title"),
			Judul:        extract.Value(ep, "title"),
			ReleaseDate:  extract.String(ep, "releaseDate"),
			ReleasedOn:   extract.String(ep, "releaseDate"),
		})
	}

	synopsis := "No synopsis available"
	if paragraphs := extract.List(extract.Get(data, "synopsis"), "paragraphs"); len(paragraphs) > 0 {
		synopsis = strings.Join(extract.Strings(paragraphs), "\n\n")
	}

	genres := make([]string, 0)
	for _, raw := range extract.List(data, "genreList") {
		if g, ok := raw.(map[string]interface{}); ok {
			if title := extract.String(g, "title"); title != "" {
				genres = append(genres, title)
			}
		}
	}

	rating := extract.Value(data, "rating")
	if rating == nil {
		rating = "?"
	}

	detail := &models.AnimeDetail{
		ID:            extract.String(data, "animeId"),
		URLID:         extract.String(data, "animeId"),
		Title:         extract.String(data, "title"),
		Judul:         extract.String(data, "title"),
		Poster:        extract.String(data, "poster"),
		Image:         extract.String(data, "poster"),
		Thumbnail:     extract.String(data, "poster"),
		Synopsis:      synopsis,
		Rating:        rating,
		Type:          stringOr(data, "type", "TV"),
		Status:        stringOr(data, "status", "Unknown"),
		ReleaseDate:   stringOr(data, "releaseDate", "Unknown"),
		TotalEpisodes: len(episodes),
		Genres:        strings.Join(genres, ", "),
		Episodes:      episodes,
	}
	return detail, nil
}

// ResolveVideo resolves a playable URL for an episode. Resolution failures
// are reported as soft-failure payloads, never as errors: the player shows
// the message instead of breaking.
//
// The episode payload groups candidate servers by quality; the first
// server's resolved URL wins, with the provider's defaultStreamingUrl as
// the fallback when server resolution fails. Which field carries the URL
// for VIP versus free episodes is reverse-engineered from observed
// responses and may shift under us.
func (a *AnimeClient) ResolveVideo(ctx context.Context, episodeID string) *models.VideoResponse {
	v, err := fetchJSON(ctx, a.Client, a.BaseURL+"/episode/"+url.PathEscape(episodeID), nil)
	if err != nil {
		return models.SoftFailure("server_error", "Gagal mengambil video anime")
	}

	data, ok := extract.Get(v, "data").(map[string]interface{})
	if !ok {
		return models.SoftFailure("streaming_unavailable", "Episode tidak ditemukan")
	}

	servers := collectServers(data)

	videoURL := extract.String(data, "defaultStreamingUrl")
	if len(servers) > 0 {
		if resolved := a.resolveServerURL(ctx, servers[0].ServerID); resolved != "" {
			videoURL = resolved
		}
	}

	if videoURL == "" {
		return models.SoftFailure("streaming_unavailable", "Tidak ada link streaming tersedia")
	}

	return &models.VideoResponse{
		Data: []models.VideoData{
			{Stream: []string{"link=" + videoURL + ";reso=auto"}},
		},
		Sources:   []models.StreamSource{{URL: videoURL, Quality: "auto"}},
		Subtitles: []interface{}{},
		Servers:   servers,
	}
}

// collectServers flattens the quality-grouped server tree.
func collectServers(data map[string]interface{}) []models.ServerInfo {
	servers := make([]models.ServerInfo, 0)
	for _, rawQuality := range extract.List(extract.Get(data, "server"), "qualities") {
		quality, ok := rawQuality.(map[string]interface{})
		if !ok {
			continue
		}
		qualityName := extract.String(quality, "title")
		for _, rawServer := range extract.List(quality, "serverList") {
			server, ok := rawServer.(map[string]interface{})
			if !ok {
				continue
			}
			servers = append(servers, models.ServerInfo{
				Quality:  qualityName,
				Server:   extract.String(server, "title"),
				ServerID: extract.String(server, "serverId"),
			})
		}
	}
	return servers
}

func (a *AnimeClient) resolveServerURL(ctx context.Context, serverID string) string {
	v, err := fetchJSON(ctx, a.Client, a.BaseURL+"/server/"+url.PathEscape(serverID), nil)
	if err != nil {
		return ""
	}
	if m, ok := extract.Get(v, "data").(map[string]interface{}); ok {
		return extract.String(m, "url")
	}
	return ""
}

func stringOr(m map[string]interface{}, key, fallback string) string {
	if s := extract.String(m, key); s != "" {
		return s
	}
	return fallback
}
