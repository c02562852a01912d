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

// KomikClient talks to the comic catalog API, scoped to one provider
// (shinigami by default).
type KomikClient struct {
	BaseURL  string
	Provider string
	Client   *http.Client
	lists    *cache.Cache
}

func NewKomikClient(baseURL, provider string) *KomikClient {
	return &KomikClient{
		BaseURL:  baseURL,
		Provider: provider,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
		lists: cache.New(5 * time.Minute),
	}
}

func (k *KomikClient) params(extra url.Values) url.Values {
	params := url.Values{"provider": {k.Provider}}
	for key, values := range extra {
		params[key] = values
	}
	return params
}

// Popular fetches the popular feed.
func (k *KomikClient) Popular(ctx context.Context) ([]interface{}, error) {
	v, err := fetchJSONCached(ctx, k.Client, k.lists, k.BaseURL+"/popular", k.params(nil))
	if err != nil {
		return nil, err
	}
	return extract.List(v, "data"), nil
}

// Search queries the comic catalog.
func (k *KomikClient) Search(ctx context.Context, keyword string) ([]interface{}, error) {
	v, err := fetchJSON(ctx, k.Client, k.BaseURL+"/search", k.params(url.Values{"keyword": {keyword}}))
	if err != nil {
		return nil, err
	}
	return extract.List(v, "data"), nil
}

// Detail fetches a single comic.
func (k *KomikClient) Detail(ctx context.Context, mangaID string) (*models.KomikDetail, error) {
	v, err := fetchJSON(ctx, k.Client, k.BaseURL+"/detail/"+url.PathEscape(mangaID), k.params(nil))
	if err != nil {
		return nil, err
	}

	raw, ok := extract.Get(v, "data").(map[string]interface{})
	if !ok {
		return nil, ErrNotFound
	}

	// Genre entries arrive as plain strings or as {title: ...} objects.
	genres := make([]string, 0)
	for _, g := range extract.List(raw, "genre") {
		switch val := g.(type) {
		case string:
			genres = append(genres, val)
		case map[string]interface{}:
			if title := extract.String(val, "title"); title != "" {
				genres = append(genres, title)
			}
		}
	}

	detail := &models.KomikDetail{
		Title:       extract.String(raw, "title"),
		Judul:       extract.String(raw, "title"),
		Description: extract.String(raw, "description"),
		Synopsis:    extract.String(raw, "description"),
		Status:      extract.String(raw, "status"),
		Author:      extract.String(raw, "author"),
		Rating:      extract.Value(raw, "rating"),
		Cover:       extract.String(raw, "thumbnail"),
		Thumbnail:   extract.String(raw, "thumbnail"),
		Genres:      genres,
	}
	return detail, nil
}

// Chapters fetches the chapter list for a comic. The chapter id is the tail
// of the chapter's href when present, falling back to the raw id field.
func (k *KomikClient) Chapters(ctx context.Context, mangaID string) ([]models.Chapter, error) {
	v, err := fetchJSON(ctx, k.Client, k.BaseURL+"/detail/"+url.PathEscape(mangaID), k.params(nil))
	if err != nil {
		return nil, err
	}

	list := extract.List(extract.Get(v, "data"), "chapter")
	chapters := make([]models.Chapter, 0, len(list))
	for _, raw := range list {
		ch, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		chapterID := extract.String(ch, "id")
		if href := extract.String(ch, "href"); href != "" {
			parts := strings.Split(strings.TrimSuffix(href, "/"), "/")
			if tail := parts[len(parts)-1]; tail != "" {
				chapterID = tail
			}
		}

		number := extract.Value(ch, "number")
		if number == nil {
			number = extract.Value(ch, "title")
		}

		chapters = append(chapters, models.Chapter{
			ChapterID: chapterID,
			Title:     extract.Value(ch, "title"),
			Number:    number,
			Date:      extract.String(ch, "date"),
		})
	}
	return chapters, nil
}

// ChapterImages fetches the page images for a chapter. The reader endpoint
// moved once already, so /read is tried before /chapter; the panel array
// itself is located through a chain ending in a bounded structural search.
// Credit/promo pages are filtered out before returning.
func (k *KomikClient) ChapterImages(ctx context.Context, chapterID string) ([]string, error) {
	v, err := fetchJSON(ctx, k.Client, k.BaseURL+"/read/"+url.PathEscape(chapterID), k.params(nil))
	if err != nil {
		v, err = fetchJSON(ctx, k.Client, k.BaseURL+"/chapter/"+url.PathEscape(chapterID), k.params(nil))
		if err != nil {
			return nil, err
		}
	}

	data := extract.Get(v, "data")

	var panels []interface{}
	if list, ok := data.([]interface{}); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]interface{}); ok {
			panels = extract.List(first, "panel")
		}
		if len(panels) == 0 && extract.AllStringsLikeURLs(list) {
			panels = list
		}
	}
	if len(panels) == 0 {
		panels = extract.FindList(v, extract.AllStringsLikeURLs)
	}

	return filterCreditImages(extract.Strings(panels)), nil
}

// creditKeywords mark scanlation credit/promo pages by filename.
var creditKeywords = []string{
	"credit", "promo", "watermark", "donasi", "discord", "join", "staff",
	"sh-ae", "ae-logo", "social-media", "banner", "website-group",
}

// isCreditImage reports whether a page URL points at a credit/promo page
// rather than chapter content. Heuristics mirror the naming conventions of
// the scanlation groups behind the default provider.
func isCreditImage(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	fullURL := strings.ToLower(rawURL)
	parts := strings.Split(fullURL, "/")
	fileName := parts[len(parts)-1]

	if strings.HasPrefix(fileName, "00-") || strings.HasPrefix(fileName, "9999-") || strings.HasPrefix(fileName, "zzz-") {
		return true
	}
	for _, keyword := range creditKeywords {
		if strings.Contains(fileName, keyword) {
			return true
		}
	}
	// "shinigami" in the filename is a group watermark; in the URL it is
	// only allowed as part of the shngm.id CDN domain.
	if strings.Contains(fileName, "shinigami") {
		return true
	}
	if strings.Contains(fullURL, "shinigami") && !strings.Contains(fullURL, "shngm.id") {
		return true
	}
	return false
}

func filterCreditImages(images []string) []string {
	filtered := make([]string, 0, len(images))
	for _, img := range images {
		if !isCreditImage(img) {
			filtered = append(filtered, img)
		}
	}
	return filtered
}
