package providers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rizkan1982/dado-stream/internal/cache"
	"github.com/rizkan1982/dado-stream/internal/extract"
)

// DramaboxClient talks to the drama catalog API. The upstream answers the
// same endpoint with a raw array, {data: [...]} or {value: [...]} depending
// on deployment, so every list response goes through the fallback chain.
type DramaboxClient struct {
	BaseURL string
	Client  *http.Client
	lists   *cache.Cache
}

func NewDramaboxClient(baseURL string) *DramaboxClient {
	return &DramaboxClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
		lists: cache.New(5 * time.Minute),
	}
}

// List fetches one of the fixed feeds: latest, trending, vip, foryou.
func (d *DramaboxClient) List(ctx context.Context, feed string) ([]interface{}, error) {
	v, err := fetchJSONCached(ctx, d.Client, d.lists, d.BaseURL+"/dramabox/"+feed, nil)
	if err != nil {
		return nil, err
	}
	return extract.List(v, "data", "value"), nil
}

// DubIndo fetches the Indonesian-dub feed for a classify bucket.
func (d *DramaboxClient) DubIndo(ctx context.Context, classify string) ([]interface{}, error) {
	if classify == "" {
		classify = "terbaru"
	}
	params := url.Values{"classify": {classify}}
	v, err := fetchJSONCached(ctx, d.Client, d.lists, d.BaseURL+"/dramabox/dubindo", params)
	if err != nil {
		return nil, err
	}
	return extract.List(v, "data", "value"), nil
}

// Search queries the drama catalog.
func (d *DramaboxClient) Search(ctx context.Context, query string) ([]interface{}, error) {
	params := url.Values{"query": {query}}
	v, err := fetchJSON(ctx, d.Client, d.BaseURL+"/dramabox/search", params)
	if err != nil {
		return nil, err
	}
	return extract.List(v, "data", "value"), nil
}

// Detail fetches a single drama. The upstream wraps the object in data or
// returns it bare; both shapes pass through unmodified.
func (d *DramaboxClient) Detail(ctx context.Context, bookID string) (interface{}, error) {
	params := url.Values{"bookId": {bookID}}
	v, err := fetchJSON(ctx, d.Client, d.BaseURL+"/dramabox/detail", params)
	if err != nil {
		return nil, err
	}
	if inner := extract.Get(v, "data"); inner != nil {
		return inner, nil
	}
	return v, nil
}

// AllEpisodes fetches the full episode list for a drama. This endpoint
// answers with a raw array; data is only a fallback.
func (d *DramaboxClient) AllEpisodes(ctx context.Context, bookID string) ([]interface{}, error) {
	params := url.Values{"bookId": {bookID}}
	v, err := fetchJSON(ctx, d.Client, d.BaseURL+"/dramabox/allepisode", params)
	if err != nil {
		return nil, err
	}
	return extract.List(v, "data"), nil
}
