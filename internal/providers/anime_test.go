package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimeSearchNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "naruto", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(`{"data":[{"animeId":"x1","title":"Naruto","poster":"http://p/1.jpg","tvInfo":{"sub":12}}]}`))
	}))
	defer srv.Close()

	client := NewAnimeClient(srv.URL)
	items, err := client.Search(context.Background(), "naruto", "")
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "x1", item.ID)
	assert.Equal(t, "x1", item.URLID)
	assert.Equal(t, "Naruto", item.Title)
	assert.Equal(t, "Naruto", item.Judul)
	assert.Equal(t, "http://p/1.jpg", item.Image)
	assert.Equal(t, "http://p/1.jpg", item.Thumbnail)
	assert.EqualValues(t, 12, item.Episode)
	assert.Equal(t, "TV", item.Type)
	assert.Equal(t, "?", item.Rating)
}

func TestAnimeLatestUsesNestedAnimeList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recent", r.URL.Path)
		w.Write([]byte(`{"data":{"animeList":[{"animeId":"a1","title":"One Piece","poster":"http://p/op.jpg","releasedOn":"today"}]}}`))
	}))
	defer srv.Close()

	items, err := NewAnimeClient(srv.URL).Latest(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, "Latest", items[0].Episode)
	assert.Equal(t, "Anime", items[0].Type)
	assert.Equal(t, "today", items[0].ReleaseDate)
}

func TestAnimeListUpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAnimeClient(srv.URL).Search(context.Background(), "naruto", "")
	assert.Error(t, err)
}

func TestAnimeDetailMapsEpisodesAndSynopsis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/anime/one-piece", r.URL.Path)
		w.Write([]byte(`{"data":{
			"animeId":"one-piece",
			"title":"One Piece",
			"poster":"http://p/op.jpg",
			"synopsis":{"paragraphs":["Para 1","Para 2"]},
			"genreList":[{"title":"Action"},{"title":"Adventure"}],
			"episodeList":[
				{"episodeId":"ep-1","title":1,"releaseDate":"2020-01-01"},
				{"episodeId":"ep-2","title":2,"releaseDate":"2020-01-08"}
			]
		}}`))
	}))
	defer srv.Close()

	detail, err := NewAnimeClient(srv.URL).Detail(context.Background(), "one-piece")
	require.NoError(t, err)

	assert.Equal(t, "one-piece", detail.ID)
	assert.Equal(t, "Para 1\n\nPara 2", detail.Synopsis)
	assert.Equal(t, "Action, Adventure", detail.Genres)
	assert.Equal(t, 2, detail.TotalEpisodes)
	require.Len(t, detail.Episodes, 2)
	assert.Equal(t, "ep-1", detail.Episodes[0].ID)
	assert.Equal(t, "ep-1", detail.Episodes[0].ChapterURLID)
	assert.EqualValues(t, 1, detail.Episodes[0].Title)
	assert.Equal(t, "TV", detail.Type)
	assert.Equal(t, "Unknown", detail.Status)
}

func TestAnimeDetailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	_, err := NewAnimeClient(srv.URL).Detail(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveVideoPrefersResolvedServerURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/episode/ep-1":
			w.Write([]byte(`{"data":{
				"defaultStreamingUrl":"http://stream/default.m3u8",
				"server":{"qualities":[
					{"title":"720p","serverList":[{"title":"Alpha","serverId":"srv-1"}]},
					{"title":"480p","serverList":[{"title":"Beta","serverId":"srv-2"}]}
				]}
			}}`))
		case "/server/srv-1":
			w.Write([]byte(`{"data":{"url":"http://stream/resolved.m3u8"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	resp := NewAnimeClient(srv.URL).ResolveVideo(context.Background(), "ep-1")
	assert.Empty(t, resp.Error)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "http://stream/resolved.m3u8", resp.Sources[0].URL)
	assert.Equal(t, "auto", resp.Sources[0].Quality)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, []string{"link=http://stream/resolved.m3u8;reso=auto"}, resp.Data[0].Stream)
	require.Len(t, resp.Servers, 2)
	assert.Equal(t, "720p", resp.Servers[0].Quality)
	assert.Equal(t, "srv-1", resp.Servers[0].ServerID)
}

func TestResolveVideoFallsBackToDefaultURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/episode/ep-1":
			w.Write([]byte(`{"data":{
				"defaultStreamingUrl":"http://stream/default.m3u8",
				"server":{"qualities":[{"title":"720p","serverList":[{"title":"Alpha","serverId":"srv-1"}]}]}
			}}`))
		default:
			// Server resolution fails; the default URL must win.
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	resp := NewAnimeClient(srv.URL).ResolveVideo(context.Background(), "ep-1")
	assert.Empty(t, resp.Error)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "http://stream/default.m3u8", resp.Sources[0].URL)
}

func TestResolveVideoSoftFailures(t *testing.T) {
	t.Run("missing episode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":null}`))
		}))
		defer srv.Close()

		resp := NewAnimeClient(srv.URL).ResolveVideo(context.Background(), "gone")
		assert.Equal(t, "streaming_unavailable", resp.Error)
		assert.Empty(t, resp.Sources)
		assert.NotNil(t, resp.Data)
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		resp := NewAnimeClient(srv.URL).ResolveVideo(context.Background(), "ep-1")
		assert.Equal(t, "server_error", resp.Error)
		assert.Empty(t, resp.Sources)
	})

	t.Run("no streaming url anywhere", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{}}`))
		}))
		defer srv.Close()

		resp := NewAnimeClient(srv.URL).ResolveVideo(context.Background(), "ep-1")
		assert.Equal(t, "streaming_unavailable", resp.Error)
	})
}
