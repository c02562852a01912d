package models

// ContentItem is the canonical list entry rendered by the frontend grid.
// Several fields carry both the English and Indonesian alias the frontend
// reads (id/urlId, title/judul, image/thumbnail_url) because different views
// were written against different upstream shapes.
type ContentItem struct {
	ID          string      `json:"id"`
	URLID       string      `json:"urlId,omitempty"`
	Title       string      `json:"title"`
	Judul       string      `json:"judul,omitempty"`
	Image       string      `json:"image,omitempty"`
	Thumbnail   string      `json:"thumbnail_url,omitempty"`
	Episode     interface{} `json:"episode,omitempty"`
	Rating      interface{} `json:"rating,omitempty"`
	ReleaseDate string      `json:"releaseDate,omitempty"`
	Type        string      `json:"type,omitempty"`
}

// Episode is one entry of an anime's episode list. Titles pass through
// untyped because the upstream emits numbers for plain episode numbers.
type Episode struct {
	ID           string      `json:"id"`
	ChapterURLID string      `json:"chapterUrlId"`
	Title        interface{} `json:"title"`
	Judul        interface{} `json:"judul"`
	ReleaseDate  string      `json:"releaseDate"`
	ReleasedOn   string      `json:"releasedOn"`
}

// AnimeDetail is the canonical anime detail shape.
type AnimeDetail struct {
	ID            string      `json:"id"`
	URLID         string      `json:"urlId"`
	Title         string      `json:"title"`
	Judul         string      `json:"judul"`
	Poster        string      `json:"poster"`
	Image         string      `json:"image"`
	Thumbnail     string      `json:"thumbnail_url"`
	Synopsis      string      `json:"synopsis"`
	Rating        interface{} `json:"rating"`
	Type          string      `json:"type"`
	Status        string      `json:"status"`
	ReleaseDate   string      `json:"releaseDate"`
	TotalEpisodes int         `json:"totalEpisodes"`
	Genres        string      `json:"genreList"`
	Episodes      []Episode   `json:"episodes"`
}

// KomikDetail is the canonical comic detail shape.
type KomikDetail struct {
	Title       string      `json:"title"`
	Judul       string      `json:"judul"`
	Description string      `json:"description"`
	Synopsis    string      `json:"synopsis"`
	Status      string      `json:"status"`
	Author      string      `json:"author"`
	Rating      interface{} `json:"rating"`
	Cover       string      `json:"cover"`
	Thumbnail   string      `json:"thumbnail"`
	Genres      []string    `json:"genres"`
}

// Chapter is one entry of a comic's chapter list.
type Chapter struct {
	ChapterID string      `json:"chapter_id"`
	Title     interface{} `json:"title"`
	Number    interface{} `json:"chapter_number"`
	Date      string      `json:"date"`
}

// StreamSource is a playable URL with a quality label.
type StreamSource struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

// ServerInfo identifies one upstream streaming server for an episode.
type ServerInfo struct {
	Quality  string `json:"quality"`
	Server   string `json:"server"`
	ServerID string `json:"serverId"`
}

// VideoData wraps the legacy stream-string format some players still parse.
type VideoData struct {
	Stream []string `json:"stream"`
}

// VideoResponse is the anime video resolution payload. Failures are soft:
// Error/Message are set and the slices stay empty, always with HTTP 200,
// so the player renders a message instead of a blank error page.
type VideoResponse struct {
	Data      []VideoData    `json:"data"`
	Sources   []StreamSource `json:"sources"`
	Subtitles []interface{}  `json:"subtitles"`
	Servers   []ServerInfo   `json:"servers,omitempty"`
	Error     string         `json:"error,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// SoftFailure builds an empty VideoResponse carrying an error code.
func SoftFailure(code, message string) *VideoResponse {
	return &VideoResponse{
		Data:      []VideoData{},
		Sources:   []StreamSource{},
		Subtitles: []interface{}{},
		Error:     code,
		Message:   message,
	}
}
