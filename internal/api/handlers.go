package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rizkan1982/dado-stream/internal/analytics"
	"github.com/rizkan1982/dado-stream/internal/auth"
	"github.com/rizkan1982/dado-stream/internal/config"
	"github.com/rizkan1982/dado-stream/internal/database"
	"github.com/rizkan1982/dado-stream/internal/providers"
)

// UserDirectory is the account lookup surface the handlers need. Nil means
// no database is configured and auth falls back to the configured admin
// credential pair.
type UserDirectory interface {
	GetByLogin(login string) (*database.User, error)
	StampLastLogin(userID int) error
	List() ([]database.User, error)
	Create(username, email, password, role string) (int, error)
}

// EventStore is the analytics persistence surface. Nil means tracking is
// acknowledged but not stored.
type EventStore interface {
	InsertEvent(ctx context.Context, ev *database.Event) error
	UpsertSession(ctx context.Context, sessionID, page, contentID string) error
	TouchSession(ctx context.Context, sessionID string) error
	ActiveSessionCount(ctx context.Context, window time.Duration) (int, error)
	ActiveSessions(ctx context.Context, window time.Duration) ([]database.Session, error)
	PageviewsSince(ctx context.Context, since time.Time) (int, error)
	TotalEvents(ctx context.Context) (int, error)
	CountsByDay(ctx context.Context, window time.Duration) ([]database.Bucket, error)
	TopContent(ctx context.Context, window time.Duration, limit int) ([]database.Bucket, error)
	CountsByDevice(ctx context.Context, window time.Duration) ([]database.Bucket, error)
	CountsByCountry(ctx context.Context, window time.Duration) ([]database.Bucket, error)
}

type Handler struct {
	cfg       *config.Config
	dramabox  *providers.DramaboxClient
	anime     *providers.AnimeClient
	komik     *providers.KomikClient
	tokens    *auth.Service
	users     UserDirectory
	events    EventStore
	collector *analytics.Collector
}

func NewHandler(
	cfg *config.Config,
	dramabox *providers.DramaboxClient,
	anime *providers.AnimeClient,
	komik *providers.KomikClient,
	tokens *auth.Service,
	users UserDirectory,
	events EventStore,
	collector *analytics.Collector,
) *Handler {
	return &Handler{
		cfg:       cfg,
		dramabox:  dramabox,
		anime:     anime,
		komik:     komik,
		tokens:    tokens,
		users:     users,
		events:    events,
		collector: collector,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HealthCheck handles GET /api/health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
