package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

const activeWindow = 5 * time.Minute

// statsWindow maps the dashboard's window selector to a duration.
func statsWindow(name string) time.Duration {
	switch name {
	case "7d":
		return 7 * 24 * time.Hour
	case "30d":
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// AdminDashboard handles GET /api/admin/dashboard: the headline numbers
// the panel shows on load.
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		respondError(w, http.StatusServiceUnavailable, "Analytics database not configured")
		return
	}
	ctx := r.Context()

	active, err := h.events.ActiveSessionCount(ctx, activeWindow)
	if err != nil {
		log.Printf("[admin] active sessions: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	pageviews, err := h.events.PageviewsSince(ctx, midnight)
	if err != nil {
		log.Printf("[admin] pageviews today: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	total, err := h.events.TotalEvents(ctx)
	if err != nil {
		log.Printf("[admin] total events: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	top, err := h.events.TopContent(ctx, 24*time.Hour, 5)
	if err != nil {
		log.Printf("[admin] top content: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"activeVisitors": active,
		"pageviewsToday": pageviews,
		"totalEvents":    total,
		"topContent":     top,
	})
}

// AdminWatchers handles GET /api/admin/watchers: who is on the site right
// now and what they are looking at.
func (h *Handler) AdminWatchers(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		respondError(w, http.StatusServiceUnavailable, "Analytics database not configured")
		return
	}
	sessions, err := h.events.ActiveSessions(r.Context(), activeWindow)
	if err != nil {
		log.Printf("[admin] watchers: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load watchers")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"watchers": sessions,
	})
}

// AdminStats handles GET /api/admin/stats?window=24h|7d|30d.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		respondError(w, http.StatusServiceUnavailable, "Analytics database not configured")
		return
	}
	ctx := r.Context()
	window := statsWindow(r.URL.Query().Get("window"))

	byDay, err := h.events.CountsByDay(ctx, window)
	if err != nil {
		log.Printf("[admin] counts by day: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	top, err := h.events.TopContent(ctx, window, 10)
	if err != nil {
		log.Printf("[admin] top content: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	byDevice, err := h.events.CountsByDevice(ctx, window)
	if err != nil {
		log.Printf("[admin] counts by device: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	byCountry, err := h.events.CountsByCountry(ctx, window)
	if err != nil {
		log.Printf("[admin] counts by country: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"window":     window.String(),
		"byDay":      byDay,
		"topContent": top,
		"byDevice":   byDevice,
		"byCountry":  byCountry,
	})
}

// AdminUsers handles GET /api/admin/users.
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	if h.users == nil {
		respondError(w, http.StatusServiceUnavailable, "User database not configured")
		return
	}
	users, err := h.users.List()
	if err != nil {
		log.Printf("[admin] list users: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AdminCreateUser handles POST /api/admin/users.
func (h *Handler) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	if h.users == nil {
		respondError(w, http.StatusServiceUnavailable, "User database not configured")
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username, email and password required")
		return
	}
	if req.Role == "" {
		req.Role = "admin"
	}

	id, err := h.users.Create(req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		log.Printf("[admin] create user: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       id,
		"username": req.Username,
		"email":    req.Email,
		"role":     req.Role,
	})
}
