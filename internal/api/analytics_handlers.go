package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/rizkan1982/dado-stream/internal/database"
)

type trackRequest struct {
	EventType    string                 `json:"eventType"`
	Page         string                 `json:"page"`
	ContentID    string                 `json:"contentId"`
	ContentTitle string                 `json:"contentTitle"`
	SessionID    string                 `json:"sessionId"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// Track handles POST /api/analytics/track. Events are enriched server-side
// with request metadata; the client only names what happened and where.
// Without a database the call is acknowledged and dropped so the frontend
// never sees tracking errors.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.EventType == "" {
		respondError(w, http.StatusBadRequest, "eventType required")
		return
	}

	if h.events == nil {
		respondJSON(w, http.StatusOK, map[string]bool{"tracked": false})
		return
	}

	meta := h.collector.Describe(r)
	ev := &database.Event{
		EventType:    req.EventType,
		Page:         req.Page,
		ContentID:    req.ContentID,
		ContentTitle: req.ContentTitle,
		SessionID:    req.SessionID,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		Browser:      meta.Browser,
		OS:           meta.OS,
		Device:       meta.Device,
		Country:      meta.Country,
		Metadata:     req.Metadata,
	}
	if err := h.events.InsertEvent(r.Context(), ev); err != nil {
		log.Printf("[analytics] insert event: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to record event")
		return
	}
	if req.SessionID != "" {
		if err := h.events.UpsertSession(r.Context(), req.SessionID, req.Page, req.ContentID); err != nil {
			log.Printf("[analytics] upsert session: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{"tracked": true})
}

type heartbeatRequest struct {
	SessionID string `json:"sessionId"`
}

// Heartbeat handles POST /api/analytics/heartbeat, keeping a session
// counted as active while a page stays open.
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req heartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "sessionId required")
		return
	}

	if h.events == nil {
		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	if err := h.events.TouchSession(r.Context(), req.SessionID); err != nil {
		log.Printf("[analytics] touch session: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to record heartbeat")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
