package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Event is one append-only analytics record.
type Event struct {
	ID           int64                  `json:"id"`
	EventType    string                 `json:"eventType"`
	Page         string                 `json:"page"`
	ContentID    string                 `json:"contentId,omitempty"`
	ContentTitle string                 `json:"contentTitle,omitempty"`
	SessionID    string                 `json:"sessionId,omitempty"`
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"userAgent,omitempty"`
	Browser      string                 `json:"browser,omitempty"`
	OS           string                 `json:"os,omitempty"`
	Device       string                 `json:"device,omitempty"`
	Country      string                 `json:"country,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// Session is a visitor heartbeat record, upserted on every track and
// heartbeat call. Expiry is implicit: dashboard queries only look at a
// trailing activity window, nothing is deleted.
type Session struct {
	SessionID    string    `json:"sessionId"`
	Page         string    `json:"page,omitempty"`
	ContentID    string    `json:"contentId,omitempty"`
	StartedAt    time.Time `json:"startedAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// Bucket is one row of a grouped aggregation.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// AnalyticsStore persists events and sessions.
type AnalyticsStore struct {
	db *sql.DB
}

// NewAnalyticsStore creates the store and its tables.
func NewAnalyticsStore(db *sql.DB) (*AnalyticsStore, error) {
	store := &AnalyticsStore{db: db}
	if err := store.initTables(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *AnalyticsStore) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS analytics_events (
			id BIGSERIAL PRIMARY KEY,
			event_type VARCHAR(50) NOT NULL,
			page TEXT,
			content_id TEXT,
			content_title TEXT,
			session_id TEXT,
			ip TEXT,
			user_agent TEXT,
			browser VARCHAR(100),
			os VARCHAR(100),
			device VARCHAR(50),
			country VARCHAR(10),
			metadata JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created ON analytics_events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_type ON analytics_events(event_type)`,
		`CREATE INDEX IF NOT EXISTS idx_events_content ON analytics_events(content_id)`,

		`CREATE TABLE IF NOT EXISTS analytics_sessions (
			session_id TEXT PRIMARY KEY,
			page TEXT,
			content_id TEXT,
			started_at TIMESTAMP NOT NULL DEFAULT NOW(),
			last_activity TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_activity ON analytics_sessions(last_activity)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// InsertEvent appends one event.
func (s *AnalyticsStore) InsertEvent(ctx context.Context, ev *Event) error {
	var metadata []byte
	if len(ev.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(ev.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analytics_events
			(event_type, page, content_id, content_title, session_id,
			 ip, user_agent, browser, os, device, country, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, ev.EventType, ev.Page, ev.ContentID, ev.ContentTitle, ev.SessionID,
		ev.IP, ev.UserAgent, ev.Browser, ev.OS, ev.Device, ev.Country, metadata)
	return err
}

// UpsertSession inserts or refreshes a session's activity and position.
// A single atomic upsert: no read-modify-write, no duplicate records.
func (s *AnalyticsStore) UpsertSession(ctx context.Context, sessionID, page, contentID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analytics_sessions (session_id, page, content_id, last_activity)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET
			page = COALESCE(NULLIF($2, ''), analytics_sessions.page),
			content_id = COALESCE(NULLIF($3, ''), analytics_sessions.content_id),
			last_activity = NOW()
	`, sessionID, page, contentID)
	return err
}

// TouchSession refreshes only a session's last-activity timestamp,
// creating the record when the id is unknown.
func (s *AnalyticsStore) TouchSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analytics_sessions (session_id, last_activity)
		VALUES ($1, NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET last_activity = NOW()
	`, sessionID)
	return err
}

// ActiveSessionCount counts sessions active within the trailing window.
func (s *AnalyticsStore) ActiveSessionCount(ctx context.Context, window time.Duration) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM analytics_sessions
		WHERE last_activity > NOW() - $1::interval
	`, interval(window)).Scan(&count)
	return count, err
}

// ActiveSessions lists sessions active within the trailing window.
func (s *AnalyticsStore) ActiveSessions(ctx context.Context, window time.Duration) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, COALESCE(page, ''), COALESCE(content_id, ''), started_at, last_activity
		FROM analytics_sessions
		WHERE last_activity > NOW() - $1::interval
		ORDER BY last_activity DESC
	`, interval(window))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.SessionID, &sess.Page, &sess.ContentID,
			&sess.StartedAt, &sess.LastActivity); err != nil {
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// PageviewsSince counts pageview events recorded at or after since.
func (s *AnalyticsStore) PageviewsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM analytics_events
		WHERE event_type = 'pageview' AND created_at >= $1
	`, since).Scan(&count)
	return count, err
}

// TotalEvents counts every recorded event.
func (s *AnalyticsStore) TotalEvents(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analytics_events").Scan(&count)
	return count, err
}

// CountsByDay groups events per day over the trailing window.
func (s *AnalyticsStore) CountsByDay(ctx context.Context, window time.Duration) ([]Bucket, error) {
	return s.buckets(ctx, `
		SELECT TO_CHAR(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM analytics_events
		WHERE created_at > NOW() - $1::interval
		GROUP BY day ORDER BY day
	`, interval(window))
}

// TopContent groups events per content item over the trailing window.
func (s *AnalyticsStore) TopContent(ctx context.Context, window time.Duration, limit int) ([]Bucket, error) {
	return s.buckets(ctx, `
		SELECT COALESCE(NULLIF(content_title, ''), content_id) AS content, COUNT(*)
		FROM analytics_events
		WHERE created_at > NOW() - $1::interval AND content_id <> ''
		GROUP BY content ORDER BY COUNT(*) DESC LIMIT $2
	`, interval(window), limit)
}

// CountsByDevice groups events per device class over the trailing window.
func (s *AnalyticsStore) CountsByDevice(ctx context.Context, window time.Duration) ([]Bucket, error) {
	return s.buckets(ctx, `
		SELECT COALESCE(NULLIF(device, ''), 'unknown'), COUNT(*)
		FROM analytics_events
		WHERE created_at > NOW() - $1::interval
		GROUP BY 1 ORDER BY COUNT(*) DESC
	`, interval(window))
}

// CountsByCountry groups events per country code over the trailing window.
func (s *AnalyticsStore) CountsByCountry(ctx context.Context, window time.Duration) ([]Bucket, error) {
	return s.buckets(ctx, `
		SELECT COALESCE(NULLIF(country, ''), 'unknown'), COUNT(*)
		FROM analytics_events
		WHERE created_at > NOW() - $1::interval
		GROUP BY 1 ORDER BY COUNT(*) DESC
	`, interval(window))
}

func (s *AnalyticsStore) buckets(ctx context.Context, query string, args ...interface{}) ([]Bucket, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Key, &b.Count); err != nil {
			continue
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// interval renders a duration as a Postgres interval literal.
func interval(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int(d.Seconds()))
}
