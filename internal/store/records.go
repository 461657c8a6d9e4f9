package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContactMessage is a stored contact form submission.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Budget    string    `json:"budget,omitempty"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveContactMessage inserts m, assigning an id when empty, and returns the id.
func (db *DB) SaveContactMessage(ctx context.Context, m ContactMessage) (string, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := db.sql.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, message, budget, delivered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Email, m.Phone, m.Message, m.Budget, m.Delivered, m.CreatedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("save contact message: %w", err)
	}
	return m.ID, nil
}

// MarkDelivered flags a message as relayed to the owner's inbox.
func (db *DB) MarkDelivered(ctx context.Context, id string) error {
	_, err := db.sql.ExecContext(ctx, `UPDATE contact_messages SET delivered = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}

// RecentMessages returns the latest contact messages, newest first.
func (db *DB) RecentMessages(ctx context.Context, limit int) ([]ContactMessage, error) {
	rows, err := db.sql.QueryContext(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), message, COALESCE(budget, ''), delivered, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []ContactMessage
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Budget, &m.Delivered, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// QuoteRecord is a checked-out quote.
type QuoteRecord struct {
	ID        string    `json:"id"`
	PlanID    int       `json:"planId"`
	PlanName  string    `json:"planName"`
	AddOns    []string  `json:"addOns"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// SaveQuote inserts q and returns it with id and timestamp filled in.
func (db *DB) SaveQuote(ctx context.Context, q QuoteRecord) (QuoteRecord, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	if q.AddOns == nil {
		q.AddOns = []string{}
	}
	addOns, err := json.Marshal(q.AddOns)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("encode add-ons: %w", err)
	}

	_, err = db.sql.ExecContext(ctx, `
		INSERT INTO quotes (id, plan_id, plan_name, add_ons, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, q.ID, q.PlanID, q.PlanName, string(addOns), q.Total, q.CreatedAt)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("save quote: %w", err)
	}
	return q, nil
}

// Stats summarizes site activity for the admin dashboard.
type Stats struct {
	TotalVisitors    int64 `json:"total_visitors"`
	UniqueVisitors   int64 `json:"unique_visitors"`
	VisitorsToday    int64 `json:"visitors_today"`
	VisitorsThisWeek int64 `json:"visitors_this_week"`
	TotalMessages    int64 `json:"total_messages"`
	Undelivered      int64 `json:"undelivered_messages"`
	TotalQuotes      int64 `json:"total_quotes"`
	QuotedValue      int64 `json:"quoted_value"`
}

// Stats computes dashboard counters relative to now.
func (db *DB) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	s := &Stats{}
	queries := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&s.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&s.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&s.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{startOfDay}},
		{&s.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{weekAgo}},
		{&s.TotalMessages, `SELECT COUNT(*) FROM contact_messages`, nil},
		{&s.Undelivered, `SELECT COUNT(*) FROM contact_messages WHERE delivered = 0`, nil},
		{&s.TotalQuotes, `SELECT COUNT(*) FROM quotes`, nil},
		{&s.QuotedValue, `SELECT COALESCE(SUM(total), 0) FROM quotes`, nil},
	}
	for _, q := range queries {
		if err := db.sql.QueryRowContext(ctx, q.query, q.args...).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}
	return s, nil
}
