package history

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

const recordTimeout = 5 * time.Second

// Entry is a single recorded feedback request
type Entry struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Provider    string    `json:"provider"`
	Structured  bool      `json:"structured"`
	Degraded    bool      `json:"degraded"`
	PromptChars int       `json:"prompt_chars"`
	Score       *int      `json:"score,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
}

// Store persists feedback request history in PostgreSQL
type Store struct {
	db *sql.DB
}

// NewStore creates a new history store instance
func NewStore(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS feedback_history (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			provider TEXT NOT NULL,
			structured BOOLEAN NOT NULL,
			degraded BOOLEAN NOT NULL,
			prompt_chars INTEGER NOT NULL,
			score INTEGER,
			confidence REAL,
			summary TEXT,
			duration_ms BIGINT NOT NULL
		)
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record saves a feedback history entry
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO feedback_history (
			id, created_at, provider, structured, degraded,
			prompt_chars, score, confidence, summary, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.CreatedAt,
		entry.Provider,
		entry.Structured,
		entry.Degraded,
		entry.PromptChars,
		entry.Score,
		entry.Confidence,
		entry.Summary,
		entry.DurationMS,
	)

	if err != nil {
		return fmt.Errorf("failed to store history entry: %w", err)
	}

	return nil
}

// RecordAsync saves an entry in the background so request latency is
// never tied to the database
func (s *Store) RecordAsync(entry Entry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := s.Record(ctx, &entry); err != nil {
			log.Printf("Warning: failed to record history entry: %v", err)
		}
	}()
}

// Recent returns the most recent feedback entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	query := `
		SELECT id, created_at, provider, structured, degraded,
			prompt_chars, score, confidence, summary, duration_ms
		FROM feedback_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var score sql.NullInt64
		var confidence sql.NullFloat64
		var summary sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.CreatedAt,
			&e.Provider,
			&e.Structured,
			&e.Degraded,
			&e.PromptChars,
			&score,
			&confidence,
			&summary,
			&e.DurationMS,
		)
		if err != nil {
			log.Printf("Warning: failed to scan history row: %v", err)
			continue
		}

		if score.Valid {
			v := int(score.Int64)
			e.Score = &v
		}
		if confidence.Valid {
			v := confidence.Float64
			e.Confidence = &v
		}
		e.Summary = summary.String

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

// Stats returns aggregate statistics about recorded requests
func (s *Store) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total, degraded, structured int
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE degraded),
			COUNT(*) FILTER (WHERE structured)
		FROM feedback_history
	`
	err := s.db.QueryRowContext(ctx, query).Scan(&total, &degraded, &structured)
	if err != nil {
		return nil, fmt.Errorf("failed to get request counts: %w", err)
	}
	stats["total_requests"] = total
	stats["degraded_requests"] = degraded
	stats["structured_requests"] = structured

	var avgScore sql.NullFloat64
	err = s.db.QueryRowContext(ctx, "SELECT AVG(score) FROM feedback_history WHERE score IS NOT NULL").Scan(&avgScore)
	if err != nil {
		return nil, fmt.Errorf("failed to get average score: %w", err)
	}
	if avgScore.Valid {
		stats["average_score"] = avgScore.Float64
	}

	var avgDuration sql.NullFloat64
	err = s.db.QueryRowContext(ctx, "SELECT AVG(duration_ms) FROM feedback_history").Scan(&avgDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to get average duration: %w", err)
	}
	if avgDuration.Valid {
		stats["average_duration_ms"] = avgDuration.Float64
	}

	return stats, nil
}
