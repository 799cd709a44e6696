package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSink appends audit entries to a SQLite database. Writes commit
// before Append returns, which is what makes safety entries durable with
// respect to the verdict that produced them.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the audit database at dbPath.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping audit database: %w", err)
	}

	sink := &SQLiteSink{db: db}
	if err := sink.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize audit schema: %w", err)
	}
	return sink, nil
}

func (s *SQLiteSink) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS audit_entries (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		classification TEXT NOT NULL,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		trigger_type TEXT,
		escalation TEXT,
		involved_agents TEXT,
		veto_reason TEXT,
		message TEXT NOT NULL,
		response TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_session ON audit_entries(session_id);
	CREATE INDEX IF NOT EXISTS idx_audit_kind_created ON audit_entries(kind, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

// Append writes one immutable entry.
func (s *SQLiteSink) Append(ctx context.Context, entry Entry) error {
	involved, err := json.Marshal(entry.InvolvedAgents)
	if err != nil {
		return fmt.Errorf("encode involved agents: %w", err)
	}

	query := `
		INSERT INTO audit_entries
			(id, kind, classification, session_id, user_id, trigger_type,
			 escalation, involved_agents, veto_reason, message, response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		entry.ID, string(entry.Kind), string(entry.Classification),
		entry.SessionID, entry.UserID, string(entry.TriggerType),
		string(entry.Escalation), string(involved), entry.VetoReason,
		entry.Message, entry.Response, entry.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// CountByKind reports how many entries of a kind exist, for operational
// checks and tests.
func (s *SQLiteSink) CountByKind(ctx context.Context, kind Kind) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_entries WHERE kind = ?`, string(kind)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
