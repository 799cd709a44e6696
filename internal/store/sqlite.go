package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/edallison777/vitracka-sub001/internal/model/profile"
	"github.com/edallison777/vitracka-sub001/internal/model/safety"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Repository = (*SQLiteStore)(nil)

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		name TEXT,
		coaching_style TEXT,
		on_glp1 INTEGER NOT NULL DEFAULT 0,
		goal_type TEXT,
		gamification_preference TEXT,
		medical_flags TEXT,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS weight_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		weight_kg REAL NOT NULL,
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_weights_user ON weight_entries(user_id, recorded_at);

	CREATE TABLE IF NOT EXISTS breach_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		description TEXT NOT NULL,
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_breaches_user ON breach_records(user_id, recorded_at);

	CREATE TABLE IF NOT EXISTS eating_plans (
		user_id TEXT PRIMARY KEY,
		plan_text TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS safety_interventions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		trigger_type TEXT NOT NULL,
		escalation TEXT NOT NULL,
		matched_phrase TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interventions_user ON safety_interventions(user_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile snapshot by user id.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*profile.UserProfile, error) {
	query := `
		SELECT user_id, name, coaching_style, on_glp1, goal_type,
		       gamification_preference, medical_flags, updated_at
		FROM profiles WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var p profile.UserProfile
	var name, style, goal, pref, flags sql.NullString
	var onGLP1 int
	var updatedAt int64

	err := row.Scan(&p.UserID, &name, &style, &onGLP1, &goal, &pref, &flags, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile row: %w", err)
	}

	p.Name = name.String
	p.CoachingStyle = profile.CoachingStyle(style.String)
	p.OnGLP1 = onGLP1 != 0
	p.GoalType = profile.GoalType(goal.String)
	p.GamificationPreference = pref.String
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if flags.String != "" {
		if err := json.Unmarshal([]byte(flags.String), &p.MedicalFlags); err != nil {
			return nil, fmt.Errorf("decode medical flags: %w", err)
		}
	}
	return &p, nil
}

// UpsertProfile creates or replaces a profile.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, p *profile.UserProfile) error {
	flags, err := json.Marshal(p.MedicalFlags)
	if err != nil {
		return fmt.Errorf("encode medical flags: %w", err)
	}

	onGLP1 := 0
	if p.OnGLP1 {
		onGLP1 = 1
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO profiles
			(user_id, name, coaching_style, on_glp1, goal_type,
			 gamification_preference, medical_flags, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			coaching_style = excluded.coaching_style,
			on_glp1 = excluded.on_glp1,
			goal_type = excluded.goal_type,
			gamification_preference = excluded.gamification_preference,
			medical_flags = excluded.medical_flags,
			updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		p.UserID, p.Name, string(p.CoachingStyle), onGLP1, string(p.GoalType),
		p.GamificationPreference, string(flags), updatedAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// AppendWeight appends one weigh-in.
func (s *SQLiteStore) AppendWeight(ctx context.Context, entry profile.WeightEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weight_entries (id, user_id, weight_kg, recorded_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.WeightKg, recordedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert weight entry: %w", err)
	}
	return nil
}

// AppendBreach appends one plan-breach record.
func (s *SQLiteStore) AppendBreach(ctx context.Context, rec profile.BreachRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO breach_records (id, user_id, description, recorded_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Description, recordedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert breach record: %w", err)
	}
	return nil
}

// SaveEatingPlan replaces the user's current plan.
func (s *SQLiteStore) SaveEatingPlan(ctx context.Context, plan profile.EatingPlan) error {
	updatedAt := plan.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO eating_plans (user_id, plan_text, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			plan_text = excluded.plan_text,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query, plan.UserID, plan.PlanText, updatedAt.Unix())
	if err != nil {
		return fmt.Errorf("save eating plan: %w", err)
	}
	return nil
}

// GetEatingPlan retrieves the current plan, nil when absent.
func (s *SQLiteStore) GetEatingPlan(ctx context.Context, userID string) (*profile.EatingPlan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, plan_text, updated_at FROM eating_plans WHERE user_id = ?`, userID)

	var plan profile.EatingPlan
	var updatedAt int64
	err := row.Scan(&plan.UserID, &plan.PlanText, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan eating plan row: %w", err)
	}
	plan.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &plan, nil
}

// RecordIntervention persists a safety intervention synchronously.
func (s *SQLiteStore) RecordIntervention(ctx context.Context, rec safety.InterventionRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO safety_interventions
			(id, user_id, trigger_type, escalation, matched_phrase, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.UserID, string(rec.TriggerType), string(rec.Escalation),
		rec.MatchedPhrase, rec.Message, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("insert safety intervention: %w", err)
	}
	return nil
}

// CountInterventions reports how many interventions are recorded for a
// user, for tests and admin tooling.
func (s *SQLiteStore) CountInterventions(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM safety_interventions WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count interventions: %w", err)
	}
	return count, nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
