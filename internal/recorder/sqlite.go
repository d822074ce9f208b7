package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists evaluation history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while the bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			pass_id       TEXT NOT NULL,
			started_at    INTEGER NOT NULL,
			duration_ms   INTEGER,
			rules         INTEGER,
			notifications INTEGER,
			data_errors   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_passes_started ON passes(started_at)`,

		`CREATE TABLE IF NOT EXISTS evaluations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			pass_id       TEXT NOT NULL,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT,
			interval      TEXT,
			bars          INTEGER,
			notifications INTEGER,
			data_error    INTEGER,
			duration_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_pass ON evaluations(pass_id)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			pass_id      TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			identity_key TEXT,
			symbol       TEXT,
			interval     TEXT,
			indicator    TEXT,
			value        REAL,
			message      TEXT,
			delivered    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_key ON notifications(identity_key)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPass(rec *PassRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO passes
		(pass_id, started_at, duration_ms, rules, notifications, data_errors)
		VALUES (?,?,?,?,?,?)`,
		rec.ID, rec.StartedAt.Unix(), rec.Duration.Milliseconds(),
		rec.Rules, rec.Notifications, rec.DataErrors,
	)
	return err
}

func (r *SQLiteRecorder) RecordEvaluation(rec *EvaluationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO evaluations
		(pass_id, timestamp, symbol, interval, bars, notifications, data_error, duration_ms)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.PassID, time.Now().Unix(), rec.Symbol, rec.Interval,
		rec.Bars, rec.Notifications, boolToInt(rec.DataError), rec.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordNotification(rec *NotificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO notifications
		(pass_id, timestamp, identity_key, symbol, interval, indicator, value, message, delivered)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.PassID, time.Now().Unix(), rec.IdentityKey, rec.Symbol, rec.Interval,
		rec.Indicator, rec.Value, rec.Message, boolToInt(rec.Delivered),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
