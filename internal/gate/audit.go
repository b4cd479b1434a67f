package gate

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// AuditLog records every gate decision in an SQLite database so a
// session's side-effect approvals can be reviewed after the fact.
type AuditLog struct {
	conn *sql.DB
	mu   sync.Mutex
}

// DefaultAuditPath returns the default audit database location under
// XDG_DATA_HOME.
func DefaultAuditPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "cascade", "audit.db")
}

// OpenAuditLog opens (creating if needed) the audit database at path.
// WAL mode is enabled for concurrent reads.
func OpenAuditLog(path string) (*AuditLog, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS gate_decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		target TEXT NOT NULL,
		allowed INTEGER NOT NULL,
		decided_by TEXT NOT NULL,
		decided_at TEXT NOT NULL
	)`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}

	return &AuditLog{conn: conn}, nil
}

// Record appends one gate decision.
func (a *AuditLog) Record(action, target string, allowed bool, decidedBy string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.conn.Exec(
		"INSERT INTO gate_decisions (action, target, allowed, decided_by, decided_at) VALUES (?, ?, ?, ?, ?)",
		action, target, boolToInt(allowed), decidedBy, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record gate decision: %w", err)
	}
	return nil
}

// Decision is one row of the audit trail.
type Decision struct {
	Action    string
	Target    string
	Allowed   bool
	DecidedBy string
	DecidedAt time.Time
}

// Recent returns the newest decisions, most recent first.
func (a *AuditLog) Recent(limit int) ([]Decision, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows, err := a.conn.Query(
		"SELECT action, target, allowed, decided_by, decided_at FROM gate_decisions ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query gate decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var d Decision
		var allowed int
		var decidedAt string
		if err := rows.Scan(&d.Action, &d.Target, &allowed, &d.DecidedBy, &decidedAt); err != nil {
			return nil, fmt.Errorf("scan gate decision: %w", err)
		}
		d.Allowed = allowed != 0
		d.DecidedAt, _ = time.Parse(time.RFC3339, decidedAt)
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// Close closes the underlying database.
func (a *AuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
