package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Ning0612/pcclean/internal/domain"
)

// DatabaseName is the history database file inside the state directory
const DatabaseName = "pcclean.db"

// Manager persists the history of cleanup runs
type Manager struct {
	db *sql.DB
}

// RunRecord is one stored cleanup run
type RunRecord struct {
	ID                int64
	StartTime         time.Time
	EndTime           time.Time
	Status            string // "success", "failed", "partial"
	Directory         string
	FilesMoved        int
	DuplicatesDeleted int
	TempFilesDeleted  int
	BytesFreed        int64
	PurgeDeclined     bool
	ErrorCount        int
	Error             string
}

// NewManager opens (creating if needed) the history database in dataDir
func NewManager(dataDir string) (*Manager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseName)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Limit connection pool to prevent "database is locked" errors
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode and busy timeout: %w", err)
	}

	manager := &Manager{db: db}

	if err := manager.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return manager, nil
}

func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		directory TEXT,
		files_moved INTEGER DEFAULT 0,
		duplicates_deleted INTEGER DEFAULT 0,
		temp_files_deleted INTEGER DEFAULT 0,
		bytes_freed INTEGER DEFAULT 0,
		purge_declined BOOLEAN DEFAULT 0,
		error_count INTEGER DEFAULT 0,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_start_time ON runs(start_time DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	_, err := m.db.Exec(schema)
	return err
}

// RecordRun stores a finished run and returns its id
func (m *Manager) RecordRun(summary domain.RunSummary) (int64, error) {
	query := `
		INSERT INTO runs (start_time, end_time, status, directory, files_moved,
			duplicates_deleted, temp_files_deleted, bytes_freed, purge_declined,
			error_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := m.db.Exec(query,
		summary.StartedAt,
		summary.FinishedAt,
		summary.Status(),
		summary.Directory,
		summary.FilesMoved,
		summary.DuplicatesDeleted,
		summary.TempFilesDeleted,
		summary.BytesFreed,
		summary.PurgeDeclined,
		len(summary.Errors),
		errorText(summary),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// RecentRuns returns up to limit runs, newest first
func (m *Manager) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT id, start_time, end_time, status, directory, files_moved,
			duplicates_deleted, temp_files_deleted, bytes_freed, purge_declined,
			error_count, error
		FROM runs
		ORDER BY start_time DESC, id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var directory, errText sql.NullString
		err := rows.Scan(
			&record.ID,
			&record.StartTime,
			&record.EndTime,
			&record.Status,
			&directory,
			&record.FilesMoved,
			&record.DuplicatesDeleted,
			&record.TempFilesDeleted,
			&record.BytesFreed,
			&record.PurgeDeclined,
			&record.ErrorCount,
			&errText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		record.Directory = directory.String
		record.Error = errText.String
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// LastSuccess returns the newest successful run, or nil if there is none
func (m *Manager) LastSuccess() (*RunRecord, error) {
	query := `
		SELECT id, start_time, end_time, status, files_moved, duplicates_deleted,
			temp_files_deleted, bytes_freed
		FROM runs
		WHERE status = 'success'
		ORDER BY start_time DESC, id DESC
		LIMIT 1
	`

	var record RunRecord
	err := m.db.QueryRow(query).Scan(
		&record.ID,
		&record.StartTime,
		&record.EndTime,
		&record.Status,
		&record.FilesMoved,
		&record.DuplicatesDeleted,
		&record.TempFilesDeleted,
		&record.BytesFreed,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query last success: %w", err)
	}

	return &record, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// errorText keeps the setup error, or the first item error, for display
func errorText(s domain.RunSummary) string {
	if s.SetupError != "" {
		return s.SetupError
	}
	if len(s.Errors) == 0 {
		return ""
	}
	msg := s.Errors[0].Error()
	if extra := len(s.Errors) - 1; extra > 0 {
		msg = fmt.Sprintf("%s (and %d more)", msg, extra)
	}
	return msg
}
