package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// FileName is the SQLite file created under the data directory.
const FileName = "diagnoses.db"

// Prepared statement names.
const (
	stmtInsertDiagnosis = "insert_diagnosis"
	stmtGetDiagnosis    = "get_diagnosis"
	stmtListRecent      = "list_recent"
	stmtCountByGrade    = "count_by_grade"
	stmtDeleteDiagnosis = "delete_diagnosis"
	stmtDeleteBefore    = "delete_before"
	stmtIndustryStats   = "industry_stats"
)

// DB represents the database connection with pooling
type DB struct {
	*sql.DB
	pool     *ConnectionPool
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// ConnectionPool manages database connection pooling
type ConnectionPool struct {
	db           *sql.DB
	maxOpenConns int
	maxIdleConns int
	maxLifetime  time.Duration
}

// NewConnectionPool creates a new database connection pool
func NewConnectionPool(db *sql.DB, maxOpen, maxIdle int, maxLifetime time.Duration) *ConnectionPool {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return &ConnectionPool{
		db:           db,
		maxOpenConns: maxOpen,
		maxIdleConns: maxIdle,
		maxLifetime:  maxLifetime,
	}
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	stats := cp.db.Stats()

	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": cp.maxOpenConns,
		"max_idle_connections": cp.maxIdleConns,
		"max_lifetime_seconds": cp.maxLifetime.Seconds(),
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// NewDB opens (creating if needed) the diagnosis database under dataDir.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, FileName)
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite serializes writers; a small pool avoids busy errors under WAL.
	pool := NewConnectionPool(db, 8, 4, 5*time.Minute)

	database := &DB{
		DB:       db,
		pool:     pool,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := database.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.initPreparedStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Database initialized",
		"path", dbPath,
		"max_open_conns", pool.maxOpenConns,
		"max_idle_conns", pool.maxIdleConns)

	return database, nil
}

func (db *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS diagnoses (
			id TEXT PRIMARY KEY,
			company_name TEXT NOT NULL,
			industry TEXT NOT NULL,
			catalog_variant TEXT NOT NULL,
			percentage INTEGER NOT NULL,
			grade TEXT NOT NULL,
			quality_score REAL NOT NULL,
			payload TEXT NOT NULL, -- full diagnosis JSON
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_diagnoses_created ON diagnoses(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_diagnoses_industry ON diagnoses(industry)`,
		`CREATE INDEX IF NOT EXISTS idx_diagnoses_grade ON diagnoses(grade)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

func (db *DB) initPreparedStatements() error {
	statements := map[string]string{
		stmtInsertDiagnosis: `INSERT INTO diagnoses (
			id, company_name, industry, catalog_variant, percentage, grade, quality_score, payload, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			percentage = excluded.percentage,
			grade = excluded.grade,
			quality_score = excluded.quality_score,
			payload = excluded.payload`,

		stmtGetDiagnosis: `SELECT id, company_name, industry, catalog_variant, percentage, grade, quality_score, payload, created_at
			FROM diagnoses WHERE id = ?`,

		stmtListRecent: `SELECT id, company_name, industry, catalog_variant, percentage, grade, quality_score, created_at
			FROM diagnoses ORDER BY created_at DESC, id ASC LIMIT ?`,

		stmtCountByGrade: `SELECT grade, COUNT(*) FROM diagnoses GROUP BY grade`,

		stmtDeleteDiagnosis: `DELETE FROM diagnoses WHERE id = ?`,

		stmtDeleteBefore: `DELETE FROM diagnoses WHERE created_at < ?`,

		stmtIndustryStats: `SELECT industry, COUNT(*), AVG(percentage), AVG(quality_score), MAX(percentage), MIN(percentage)
			FROM diagnoses WHERE created_at >= ? GROUP BY industry`,
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, query := range statements {
		stmt, err := db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		db.prepared[name] = stmt

		slog.Debug("Prepared statement initialized", "name", name)
	}

	return nil
}

// GetPreparedStatement retrieves a prepared statement
func (db *DB) GetPreparedStatement(name string) (*sql.Stmt, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	stmt, exists := db.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}

	return stmt, nil
}

func (db *DB) GetPoolStats() map[string]interface{} {
	return db.pool.GetStats()
}

// Close closes the prepared statements and the connection.
func (db *DB) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, stmt := range db.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}
	db.prepared = make(map[string]*sql.Stmt)

	return db.DB.Close()
}
