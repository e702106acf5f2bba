package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"thermospline/internal/metrics"
	"thermospline/internal/series"
)

// DB represents the database connection
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection and initializes the schema
// dsn format: "username:password@tcp(host:port)/dbname?parseTime=true"
func NewDB(dsn string) (*DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	stmt := `CREATE TABLE IF NOT EXISTS samples (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		property VARCHAR(100) NOT NULL,
		source VARCHAR(255) NOT NULL DEFAULT '',
		ts DATETIME(3) NOT NULL,
		value DOUBLE NOT NULL,
		UNIQUE KEY uq_samples_property_ts (property, ts),
		INDEX idx_samples_ts (ts)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	if _, err := db.conn.Exec(stmt); err != nil {
		return fmt.Errorf("failed to execute schema statement: %w", err)
	}
	return nil
}

// StoreSamples archives a batch of samples in a single transaction.
// Re-archiving a (property, timestamp) pair overwrites the previous row.
func (db *DB) StoreSamples(samples series.Series) error {
	if len(samples) == 0 {
		return nil
	}

	queryStart := time.Now()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if committed

	stmt, err := tx.Prepare(`INSERT INTO samples (property, source, ts, value) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE source = VALUES(source), value = VALUES(value)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, smp := range samples {
		_, err = stmt.Exec(smp.Property, smp.Source, smp.Time.UTC(), smp.Value)
		if err != nil {
			return fmt.Errorf("failed to insert sample for %s at %s: %w",
				smp.Property, smp.Time.Format(series.TimeLayout), err)
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("INSERT", "samples", time.Since(queryStart), err)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSeries retrieves all samples of a property since the given time, oldest first.
func (db *DB) GetSeries(property string, since time.Time) (series.Series, error) {
	query := `SELECT property, source, ts, value FROM samples WHERE property = ? AND ts >= ? ORDER BY ts ASC`

	queryStart := time.Now()
	rows, err := db.conn.Query(query, property, since.UTC())
	metrics.RecordDBQuery("SELECT", "samples", time.Since(queryStart), err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out series.Series
	for rows.Next() {
		var smp series.Sample
		if err := rows.Scan(&smp.Property, &smp.Source, &smp.Time, &smp.Value); err != nil {
			return nil, err
		}
		out = append(out, smp)
	}

	return out, rows.Err()
}

// GetProperties returns all property names present in the archive.
func (db *DB) GetProperties() ([]string, error) {
	query := `SELECT DISTINCT property FROM samples ORDER BY property`

	queryStart := time.Now()
	rows, err := db.conn.Query(query)
	metrics.RecordDBQuery("SELECT", "samples", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var properties []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	return properties, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
