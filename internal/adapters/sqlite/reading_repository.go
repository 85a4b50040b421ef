package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
)

// Supported database/sql driver names
const (
	// DriverCGO is github.com/mattn/go-sqlite3
	DriverCGO = "sqlite3"
	// DriverPure is modernc.org/sqlite, usable with CGO_ENABLED=0
	DriverPure = "sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS distance_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sensor_id TEXT NOT NULL,
		distance_m REAL NOT NULL,
		status INTEGER NOT NULL,
		quality_pct INTEGER,
		timestamp_ms INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_distance_readings_ts ON distance_readings(timestamp_ms)`,
}

const selectColumns = `SELECT id, sensor_id, distance_m, status, quality_pct, timestamp_ms FROM distance_readings`

// ReadingRepository implements domain.ReadingRepository with SQLite
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository opens dbPath with the given driver and creates the schema
func NewReadingRepository(driver, dbPath string) (*ReadingRepository, error) {
	if driver != DriverCGO && driver != DriverPure {
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}

	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &ReadingRepository{db: db}, nil
}

// SaveReading stores a snapshot in SQLite
func (r *ReadingRepository) SaveReading(ctx context.Context, reading *domain.DistanceReading) error {
	query := `INSERT INTO distance_readings (sensor_id, distance_m, status, quality_pct, timestamp_ms) VALUES (?, ?, ?, ?, ?)`

	var quality sql.NullInt16
	if pct, ok := reading.Quality.Percent(); ok {
		quality = sql.NullInt16{Int16: int16(pct), Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		reading.SensorID,
		reading.DistanceM,
		int64(reading.Status),
		quality,
		reading.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert id: %w", err)
	}

	reading.ID = id
	return nil
}

// GetReading retrieves a snapshot by ID
func (r *ReadingRepository) GetReading(ctx context.Context, id int64) (*domain.DistanceReading, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	reading, err := scanReading(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reading: %w", err)
	}

	return reading, nil
}

// GetReadingsInRange returns all snapshots in [start, end)
func (r *ReadingRepository) GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*domain.DistanceReading, error) {
	query := selectColumns + `
		WHERE timestamp_ms >= ? AND timestamp_ms < ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := r.db.QueryContext(ctx, query, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []*domain.DistanceReading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// GetLatestReading returns the most recent snapshot
func (r *ReadingRepository) GetLatestReading(ctx context.Context) (*domain.DistanceReading, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` ORDER BY timestamp_ms DESC, id DESC LIMIT 1`)

	reading, err := scanReading(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}

	return reading, nil
}

// DeleteOldReadings removes snapshots older than specified duration
func (r *ReadingRepository) DeleteOldReadings(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)

	_, err := r.db.ExecContext(ctx, `DELETE FROM distance_readings WHERE timestamp_ms < ?`, cutoff.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to delete old readings: %w", err)
	}

	return nil
}

// Close closes the database connection
func (r *ReadingRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (*domain.DistanceReading, error) {
	var (
		reading     domain.DistanceReading
		status      int64
		quality     sql.NullInt16
		timestampMs int64
	)

	if err := row.Scan(&reading.ID, &reading.SensorID, &reading.DistanceM, &status, &quality, &timestampMs); err != nil {
		return nil, err
	}

	reading.Status = domain.Status(status)
	reading.Timestamp = time.UnixMilli(timestampMs)
	if quality.Valid {
		reading.Quality = domain.NewQuality(float64(quality.Int16))
	}

	return &reading, nil
}
