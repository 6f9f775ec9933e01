package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"asset-catalog/internal/logging"
	"asset-catalog/internal/metrics"
)

// Default timeout for store operations
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned when no record exists for the requested path.
var ErrNotFound = errors.New("catalog: asset not found")

// Store manages the persistent asset catalog and its append-only event log.
// The underlying engine serializes writes; all mutation goes through the
// pipeline coordinator.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (or creates) the catalog database at dbPath. The parent
// directory must already exist and be writable.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	logging.Info("Catalog path: %s", dbPath)

	// WAL mode keeps readers unblocked while the coordinator writes;
	// busy_timeout prevents "database is locked" errors under load.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close catalog after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close catalog after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	logging.Info("Catalog initialized at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	schema := `
	-- One record per unique path; path is the upsert key.
	CREATE TABLE IF NOT EXISTS assets (
		path TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		mime_type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		fingerprint TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT 0,
		modified_at INTEGER NOT NULL DEFAULT 0,
		discovered_at INTEGER NOT NULL,
		processed_at INTEGER NOT NULL DEFAULT 0,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		thumbnail_path TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_assets_category ON assets(category);
	CREATE INDEX IF NOT EXISTS idx_assets_status ON assets(status);
	CREATE INDEX IF NOT EXISTS idx_assets_modified ON assets(modified_at);

	-- Append-only event log; rows are never updated or deleted.
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		path TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the catalog database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetAsset retrieves a single record by its identity key. Returns ErrNotFound
// when the path has never been cataloged.
func (s *Store) GetAsset(ctx context.Context, path string) (*Asset, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_asset", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
	SELECT path, category, mime_type, status, fingerprint, size,
	       created_at, modified_at, discovered_at, processed_at,
	       elapsed_ms, error, width, height, thumbnail_path
	FROM assets WHERE path = ?
	`, path)

	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// InsertAsset inserts a brand-new record. The caller has already established
// via GetAsset that no record exists for the path.
func (s *Store) InsertAsset(ctx context.Context, a *Asset) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("insert_asset", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO assets (path, category, mime_type, status, fingerprint, size,
	                    created_at, modified_at, discovered_at, processed_at,
	                    elapsed_ms, error, width, height, thumbnail_path)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.Path, a.Category, a.MimeType, a.Status, a.Fingerprint, a.Size,
		unixOrZero(a.CreatedAt), unixOrZero(a.ModifiedAt), a.DiscoveredAt.Unix(),
		unixOrZero(a.ProcessedAt), a.Elapsed.Milliseconds(), a.Error,
		a.Width, a.Height, a.ThumbnailPath,
	)
	return err
}

// UpdateAsset rewrites the mutable fields of an existing record in place.
// The identity key and the original discovery timestamp are never touched.
func (s *Store) UpdateAsset(ctx context.Context, a *Asset) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_asset", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
	UPDATE assets SET
		category = ?, mime_type = ?, status = ?, fingerprint = ?, size = ?,
		created_at = ?, modified_at = ?, processed_at = ?, elapsed_ms = ?,
		error = ?, width = ?, height = ?
	WHERE path = ?
	`,
		a.Category, a.MimeType, a.Status, a.Fingerprint, a.Size,
		unixOrZero(a.CreatedAt), unixOrZero(a.ModifiedAt), unixOrZero(a.ProcessedAt),
		a.Elapsed.Milliseconds(), a.Error, a.Width, a.Height,
		a.Path,
	)
	return err
}

// AppendEvent writes one immutable entry to the event log.
func (s *Store) AppendEvent(ctx context.Context, kind EventKind, path, message string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("append_event", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO events (kind, path, message, created_at) VALUES (?, ?, ?, ?)",
		kind, path, message, time.Now().Unix(),
	)
	if err == nil {
		metrics.EventsLogged.WithLabelValues(string(kind)).Inc()
	}
	return err
}

// UpdateConnectionMetrics refreshes the connection-pool gauge.
func (s *Store) UpdateConnectionMetrics() {
	metrics.DBConnectionsOpen.Set(float64(s.db.Stats().OpenConnections))
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (*Asset, error) {
	var a Asset
	var createdAt, modifiedAt, discoveredAt, processedAt, elapsedMs int64

	err := row.Scan(
		&a.Path, &a.Category, &a.MimeType, &a.Status, &a.Fingerprint, &a.Size,
		&createdAt, &modifiedAt, &discoveredAt, &processedAt,
		&elapsedMs, &a.Error, &a.Width, &a.Height, &a.ThumbnailPath,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = timeOrZero(createdAt)
	a.ModifiedAt = timeOrZero(modifiedAt)
	a.DiscoveredAt = time.Unix(discoveredAt, 0)
	a.ProcessedAt = timeOrZero(processedAt)
	a.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	a.ElapsedMillis = elapsedMs
	return &a, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// recordQuery records catalog store query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil && !errors.Is(err, ErrNotFound) {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
