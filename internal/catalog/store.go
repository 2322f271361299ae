package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/netctx/internal/model"
	"github.com/nao1215/netctx/internal/resolver"
)

// DatabaseFile is the name of the SQLite file inside the database directory.
const DatabaseFile = "netctx.db"

// Store keeps packages and launch-URL history in SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the store in dbDir.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, DatabaseFile)

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createTables() error {
	schema := `
	-- One row per package; position keeps catalog order
	CREATE TABLE IF NOT EXISTS packages (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		version TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL,
		status TEXT NOT NULL,
		interfaces TEXT NOT NULL,
		installed TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_packages_position ON packages(position);

	-- Launch URLs computed for a package over time
	CREATE TABLE IF NOT EXISTS resolutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		package_id TEXT NOT NULL,
		session TEXT NOT NULL,
		launchable INTEGER NOT NULL,
		launch_url TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_resolutions_package ON resolutions(package_id);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SavePackage inserts or updates pkg. New packages are appended after the
// last known position; updates keep their position.
func (s *Store) SavePackage(ctx context.Context, pkg *model.PackageRecord) error {
	if err := pkg.Validate(); err != nil {
		return err
	}

	var next int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM packages").Scan(&next); err != nil {
		return fmt.Errorf("failed to compute package position: %w", err)
	}
	return upsertPackage(ctx, s.db, pkg, next)
}

func upsertPackage(ctx context.Context, ex execer, pkg *model.PackageRecord, position int) error {
	interfacesJSON, err := json.Marshal(pkg.Interfaces)
	if err != nil {
		return fmt.Errorf("failed to serialize interfaces: %w", err)
	}

	// A nil table is stored as NULL so it reads back as missing.
	var installed sql.NullString
	if pkg.Installed != nil {
		tableJSON, err := json.Marshal(pkg.Installed)
		if err != nil {
			return fmt.Errorf("failed to serialize address table: %w", err)
		}
		installed = sql.NullString{String: string(tableJSON), Valid: true}
	}

	query := `
	INSERT INTO packages (id, position, title, version, state, status, interfaces, installed)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		version = excluded.version,
		state = excluded.state,
		status = excluded.status,
		interfaces = excluded.interfaces,
		installed = excluded.installed,
		updated_at = CURRENT_TIMESTAMP
	`
	_, err = ex.ExecContext(ctx, query,
		pkg.ID,
		position,
		pkg.Title,
		pkg.Version,
		string(pkg.State),
		string(pkg.Status),
		string(interfacesJSON),
		installed,
	)
	if err != nil {
		return fmt.Errorf("failed to save package %s: %w", pkg.ID, err)
	}
	return nil
}

const packageColumns = "id, title, version, state, status, interfaces, installed"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(row rowScanner) (model.PackageRecord, error) {
	var (
		pkg            model.PackageRecord
		state, status  string
		interfacesJSON string
		installed      sql.NullString
	)
	if err := row.Scan(&pkg.ID, &pkg.Title, &pkg.Version, &state, &status, &interfacesJSON, &installed); err != nil {
		return model.PackageRecord{}, err
	}
	pkg.State = model.PackageState(state)
	pkg.Status = model.MainStatus(status)

	if err := json.Unmarshal([]byte(interfacesJSON), &pkg.Interfaces); err != nil {
		return model.PackageRecord{}, fmt.Errorf("failed to parse interfaces of %s: %w", pkg.ID, err)
	}
	if installed.Valid {
		pkg.Installed = &model.InstalledAddressTable{}
		if err := json.Unmarshal([]byte(installed.String), pkg.Installed); err != nil {
			return model.PackageRecord{}, fmt.Errorf("failed to parse address table of %s: %w", pkg.ID, err)
		}
	}
	return pkg, nil
}

// GetPackage returns the package with id, or ErrPackageNotFound.
func (s *Store) GetPackage(ctx context.Context, id string) (*model.PackageRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+packageColumns+" FROM packages WHERE id = ?", id)
	pkg, err := scanPackage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrPackageNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return &pkg, nil
}

// ListPackages returns every package in catalog order.
func (s *Store) ListPackages(ctx context.Context) ([]model.PackageRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+packageColumns+" FROM packages ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	var pkgs []model.PackageRecord
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, rows.Err()
}

// DeletePackage removes the package with id and its history.
func (s *Store) DeletePackage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM packages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrPackageNotFound, id)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM resolutions WHERE package_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

// ImportCatalog replaces all packages with pkgs in one transaction.
// History is kept. On error the previous packages are left untouched.
func (s *Store) ImportCatalog(ctx context.Context, pkgs []model.PackageRecord) (err error) {
	for i := range pkgs {
		if err := pkgs[i].Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // the original error is more useful
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM packages"); err != nil {
		return fmt.Errorf("failed to clear packages: %w", err)
	}
	for i := range pkgs {
		if err = upsertPackage(ctx, tx, &pkgs[i], i); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog import: %w", err)
	}
	return nil
}

// HistoryEntry is one stored resolution of a package.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	PackageID  string    `json:"packageId"`
	Session    string    `json:"session"`
	Launchable bool      `json:"launchable"`
	LaunchURL  string    `json:"launchUrl,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RecordResolution appends res to the history of its package.
// session is the session kind the resolution was computed for.
func (s *Store) RecordResolution(ctx context.Context, session string, res resolver.Resolution) error {
	query := `
	INSERT INTO resolutions (package_id, session, launchable, launch_url, error)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, res.PackageID, session, res.Launchable, res.LaunchURL, res.Error)
	if err != nil {
		return fmt.Errorf("failed to record resolution: %w", err)
	}
	return nil
}

// ResolutionHistory returns the stored resolutions of packageID, newest first.
// limit <= 0 returns all of them.
func (s *Store) ResolutionHistory(ctx context.Context, packageID string, limit int) ([]HistoryEntry, error) {
	query := `
	SELECT id, package_id, session, launchable, launch_url, error, timestamp
	FROM resolutions
	WHERE package_id = ?
	ORDER BY timestamp DESC, id DESC
	`
	args := []any{packageID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			e         HistoryEntry
			timestamp string
		)
		if err := rows.Scan(&e.ID, &e.PackageID, &e.Session, &e.Launchable, &e.LaunchURL, &e.Error, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Timestamp = parseTimestamp(timestamp)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// timestampFormats are the formats SQLite may return for DATETIME columns.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
