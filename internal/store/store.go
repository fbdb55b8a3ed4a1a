// Package store persists products in a relational table.
//
// The default engine is an embedded SQLite file; PostgreSQL is supported
// through pgx for shared setups. Queries are written with '?' placeholders
// and rebound per engine by sqlx.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/inventory/internal/inventory"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DefaultTimeout bounds a single statement when Options.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateName = errors.New("product name already exists")
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Options selects and configures the database engine.
type Options struct {
	Driver  string // DriverSQLite or DriverPostgres
	Path    string // SQLite file
	URL     string // PostgreSQL connection string
	Timeout time.Duration
}

// Store is the single handle to the product table. It is created once per
// process and passed to every component that reads or writes products.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

// Open connects to the configured engine and verifies the connection.
// A missing SQLite file is created.
func Open(ctx context.Context, opts Options) (*Store, error) {
	var dsn string
	switch opts.Driver {
	case DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite database path is empty")
		}
		dsn = opts.Path
	case DriverPostgres:
		if opts.URL == "" {
			return nil, fmt.Errorf("postgres database URL is empty")
		}
		dsn = opts.URL
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One thread of control, one connection. SQLite also serializes writers.
	db.SetMaxOpenConns(1)

	s := New(db, opts.Timeout)

	pingCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return s, nil
}

// New wraps an already opened database.
func New(db *sqlx.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{db: db, timeout: timeout}
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DriverName reports the database/sql driver in use.
func (s *Store) DriverName() string {
	return s.db.DriverName()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS product (
	product_id       INTEGER PRIMARY KEY AUTOINCREMENT,
	product_name     VARCHAR(255) NOT NULL UNIQUE,
	product_price    INTEGER NOT NULL,
	product_quantity INTEGER NOT NULL,
	date_updated     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS product (
	product_id       BIGSERIAL PRIMARY KEY,
	product_name     VARCHAR(255) NOT NULL UNIQUE,
	product_price    BIGINT NOT NULL,
	product_quantity INTEGER NOT NULL,
	date_updated     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// EnsureSchema creates the product table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := sqliteSchema
	if s.db.DriverName() == DriverPostgres {
		ddl = postgresSchema
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create product table: %w", err)
	}
	return nil
}

const selectColumns = `SELECT product_id, product_name, product_price, product_quantity, date_updated FROM product`

// Create inserts p and returns it with its assigned id.
// Returns ErrDuplicateName when a product with the same name exists.
func (s *Store) Create(ctx context.Context, p inventory.Product) (inventory.Product, error) {
	query := s.db.Rebind(`INSERT INTO product (product_name, product_price, product_quantity, date_updated)
		VALUES (?, ?, ?, ?) RETURNING product_id`)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowxContext(ctx, query, p.Name, p.Price, p.Quantity, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return inventory.Product{}, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		return inventory.Product{}, fmt.Errorf("insert product %q: %w", p.Name, err)
	}
	return p, nil
}

// GetByName loads the product with the given name.
func (s *Store) GetByName(ctx context.Context, name string) (inventory.Product, error) {
	query := s.db.Rebind(selectColumns + ` WHERE product_name = ?`)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var p inventory.Product
	err := s.db.GetContext(ctx, &p, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Product{}, ErrNotFound
	}
	if err != nil {
		return inventory.Product{}, fmt.Errorf("get product %q: %w", name, err)
	}
	return p, nil
}

// Update overwrites the price, quantity and timestamp of the row with p.ID.
func (s *Store) Update(ctx context.Context, p inventory.Product) (inventory.Product, error) {
	query := s.db.Rebind(`UPDATE product
		SET product_name = ?, product_price = ?, product_quantity = ?, date_updated = ?
		WHERE product_id = ?`)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, query, p.Name, p.Price, p.Quantity, p.UpdatedAt, p.ID)
	if err != nil {
		return inventory.Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return inventory.Product{}, fmt.Errorf("update product %d rows affected: %w", p.ID, err)
	}
	if rowsAffected == 0 {
		return inventory.Product{}, ErrNotFound
	}
	return p, nil
}

// List returns products in ascending id order. A non-empty search keeps only
// rows whose id, written in decimal, contains search as a substring.
func (s *Store) List(ctx context.Context, search string) ([]inventory.Product, error) {
	query := selectColumns
	var args []any
	if search != "" {
		query += ` WHERE CAST(product_id AS TEXT) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query = s.db.Rebind(query + ` ORDER BY product_id ASC`)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var products []inventory.Product
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// All returns every product in ascending id order.
func (s *Store) All(ctx context.Context) ([]inventory.Product, error) {
	return s.List(ctx, "")
}

// Count returns the number of stored products.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM product`); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// isUniqueViolation reports whether err is a unique constraint failure from
// either engine.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE"))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
