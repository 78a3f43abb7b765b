package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/appmarket/appship/internal/common"
	"github.com/appmarket/appship/internal/dbx"
	"github.com/appmarket/appship/internal/filex"
	"github.com/appmarket/appship/internal/keystore/migrations"
)

// DefaultPath returns the standard keystore location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".appship", "appship.db"), nil
}

// Store persists credential profiles in a local SQLite database.
type Store struct {
	db *sql.DB
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open opens the keystore at path, creating the file and its directory when
// missing, and applies pending schema migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open keystore: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate keystore: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts a profile by name inside a transaction. A fresh id and
// creation time are assigned when missing; an existing row keeps both.
func (s *Store) Save(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `INSERT INTO profiles (id, name, issuer_id, key_id, private_key, encrypted, nonce, salt, verifier, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET issuer_id = excluded.issuer_id,
				key_id = excluded.key_id,
				private_key = excluded.private_key,
				encrypted = excluded.encrypted,
				nonce = excluded.nonce,
				salt = excluded.salt,
				verifier = excluded.verifier
		`
		_, err := tx.ExecContext(ctx, query,
			p.ID, p.Name, p.IssuerID, p.KeyID, p.Key, p.Encrypted,
			p.Nonce, p.Salt, p.Verifier, p.CreatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}
		return nil
	})
}

// Get returns the profile stored under name, private key included.
func (s *Store) Get(ctx context.Context, name string) (*Profile, error) {
	query := `SELECT id, name, issuer_id, key_id, private_key, encrypted, nonce, salt, verifier, created_at
		FROM profiles WHERE name = ?`
	row := s.db.QueryRowContext(ctx, query, name)

	p := &Profile{}
	var created string
	err := row.Scan(&p.ID, &p.Name, &p.IssuerID, &p.KeyID, &p.Key, &p.Encrypted,
		&p.Nonce, &p.Salt, &p.Verifier, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", name, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("failed to parse profile timestamp: %w", err)
	}
	return p, nil
}

// List returns all profiles ordered by name, with private key material
// omitted.
func (s *Store) List(ctx context.Context) ([]Profile, error) {
	query := `SELECT id, name, issuer_id, key_id, encrypted, created_at FROM profiles ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select profiles: %w", err)
	}
	defer rows.Close()

	var result []Profile
	for rows.Next() {
		var p Profile
		var created string
		if err := rows.Scan(&p.ID, &p.Name, &p.IssuerID, &p.KeyID, &p.Encrypted, &created); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("failed to parse profile timestamp: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the profile stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("profile %s: %w", name, common.ErrorNotFound)
	}
	return nil
}
