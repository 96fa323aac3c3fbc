// Package store persists accounts and per-account rosters in a local
// SQLite database. This is the durability layer behind the history
// observer; the editor itself neither knows nor cares that it exists.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"rollgrid/internal/errors"
	"rollgrid/internal/model"
)

const dbFile = "rollgrid.db"

// Profile is the booth-level officer information attached to an account
// and stamped onto exports.
type Profile struct {
	LacNoName   string `json:"LAC NO & NAME"`
	PartNoName  string `json:"PART NO & NAME"`
	OfficerName string `json:"NAME OF THE BLO"`
	ContactNo   string `json:"CONTACT NO"`
}

// Account is a simulated local user.
type Account struct {
	ID             string
	Name           string
	Email          string
	PasswordDigest string
	Admin          bool
	Profile        Profile
	CreatedAt      int64
	UpdatedAt      int64
}

type DB struct {
	sql *sql.DB
}

// Open creates or opens the database under dir and applies the schema.
func Open(dir string) (*DB, error) {
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// single-process tool; serialize access instead of juggling busy errors
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error { return d.sql.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	admin      INTEGER NOT NULL DEFAULT 0,
	profile    TEXT NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS rosters (
	account_id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
	snapshot   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS session (
	slot       INTEGER PRIMARY KEY CHECK (slot = 1),
	account_id TEXT NOT NULL
);
`

// CreateAccount inserts a new account. Duplicate emails are rejected.
func (d *DB) CreateAccount(a Account) error {
	existing, err := d.AccountByEmail(a.Email)
	if err != nil {
		if e, ok := err.(*errors.Error); !ok || e.Code != errors.CodeNotFound {
			return err
		}
	}
	if existing != nil {
		return errors.NewNameExists(a.Email)
	}
	profile, err := json.Marshal(a.Profile)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	_, err = d.sql.Exec(
		`INSERT INTO accounts (id, name, email, password, admin, profile, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.PasswordDigest, boolInt(a.Admin), string(profile), now, now,
	)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// AccountByEmail looks an account up by its login identity.
func (d *DB) AccountByEmail(email string) (*Account, error) {
	return d.scanAccount(d.sql.QueryRow(
		`SELECT id, name, email, password, admin, profile, created_at, updated_at
		 FROM accounts WHERE email = ?`, email))
}

func (d *DB) AccountByID(id string) (*Account, error) {
	return d.scanAccount(d.sql.QueryRow(
		`SELECT id, name, email, password, admin, profile, created_at, updated_at
		 FROM accounts WHERE id = ?`, id))
}

// ListAccounts returns all accounts ordered by creation time.
func (d *DB) ListAccounts() ([]Account, error) {
	rows, err := d.sql.Query(
		`SELECT id, name, email, password, admin, profile, created_at, updated_at
		 FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// CountAccounts is used to grant the first sign-up admin rights.
func (d *DB) CountAccounts() (int, error) {
	var n int
	err := d.sql.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}

// UpdatePassword replaces an account's password digest.
func (d *DB) UpdatePassword(email, digest string) error {
	res, err := d.sql.Exec(
		`UPDATE accounts SET password = ?, updated_at = ? WHERE email = ?`,
		digest, time.Now().Unix(), email)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("account " + email)
	}
	return nil
}

// UpdateProfile replaces an account's name and booth profile.
func (d *DB) UpdateProfile(id, name string, p Profile) error {
	profile, err := json.Marshal(p)
	if err != nil {
		return err
	}
	res, err := d.sql.Exec(
		`UPDATE accounts SET name = ?, profile = ?, updated_at = ? WHERE id = ?`,
		name, string(profile), time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("account " + id)
	}
	return nil
}

// DeleteAccount removes an account and its roster.
func (d *DB) DeleteAccount(id string) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM rosters WHERE account_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("account " + id)
	}
	return tx.Commit()
}

// SaveRoster upserts the account's current snapshot. Called from the
// history observer on every cursor change.
func (d *DB) SaveRoster(accountID string, s model.Snapshot) error {
	blob, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = d.sql.Exec(
		`INSERT INTO rosters (account_id, snapshot, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(account_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		accountID, string(blob), time.Now().Unix())
	return err
}

// LoadRoster returns the persisted snapshot, or ok=false when the
// account has never saved one.
func (d *DB) LoadRoster(accountID string) (model.Snapshot, bool, error) {
	var blob string
	err := d.sql.QueryRow(`SELECT snapshot FROM rosters WHERE account_id = ?`, accountID).Scan(&blob)
	if err == sql.ErrNoRows {
		return model.Snapshot{}, false, nil
	}
	if err != nil {
		return model.Snapshot{}, false, err
	}
	var s model.Snapshot
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		return model.Snapshot{}, false, fmt.Errorf("corrupt roster snapshot: %w", err)
	}
	return s, true, nil
}

// SetSession records the active account, replacing any previous session.
func (d *DB) SetSession(accountID string) error {
	_, err := d.sql.Exec(
		`INSERT INTO session (slot, account_id) VALUES (1, ?)
		 ON CONFLICT(slot) DO UPDATE SET account_id = excluded.account_id`, accountID)
	return err
}

// Session returns the active account id, ok=false when signed out.
func (d *DB) Session() (string, bool, error) {
	var id string
	err := d.sql.QueryRow(`SELECT account_id FROM session WHERE slot = 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (d *DB) ClearSession() error {
	_, err := d.sql.Exec(`DELETE FROM session`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (d *DB) scanAccount(row *sql.Row) (*Account, error) {
	a, err := scanAccountRow(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("account")
	}
	return a, err
}

func scanAccountRow(row rowScanner) (*Account, error) {
	var a Account
	var admin int
	var profile string
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordDigest, &admin, &profile, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Admin = admin != 0
	if err := json.Unmarshal([]byte(profile), &a.Profile); err != nil {
		return nil, fmt.Errorf("corrupt account profile: %w", err)
	}
	return &a, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
