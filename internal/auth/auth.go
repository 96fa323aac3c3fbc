// Package auth simulates local accounts over the store: sign-up, login
// and session tracking. There is no server; the password digest only
// keeps credentials out of plain sight in the local database.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"rollgrid/internal/errors"
	"rollgrid/internal/model"
	"rollgrid/internal/store"
)

// DefaultPassword is what an admin reset sets an account back to.
const DefaultPassword = "123456"

// SignUp creates an account and opens a session for it. The first
// account in the database becomes the admin.
func SignUp(db *store.DB, name, email, password string, profile store.Profile) (*store.Account, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, errors.NewInvalid("name, email and password are required")
	}
	n, err := db.CountAccounts()
	if err != nil {
		return nil, err
	}
	acc := store.Account{
		ID:             model.NewID(),
		Name:           name,
		Email:          email,
		PasswordDigest: Digest(password),
		Admin:          n == 0,
		Profile:        profile,
	}
	if err := db.CreateAccount(acc); err != nil {
		return nil, err
	}
	if err := db.SetSession(acc.ID); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Login checks credentials and opens a session.
func Login(db *store.DB, email, password string) (*store.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	acc, err := db.AccountByEmail(email)
	if err != nil {
		return nil, errors.NewInvalid("invalid credentials")
	}
	if acc.PasswordDigest != Digest(password) {
		return nil, errors.NewInvalid("invalid credentials")
	}
	if err := db.SetSession(acc.ID); err != nil {
		return nil, err
	}
	return acc, nil
}

// Logout clears the active session.
func Logout(db *store.DB) error { return db.ClearSession() }

// Current returns the account for the active session, nil when signed
// out or when the session points at a deleted account.
func Current(db *store.DB) (*store.Account, error) {
	id, ok, err := db.Session()
	if err != nil || !ok {
		return nil, err
	}
	acc, err := db.AccountByID(id)
	if err != nil {
		// stale session; clear it rather than erroring forever
		_ = db.ClearSession()
		return nil, nil
	}
	return acc, nil
}

// ResetPassword sets an account back to the default password. Admin-only
// at the call site.
func ResetPassword(db *store.DB, email string) error {
	return db.UpdatePassword(strings.ToLower(strings.TrimSpace(email)), Digest(DefaultPassword))
}

// Digest hashes a password for storage.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
