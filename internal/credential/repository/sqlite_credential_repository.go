// Package repository implements persistence for the encrypted credential record.
// SQLite is the default store; PostgreSQL and MySQL are supported for shared deployments.
package repository

import (
	"context"
	"database/sql"
	"errors"

	credentialDomain "github.com/allisson/gw2proxy/internal/credential/domain"
	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
	"github.com/allisson/gw2proxy/internal/database"
	apperrors "github.com/allisson/gw2proxy/internal/errors"
)

// SQLiteCredentialRepository implements Credential persistence for SQLite databases.
type SQLiteCredentialRepository struct {
	db *sql.DB
}

// Upsert inserts the credential or replaces nonce, ciphertext, tag, algorithm and
// created_at of the existing record with the same name.
func (s *SQLiteCredentialRepository) Upsert(ctx context.Context, credential *credentialDomain.Credential) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO credentials (name, algorithm, nonce, ciphertext, tag, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT(name) DO UPDATE SET
			  algorithm = excluded.algorithm,
			  nonce = excluded.nonce,
			  ciphertext = excluded.ciphertext,
			  tag = excluded.tag,
			  created_at = excluded.created_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.Name,
		string(credential.Algorithm),
		credential.Nonce,
		credential.Ciphertext,
		credential.Tag,
		credential.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrStorage, "failed to upsert credential: %v", err)
	}
	return nil
}

// Get retrieves the credential by name.
func (s *SQLiteCredentialRepository) Get(ctx context.Context, name string) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT name, algorithm, nonce, ciphertext, tag, created_at
			  FROM credentials
			  WHERE name = ?`

	var credential credentialDomain.Credential
	var algorithm string
	err := querier.QueryRowContext(ctx, query, name).Scan(
		&credential.Name,
		&algorithm,
		&credential.Nonce,
		&credential.Ciphertext,
		&credential.Tag,
		&credential.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrapf(apperrors.ErrStorage, "failed to get credential: %v", err)
	}

	credential.Algorithm = cryptoDomain.Algorithm(algorithm)
	return &credential, nil
}

// Delete removes the credential by name. Deleting a missing record is not an error.
func (s *SQLiteCredentialRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, s.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM credentials WHERE name = ?`, name); err != nil {
		return apperrors.Wrapf(apperrors.ErrStorage, "failed to delete credential: %v", err)
	}
	return nil
}

// NewSQLiteCredentialRepository creates a new SQLite Credential repository instance.
func NewSQLiteCredentialRepository(db *sql.DB) *SQLiteCredentialRepository {
	return &SQLiteCredentialRepository{db: db}
}
