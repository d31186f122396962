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

// MySQLCredentialRepository implements Credential persistence for MySQL databases.
// The DSN must set parseTime=true so created_at scans into time.Time.
type MySQLCredentialRepository struct {
	db *sql.DB
}

// Upsert inserts the credential or replaces the existing record with the same name.
func (m *MySQLCredentialRepository) Upsert(ctx context.Context, credential *credentialDomain.Credential) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO credentials (name, algorithm, nonce, ciphertext, tag, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  algorithm = VALUES(algorithm),
			  nonce = VALUES(nonce),
			  ciphertext = VALUES(ciphertext),
			  tag = VALUES(tag),
			  created_at = VALUES(created_at)`

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
func (m *MySQLCredentialRepository) Get(ctx context.Context, name string) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

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

// Delete removes the credential by name.
func (m *MySQLCredentialRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM credentials WHERE name = ?`, name); err != nil {
		return apperrors.Wrapf(apperrors.ErrStorage, "failed to delete credential: %v", err)
	}
	return nil
}

// NewMySQLCredentialRepository creates a new MySQL Credential repository instance.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}
