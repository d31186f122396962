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

// PostgreSQLCredentialRepository implements Credential persistence for PostgreSQL databases.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// Upsert inserts the credential or replaces the existing record with the same name.
func (p *PostgreSQLCredentialRepository) Upsert(ctx context.Context, credential *credentialDomain.Credential) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credentials (name, algorithm, nonce, ciphertext, tag, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (name) DO UPDATE SET
			  algorithm = EXCLUDED.algorithm,
			  nonce = EXCLUDED.nonce,
			  ciphertext = EXCLUDED.ciphertext,
			  tag = EXCLUDED.tag,
			  created_at = EXCLUDED.created_at`

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
func (p *PostgreSQLCredentialRepository) Get(ctx context.Context, name string) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT name, algorithm, nonce, ciphertext, tag, created_at
			  FROM credentials
			  WHERE name = $1`

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
func (p *PostgreSQLCredentialRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM credentials WHERE name = $1`, name); err != nil {
		return apperrors.Wrapf(apperrors.ErrStorage, "failed to delete credential: %v", err)
	}
	return nil
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL Credential repository instance.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}
