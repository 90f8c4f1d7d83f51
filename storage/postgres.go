package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideahub/ideahub/pkg/auth"
	"github.com/ideahub/ideahub/pkg/pg"
)

// PostgresStore implements auth.CredentialStore and auth.OAuthLinkStore on
// a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a store over the given pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `id, email, password_hash, profile_id, verified, login_attempts, blocked_until, verification_code, code_issued_at, created_at`

func (s *PostgresStore) CreateAccount(ctx context.Context, account *auth.Account) error {
	query := `INSERT INTO accounts (id, email, password_hash, profile_id, verified, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Exec(ctx, query,
		account.ID, account.Email, account.PasswordHash,
		account.ProfileID, account.Verified, account.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAccountByID(ctx context.Context, id uuid.UUID) (*auth.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return s.scanAccount(s.db.QueryRow(ctx, query, id))
}

func (s *PostgresStore) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return s.scanAccount(s.db.QueryRow(ctx, query, email))
}

func (s *PostgresStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	return s.execAccount(ctx, `UPDATE accounts SET password_hash = $2 WHERE id = $1`, id, hash)
}

func (s *PostgresStore) ResetLoginAttempts(ctx context.Context, id uuid.UUID) error {
	return s.execAccount(ctx, `UPDATE accounts SET login_attempts = 0, blocked_until = NULL WHERE id = $1`, id)
}

// RecordFailedLogin increments the attempt counter in a single conditional
// update so concurrent failures cannot under-count, and stamps the lockout
// deadline only on the increment that reaches the threshold.
func (s *PostgresStore) RecordFailedLogin(ctx context.Context, id uuid.UUID, threshold int, blockFor time.Duration) (int, error) {
	query := `UPDATE accounts
	          SET login_attempts = login_attempts + 1,
	              blocked_until = CASE WHEN login_attempts + 1 = $2 THEN $3 ELSE blocked_until END
	          WHERE id = $1
	          RETURNING login_attempts`

	var attempts int
	deadline := time.Now().Add(blockFor)
	if err := s.db.QueryRow(ctx, query, id, threshold, deadline).Scan(&attempts); err != nil {
		if pg.IsNotFoundError(err) {
			return 0, auth.ErrUserNotFound
		}
		return 0, fmt.Errorf("record failed login: %w", err)
	}
	return attempts, nil
}

func (s *PostgresStore) SetVerificationCode(ctx context.Context, id uuid.UUID, code auth.VerificationCode) error {
	return s.execAccount(ctx,
		`UPDATE accounts SET verification_code = $2, code_issued_at = $3 WHERE id = $1`,
		id, code.Value, code.IssuedAt)
}

func (s *PostgresStore) ClearVerificationCode(ctx context.Context, id uuid.UUID) error {
	return s.execAccount(ctx,
		`UPDATE accounts SET verification_code = NULL, code_issued_at = NULL WHERE id = $1`, id)
}

func (s *PostgresStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return s.execAccount(ctx, `UPDATE accounts SET verified = TRUE WHERE id = $1`, id)
}

func (s *PostgresStore) GetLink(ctx context.Context, provider auth.Provider, externalEmail string) (*auth.OAuthLink, error) {
	query := `SELECT provider, external_email, account_id, created_at
	          FROM oauth_links WHERE provider = $1 AND external_email = $2`

	var link auth.OAuthLink
	err := s.db.QueryRow(ctx, query, string(provider), externalEmail).
		Scan(&link.Provider, &link.ExternalEmail, &link.AccountID, &link.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrLinkNotFound
		}
		return nil, fmt.Errorf("select oauth link: %w", err)
	}
	return &link, nil
}

func (s *PostgresStore) CreateLink(ctx context.Context, link *auth.OAuthLink) error {
	query := `INSERT INTO oauth_links (provider, external_email, account_id, created_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := s.db.Exec(ctx, query,
		string(link.Provider), link.ExternalEmail, link.AccountID, link.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrProviderAlreadyLinked
		}
		return fmt.Errorf("insert oauth link: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanAccount(row rowScanner) (*auth.Account, error) {
	var (
		account  auth.Account
		code     *string
		issuedAt *time.Time
	)
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash,
		&account.ProfileID, &account.Verified, &account.LoginAttempts,
		&account.BlockedUntil, &code, &issuedAt, &account.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("select account: %w", err)
	}

	if code != nil && issuedAt != nil {
		account.VerificationCode = &auth.VerificationCode{Value: *code, IssuedAt: *issuedAt}
	}
	return &account, nil
}

func (s *PostgresStore) execAccount(ctx context.Context, query string, args ...any) error {
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

var (
	_ auth.CredentialStore = (*PostgresStore)(nil)
	_ auth.OAuthLinkStore  = (*PostgresStore)(nil)
)
