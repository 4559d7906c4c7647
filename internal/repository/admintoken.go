package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"

	"github.com/CamMacB17/spotpay/internal/domain"
)

type AdminTokenRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewAdminTokenRepo(db *dbpg.DB) *AdminTokenRepository {
	return &AdminTokenRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

func (r *AdminTokenRepository) Create(ctx context.Context, t *domain.AdminToken) error {
	query := `INSERT INTO admin_tokens (id, event_id, token_hash, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		t.ID, t.EventID, t.TokenHash, t.ExpiresAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert admin token: %w", err)
	}

	return nil
}

func (r *AdminTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.AdminToken, error) {
	query := `SELECT id, event_id, token_hash, expires_at, created_at
	          FROM admin_tokens
	          WHERE token_hash = $1`

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("get admin token: %w", err)
	}

	var t domain.AdminToken
	if err = row.Scan(&t.ID, &t.EventID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("scan admin token: %w", err)
	}

	return &t, nil
}

// Rotate expires every live token for the event and inserts the replacement
// in the same transaction, so there is no window without a valid token.
func (r *AdminTokenRepository) Rotate(ctx context.Context, t *domain.AdminToken) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	expireQuery := `UPDATE admin_tokens SET expires_at = now() WHERE event_id = $1 AND expires_at > now()`
	if _, err = tx.ExecContext(ctx, expireQuery, t.EventID); err != nil {
		return fmt.Errorf("expire old tokens: %w", err)
	}

	insertQuery := `INSERT INTO admin_tokens (id, event_id, token_hash, expires_at, created_at)
	                VALUES ($1, $2, $3, $4, now())`
	if _, err = tx.ExecContext(ctx, insertQuery, t.ID, t.EventID, t.TokenHash, t.ExpiresAt); err != nil {
		return fmt.Errorf("insert new token: %w", err)
	}

	return tx.Commit()
}
