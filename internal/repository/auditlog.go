package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"

	"github.com/CamMacB17/spotpay/internal/domain"
)

// AuditLogRepository is append-only; rows are never updated or deleted.
type AuditLogRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewAuditLogRepo(db *dbpg.DB) *AuditLogRepository {
	return &AuditLogRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

func (r *AuditLogRepository) Append(ctx context.Context, a *domain.AdminAction) error {
	query := `INSERT INTO admin_action_log (id, event_id, token_hash, action, metadata, created_at)
	          VALUES ($1, $2, $3, $4, $5, now())`

	var meta any
	if len(a.Metadata) > 0 {
		meta = []byte(a.Metadata)
	}

	_, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		a.ID, a.EventID, a.TokenHash, a.Action, meta,
	)
	if err != nil {
		return fmt.Errorf("append admin action: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.AdminAction, error) {
	query := `SELECT id, event_id, token_hash, action, metadata, created_at
	          FROM admin_action_log
	          WHERE event_id = $1
	          ORDER BY created_at DESC`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list admin actions: %w", err)
	}
	defer rows.Close()

	var res []*domain.AdminAction
	for rows.Next() {
		var a domain.AdminAction
		var meta []byte
		if err = rows.Scan(&a.ID, &a.EventID, &a.TokenHash, &a.Action, &meta, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin action: %w", err)
		}
		a.Metadata = meta
		res = append(res, &a)
	}

	return res, rows.Err()
}
