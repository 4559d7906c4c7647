package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"

	"github.com/CamMacB17/spotpay/internal/domain"
)

// WebhookLedgerRepository is the dedup ledger for provider events. A row's
// existence means the event was already applied.
type WebhookLedgerRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewWebhookLedgerRepo(db *dbpg.DB) *WebhookLedgerRepository {
	return &WebhookLedgerRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

// Insert records the provider event id. Two concurrent deliveries of the
// same event race on the primary key; the loser gets
// ErrWebhookAlreadyProcessed and must skip processing.
func (r *WebhookLedgerRepository) Insert(ctx context.Context, providerEventID string) error {
	query := `INSERT INTO stripe_webhook_events (id, created_at) VALUES ($1, now())`

	_, err := r.db.Master.ExecContext(ctx, query, providerEventID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrWebhookAlreadyProcessed
		}
		return fmt.Errorf("insert webhook event: %w", err)
	}

	return nil
}
