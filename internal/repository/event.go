package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"

	"github.com/CamMacB17/spotpay/internal/domain"
)

const eventColumns = `id, slug, title, organiser_name, organiser_email, price_pence,
       max_spots, starts_at, closed_at, created_at`

type EventRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewEventRepo(db *dbpg.DB) *EventRepository {
	return &EventRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID, &e.Slug, &e.Title, &e.OrganiserName, &e.OrganiserEmail, &e.PricePence,
		&e.MaxSpots, &e.StartsAt, &e.ClosedAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `INSERT INTO events (id, slug, title, organiser_name, organiser_email,
	                              price_pence, max_spots, starts_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now().UTC()
	e.CreatedAt = now

	_, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		e.ID, e.Slug, e.Title, e.OrganiserName, e.OrganiserEmail,
		e.PricePence, e.MaxSpots, e.StartsAt, now,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.getBy(ctx, "id", id)
}

func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *EventRepository) getBy(ctx context.Context, column, value string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s = $1`, eventColumns, column)

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, value)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	return e, nil
}

// GetDetails returns the event with its derived seat counts. The counts are
// always computed live from payment rows, never stored on the event.
func (r *EventRepository) GetDetails(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	query := `
		SELECT ` + eventColumns + `,
		       (SELECT COUNT(*) FROM payments p
		         WHERE p.event_id = e.id AND p.status = ANY($2)) AS active_spots,
		       (SELECT COUNT(*) FROM payments p
		         WHERE p.event_id = e.id AND p.status = $3) AS paid_count
		FROM events e
		WHERE e.id = $1`

	row, err := r.db.QueryRowWithRetry(
		ctx, r.strategy, query,
		eventID, pq.Array(domain.ActiveStatuses), domain.StatusPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("get event details: %w", err)
	}

	var d domain.EventDetails
	err = row.Scan(
		&d.Event.ID, &d.Event.Slug, &d.Event.Title, &d.Event.OrganiserName, &d.Event.OrganiserEmail,
		&d.Event.PricePence, &d.Event.MaxSpots, &d.Event.StartsAt, &d.Event.ClosedAt, &d.Event.CreatedAt,
		&d.ActiveSpots, &d.PaidCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("scan event details: %w", err)
	}

	return &d, nil
}

// UpdatePrice changes the per-spot price. Once any payment is paid the price
// is locked; writing the same value back is a silent no-op.
func (r *EventRepository) UpdatePrice(ctx context.Context, eventID string, pricePence int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current *int64
	query := `SELECT price_pence FROM events WHERE id = $1 FOR UPDATE`
	if err = tx.QueryRowContext(ctx, query, eventID).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	if current != nil && *current == pricePence {
		return tx.Commit()
	}

	var paidCount int
	countQuery := `SELECT COUNT(*) FROM payments WHERE event_id = $1 AND status = $2`
	if err = tx.QueryRowContext(ctx, countQuery, eventID, domain.StatusPaid).Scan(&paidCount); err != nil {
		return fmt.Errorf("count paid payments: %w", err)
	}
	if paidCount > 0 {
		return domain.ErrPriceLocked
	}

	if _, err = tx.ExecContext(ctx, `UPDATE events SET price_pence = $2 WHERE id = $1`, eventID, pricePence); err != nil {
		return fmt.Errorf("update price: %w", err)
	}

	return tx.Commit()
}

// SetMaxSpots lowers or raises capacity. Lowering below the live active
// count is rejected inside the same transaction that reads the count.
func (r *EventRepository) SetMaxSpots(ctx context.Context, eventID string, maxSpots *int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var lockedID string
	if err = tx.QueryRowContext(
		ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID,
	).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	if maxSpots != nil {
		var active int
		countQuery := `SELECT COUNT(*) FROM payments WHERE event_id = $1 AND status = ANY($2)`
		if err = tx.QueryRowContext(
			ctx, countQuery, eventID, pq.Array(domain.ActiveStatuses),
		).Scan(&active); err != nil {
			return fmt.Errorf("count active payments: %w", err)
		}
		if *maxSpots < active {
			return domain.ErrCapacityBelowActive
		}
	}

	if _, err = tx.ExecContext(ctx, `UPDATE events SET max_spots = $2 WHERE id = $1`, eventID, maxSpots); err != nil {
		return fmt.Errorf("update max spots: %w", err)
	}

	return tx.Commit()
}

// Close marks the event closed. Closing an already closed event is a no-op.
func (r *EventRepository) Close(ctx context.Context, eventID string) error {
	query := `UPDATE events SET closed_at = COALESCE(closed_at, now()) WHERE id = $1`

	res, err := r.db.ExecWithRetry(ctx, r.strategy, query, eventID)
	if err != nil {
		return fmt.Errorf("close event: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("close event rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}
