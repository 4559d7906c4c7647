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

const paymentColumns = `id, event_id, name, email, status, amount_pence, amount_pence_captured,
       created_at, paid_at, refunded_at, stripe_refund_id, stripe_checkout_session_id,
       stripe_payment_intent_id, receipt_email_sent_at, refund_email_sent_at, organiser_notified_at`

type PaymentRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewPaymentRepo(db *dbpg.DB) *PaymentRepository {
	return &PaymentRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.EventID, &p.Name, &p.Email, &p.Status, &p.AmountPence, &p.AmountPenceCaptured,
		&p.CreatedAt, &p.PaidAt, &p.RefundedAt, &p.StripeRefundID, &p.CheckoutSessionID,
		&p.PaymentIntentID, &p.ReceiptEmailSentAt, &p.RefundEmailSentAt, &p.OrganiserNotifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePledge is the single admission-control point. Inside one transaction
// it locks the event row, re-checks closure, counts active payments against
// capacity, rejects duplicate active emails, and either reuses the latest
// cancelled row for this email or inserts a fresh pledged one. The amount is
// snapshotted from the event price as read under the lock.
func (r *PaymentRepository) CreatePledge(ctx context.Context, p *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	eventQuery := `SELECT price_pence, max_spots, closed_at FROM events WHERE id = $1 FOR UPDATE`
	var pricePence *int64
	var maxSpots *int
	var closedAt *time.Time
	if err = tx.QueryRowContext(ctx, eventQuery, p.EventID).Scan(&pricePence, &maxSpots, &closedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	if closedAt != nil {
		return domain.ErrEventClosed
	}

	activeQuery := `SELECT COUNT(*) FROM payments WHERE event_id = $1 AND status = ANY($2)`
	var active int
	if err = tx.QueryRowContext(
		ctx, activeQuery, p.EventID,
		pq.Array(domain.ActiveStatuses),
	).Scan(&active); err != nil {
		return fmt.Errorf("count active payments: %w", err)
	}

	if maxSpots != nil && active >= *maxSpots {
		return domain.ErrEventFull
	}

	existingQuery := `SELECT id, status FROM payments
	                  WHERE event_id = $1 AND email = $2
	                  ORDER BY created_at DESC
	                  LIMIT 1`
	var existingID string
	var existingStatus domain.PaymentStatus
	err = tx.QueryRowContext(ctx, existingQuery, p.EventID, p.Email).Scan(&existingID, &existingStatus)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("find existing payment: %w", err)
	}

	now := time.Now().UTC()
	p.Status = domain.StatusPledged
	if pricePence != nil {
		p.AmountPence = *pricePence
	} else {
		p.AmountPence = 0
	}
	p.CreatedAt = now

	if err == nil {
		if existingStatus == domain.StatusPledged || existingStatus == domain.StatusPaid {
			return domain.ErrAlreadyBooked
		}

		// Reuse the cancelled row so one email maps to one payment row.
		reuseQuery := `UPDATE payments
		               SET name = $2, status = $3, amount_pence = $4, amount_pence_captured = 0,
		                   created_at = $5, paid_at = NULL, refunded_at = NULL,
		                   stripe_refund_id = NULL, stripe_checkout_session_id = NULL,
		                   stripe_payment_intent_id = NULL, receipt_email_sent_at = NULL,
		                   refund_email_sent_at = NULL, organiser_notified_at = NULL
		               WHERE id = $1`
		if _, err = tx.ExecContext(
			ctx, reuseQuery, existingID, p.Name, p.Status, p.AmountPence, now,
		); err != nil {
			return fmt.Errorf("reuse cancelled payment: %w", err)
		}
		p.ID = existingID
		return tx.Commit()
	}

	insertQuery := `INSERT INTO payments (id, event_id, name, email, status, amount_pence, created_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err = tx.ExecContext(
		ctx, insertQuery, p.ID, p.EventID, p.Name, p.Email, p.Status, p.AmountPence, now,
	); err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyBooked
		}
		return fmt.Errorf("insert payment: %w", err)
	}

	return tx.Commit()
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	return p, nil
}

func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE stripe_checkout_session_id = $1`

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get payment by session: %w", err)
	}

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	return p, nil
}

// SetCheckoutSession persists the provider session id once. Re-writing the
// same id is a no-op so the checkout path stays idempotent.
func (r *PaymentRepository) SetCheckoutSession(ctx context.Context, id, sessionID string) error {
	query := `UPDATE payments
	          SET stripe_checkout_session_id = $2
	          WHERE id = $1
	            AND (stripe_checkout_session_id IS NULL OR stripe_checkout_session_id = $2)`

	res, err := r.db.ExecWithRetry(ctx, r.strategy, query, id, sessionID)
	if err != nil {
		return fmt.Errorf("set checkout session: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set checkout session rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("payment %s already has a different checkout session", id)
	}

	return nil
}

// MarkPaid advances a payment to paid under a row lock. paid_at, the captured
// amount and the payment intent id are set-once so a duplicate delivery never
// overwrites them.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id, paymentIntentID string, amountCaptured int64) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	if err = domain.AssertTransition(p.Status, domain.StatusPaid); err != nil {
		return nil, err
	}

	query := `UPDATE payments
	          SET status = $2,
	              paid_at = COALESCE(paid_at, now()),
	              amount_pence_captured = CASE WHEN amount_pence_captured = 0 THEN $3 ELSE amount_pence_captured END,
	              stripe_payment_intent_id = COALESCE(stripe_payment_intent_id, NULLIF($4, ''))
	          WHERE id = $1
	          RETURNING ` + paymentColumns
	updated, err := scanPayment(tx.QueryRowContext(ctx, query, id, domain.StatusPaid, amountCaptured, paymentIntentID))
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return updated, nil
}

// CancelPledge cancels a payment only while it is still pledged. A pledge
// that got paid in the meantime is left alone; refunds are the only path
// that cancels paid payments.
func (r *PaymentRepository) CancelPledge(ctx context.Context, id string) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	if p.Status == domain.StatusCancelled {
		return p, tx.Commit()
	}
	if p.Status != domain.StatusPledged {
		return nil, fmt.Errorf("payment %s is %s: %w", id, p.Status, domain.ErrNotPledged)
	}
	if err = domain.AssertTransition(p.Status, domain.StatusCancelled); err != nil {
		return nil, err
	}

	query := `UPDATE payments SET status = $2 WHERE id = $1 RETURNING ` + paymentColumns
	updated, err := scanPayment(tx.QueryRowContext(ctx, query, id, domain.StatusCancelled))
	if err != nil {
		return nil, fmt.Errorf("cancel pledge: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return updated, nil
}

// RefundWithProvider runs the refund callback between the row-lock checks
// and the status flip, all in one transaction. A provider failure rolls the
// transaction back so no payment is ever marked refunded without a confirmed
// provider-side refund.
func (r *PaymentRepository) RefundWithProvider(
	ctx context.Context,
	eventID, id string,
	refund func(paymentIntentID string) (string, error),
) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	if p.EventID != eventID {
		return nil, domain.ErrPaymentNotFound
	}
	if p.RefundedAt != nil || p.StripeRefundID != nil {
		return nil, domain.ErrAlreadyRefunded
	}
	if p.Status != domain.StatusPaid {
		return nil, domain.ErrNotPaid
	}
	if p.PaymentIntentID == nil || *p.PaymentIntentID == "" {
		return nil, domain.ErrMissingPaymentIntent
	}
	if err = domain.AssertTransition(p.Status, domain.StatusCancelled); err != nil {
		return nil, err
	}

	refundID, err := refund(*p.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	query := `UPDATE payments
	          SET status = $2, amount_pence_captured = 0, paid_at = NULL,
	              refunded_at = now(), stripe_refund_id = $3
	          WHERE id = $1
	          RETURNING ` + paymentColumns
	updated, err := scanPayment(tx.QueryRowContext(ctx, query, id, domain.StatusCancelled, refundID))
	if err != nil {
		return nil, fmt.Errorf("mark refunded: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return updated, nil
}

func (r *PaymentRepository) FindStalePledges(ctx context.Context, olderThan time.Time) ([]string, error) {
	query := `SELECT id FROM payments WHERE status = $1 AND created_at < $2`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, domain.StatusPledged, olderThan)
	if err != nil {
		return nil, fmt.Errorf("find stale pledges: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pledge id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *PaymentRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE event_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list payments by event: %w", err)
	}
	defer rows.Close()

	var res []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		res = append(res, p)
	}

	return res, rows.Err()
}

// The Claim* methods implement the watermark fields: a conditional update
// that only fires while the watermark is null. The caller may send the email
// only when the claim returns true.

func (r *PaymentRepository) ClaimReceiptEmail(ctx context.Context, id string) (bool, error) {
	return r.claim(ctx, id, "receipt_email_sent_at")
}

func (r *PaymentRepository) ClaimRefundEmail(ctx context.Context, id string) (bool, error) {
	return r.claim(ctx, id, "refund_email_sent_at")
}

func (r *PaymentRepository) ClaimOrganiserNotice(ctx context.Context, id string) (bool, error) {
	return r.claim(ctx, id, "organiser_notified_at")
}

func (r *PaymentRepository) claim(ctx context.Context, id, column string) (bool, error) {
	query := fmt.Sprintf(
		`UPDATE payments SET %s = now() WHERE id = $1 AND %s IS NULL`,
		column, column,
	)

	res, err := r.db.ExecWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", column, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim %s rows affected: %w", column, err)
	}

	return rows > 0, nil
}
