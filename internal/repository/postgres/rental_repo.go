package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weblease/weblease-backend/internal/domain"
)

// RentalRepository implements domain.RentalRepository using PostgreSQL.
// Snapshot writes are guarded by the version column: an UPDATE that matches
// the id but not the expected version affects zero rows, which is reported
// as domain.ErrConcurrentModification.
type RentalRepository struct {
	pool *pgxpool.Pool
}

// NewRentalRepository creates a new RentalRepository
func NewRentalRepository(pool *pgxpool.Pool) *RentalRepository {
	return &RentalRepository{pool: pool}
}

const rentalColumns = `id, site_id, client_id, contact_name, contact_email, contact_phone,
	monthly_price, status, start_date, end_date, total_paid, last_payment_at, notes,
	version, created_at, updated_at`

// Create inserts a new rental
func (r *RentalRepository) Create(rental *domain.Rental) (*domain.Rental, error) {
	ctx := context.Background()

	clientID := pgtype.UUID{}
	if rental.ClientID != nil {
		clientID = pgtype.UUID{Bytes: *rental.ClientID, Valid: true}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO rentals (id, site_id, client_id, contact_name, contact_email, contact_phone,
			monthly_price, status, total_paid, notes, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1)
		RETURNING `+rentalColumns,
		uuid.New(), rental.SiteID, clientID, rental.ContactName, rental.ContactEmail,
		rental.ContactPhone, rental.MonthlyPrice.String(), string(rental.Status),
		rental.TotalPaid.String(), textFromPtr(rental.Notes),
	)
	return scanRental(row)
}

// GetByID retrieves a rental by its ID
func (r *RentalRepository) GetByID(id uuid.UUID) (*domain.Rental, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`, id)
	rental, err := scanRental(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRentalNotFound
		}
		return nil, err
	}
	return rental, nil
}

// GetByIDWithPayments retrieves a rental with its ledger in insertion order
func (r *RentalRepository) GetByIDWithPayments(id uuid.UUID) (*domain.Rental, error) {
	rental, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments WHERE rental_id = $1
		ORDER BY created_at, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		rental.Payments = append(rental.Payments, payment)
	}
	return rental, rows.Err()
}

// List retrieves all rentals ordered by creation time
func (r *RentalRepository) List() ([]*domain.Rental, error) {
	return r.list(`SELECT `+rentalColumns+` FROM rentals ORDER BY created_at`)
}

// ListByClient retrieves rentals belonging to a client account
func (r *RentalRepository) ListByClient(clientID uuid.UUID) ([]*domain.Rental, error) {
	return r.list(`SELECT `+rentalColumns+` FROM rentals WHERE client_id = $1 ORDER BY created_at`, clientID)
}

// ListByStatus retrieves rentals in a given status
func (r *RentalRepository) ListByStatus(status domain.RentalStatus) ([]*domain.Rental, error) {
	return r.list(`SELECT `+rentalColumns+` FROM rentals WHERE status = $1 ORDER BY created_at`, string(status))
}

func (r *RentalRepository) list(query string, args ...interface{}) ([]*domain.Rental, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rental)
	}
	return result, rows.Err()
}

// UpdateSnapshot applies a snapshot under the version guard
func (r *RentalRepository) UpdateSnapshot(id uuid.UUID, expectedVersion int32, snap domain.RentalSnapshot) (*domain.Rental, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, updateSnapshotSQL,
		id, expectedVersion, string(snap.Status), snap.StartDate, snap.EndDate,
		snap.TotalPaid.String(), snap.LastPaymentAt,
	)
	rental, err := scanRental(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.conflictOrMissing(ctx, id)
		}
		return nil, err
	}
	return rental, nil
}

const updateSnapshotSQL = `
	UPDATE rentals
	SET status = $3, start_date = $4, end_date = $5, total_paid = $6,
		last_payment_at = $7, version = version + 1, updated_at = now()
	WHERE id = $1 AND version = $2
	RETURNING ` + rentalColumns

// ApplyPayment appends a ledger entry and applies the snapshot in one
// transaction. Partial application would break the totalPaid invariant, so
// a failure at either step rolls both back.
func (r *RentalRepository) ApplyPayment(id uuid.UUID, expectedVersion int32, snap domain.RentalSnapshot, payment *domain.Payment) (*domain.Rental, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, updateSnapshotSQL,
		id, expectedVersion, string(snap.Status), snap.StartDate, snap.EndDate,
		snap.TotalPaid.String(), snap.LastPaymentAt,
	)
	rental, err := scanRental(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.conflictOrMissing(ctx, id)
		}
		return nil, err
	}

	paymentID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO payments (id, rental_id, amount, payment_method, period_months, paid_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		paymentID, id, payment.Amount.String(), string(payment.Method),
		payment.PeriodMonths, payment.PaidAt, textFromPtr(payment.Notes),
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	payment.ID = paymentID
	rental.Payments = append(rental.Payments, payment)
	return rental, nil
}

// conflictOrMissing distinguishes a version conflict from a missing rental
// after a guarded UPDATE matched zero rows
func (r *RentalRepository) conflictOrMissing(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rentals WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return domain.ErrConcurrentModification
	}
	return domain.ErrRentalNotFound
}

// UpdateNotes updates the administrator notes without touching the version:
// notes are not part of the reconciled snapshot
func (r *RentalRepository) UpdateNotes(id uuid.UUID, notes *string) (*domain.Rental, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE rentals SET notes = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+rentalColumns,
		id, textFromPtr(notes),
	)
	rental, err := scanRental(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRentalNotFound
		}
		return nil, err
	}
	return rental, nil
}

// Delete removes a rental and its ledger
func (r *RentalRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE rental_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRentalNotFound
	}

	return tx.Commit(ctx)
}

func scanRental(row pgx.Row) (*domain.Rental, error) {
	var (
		rental        domain.Rental
		clientID      pgtype.UUID
		monthlyPrice  pgtype.Numeric
		status        string
		startDate     pgtype.Timestamptz
		endDate       pgtype.Timestamptz
		totalPaid     pgtype.Numeric
		lastPaymentAt pgtype.Timestamptz
		notes         pgtype.Text
	)

	err := row.Scan(
		&rental.ID, &rental.SiteID, &clientID, &rental.ContactName, &rental.ContactEmail,
		&rental.ContactPhone, &monthlyPrice, &status, &startDate, &endDate,
		&totalPaid, &lastPaymentAt, &notes, &rental.Version, &rental.CreatedAt, &rental.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clientID.Valid {
		cid := uuid.UUID(clientID.Bytes)
		rental.ClientID = &cid
	}
	if rental.MonthlyPrice, err = numericToDecimal(monthlyPrice); err != nil {
		return nil, err
	}
	if rental.TotalPaid, err = numericToDecimal(totalPaid); err != nil {
		return nil, err
	}
	rental.Status = domain.RentalStatus(status)
	rental.StartDate = timeOrNil(startDate)
	rental.EndDate = timeOrNil(endDate)
	rental.LastPaymentAt = timeOrNil(lastPaymentAt)
	rental.Notes = textOrNil(notes)

	return &rental, nil
}

func timeOrNil(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
