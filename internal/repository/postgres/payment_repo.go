package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/weblease/weblease-backend/internal/domain"
)

// PaymentRepository implements domain.PaymentRepository using PostgreSQL.
// It is read-only: ledger writes happen inside RentalRepository.ApplyPayment
// so the entry and the rental snapshot commit together.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, rental_id, amount, payment_method, period_months, paid_at, notes, created_at`

// GetByID retrieves a single ledger entry
func (r *PaymentRepository) GetByID(id uuid.UUID) (*domain.Payment, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// ListByRental retrieves a rental's ledger in insertion order
func (r *PaymentRepository) ListByRental(rentalID uuid.UUID) ([]*domain.Payment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments WHERE rental_id = $1
		ORDER BY created_at, id`, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}

// SumByRental sums ledger amounts for a rental
func (r *PaymentRepository) SumByRental(rentalID uuid.UUID) (decimal.Decimal, error) {
	ctx := context.Background()
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE rental_id = $1`, rentalID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(sum)
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment domain.Payment
		amount  pgtype.Numeric
		method  string
		notes   pgtype.Text
	)

	err := row.Scan(
		&payment.ID, &payment.RentalID, &amount, &method,
		&payment.PeriodMonths, &payment.PaidAt, &notes, &payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if payment.Amount, err = numericToDecimal(amount); err != nil {
		return nil, err
	}
	payment.Method = domain.PaymentMethod(method)
	payment.Notes = textOrNil(notes)

	return &payment, nil
}
