package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weblease/weblease-backend/internal/domain"
)

// ClientRepository implements domain.ClientRepository using PostgreSQL
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = `id, name, email, phone, created_at, updated_at`

// Create inserts a new client account
func (r *ClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING `+clientColumns,
		uuid.New(), client.Name, client.Email, textFromPtr(client.Phone),
	)
	return scanClient(row)
}

// GetByID retrieves a client by ID
func (r *ClientRepository) GetByID(id uuid.UUID) (*domain.Client, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// GetByEmail retrieves a client by email
func (r *ClientRepository) GetByEmail(email string) (*domain.Client, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE email = $1`, email)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// List retrieves all clients
func (r *ClientRepository) List() ([]*domain.Client, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		client domain.Client
		phone  pgtype.Text
	)

	err := row.Scan(&client.ID, &client.Name, &client.Email, &phone, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}

	client.Phone = textOrNil(phone)
	return &client, nil
}
