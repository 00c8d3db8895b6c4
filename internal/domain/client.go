package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrClientNameEmpty  = errors.New("client name is required")
	ErrClientEmailEmpty = errors.New("client email is required")
)

// Client is a registered customer account. Rentals reference it by ID when
// the requester was logged in; anonymous contact requests leave ClientID nil
// and rely on the contact snapshot alone.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactInfo is the snapshot of requester details captured when a rental
// is created
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return ErrClientNameEmpty
	}
	if c.Email == "" {
		return ErrClientEmailEmpty
	}
	return nil
}

// ClientRepository defines persistence for client accounts
type ClientRepository interface {
	Create(client *Client) (*Client, error)
	GetByID(id uuid.UUID) (*Client, error)
	GetByEmail(email string) (*Client, error)
	List() ([]*Client, error)
}
