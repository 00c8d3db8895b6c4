package service

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/weblease/weblease-backend/internal/domain"
)

// ClientService manages registered customer accounts
type ClientService struct {
	clientRepo domain.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo domain.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClient registers a client account
func (s *ClientService) CreateClient(client *domain.Client) (*domain.Client, error) {
	if err := client.Validate(); err != nil {
		return nil, err
	}
	created, err := s.clientRepo.Create(client)
	if err != nil {
		return nil, err
	}
	log.Info().Str("client_id", created.ID.String()).Msg("client registered")
	return created, nil
}

// GetClient retrieves a client account
func (s *ClientService) GetClient(id uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.GetByID(id)
}

// ListClients lists client accounts for the admin view
func (s *ClientService) ListClients() ([]*domain.Client, error) {
	return s.clientRepo.List()
}
