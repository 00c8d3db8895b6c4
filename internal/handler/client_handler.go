package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/service"
)

// ClientHandler handles client account HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClientRequest represents the create client request body
type CreateClientRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// CreateClient handles POST /api/v1/clients
func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	client := &domain.Client{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}

	created, err := h.clientService.CreateClient(client)
	if err != nil {
		if errors.Is(err, domain.ErrClientNameEmpty) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrClientEmailEmpty) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "email", Message: "Email is required"},
			})
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to create client")
		return NewInternalError(c, "Failed to create client")
	}

	return c.JSON(http.StatusCreated, created)
}

// GetClients handles GET /api/v1/clients
func (h *ClientHandler) GetClients(c echo.Context) error {
	clients, err := h.clientService.ListClients()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list clients")
		return NewInternalError(c, "Failed to list clients")
	}

	return c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	client, err := h.clientService.GetClient(id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Str("client_id", id.String()).Msg("Failed to get client")
		return NewInternalError(c, "Failed to get client")
	}

	return c.JSON(http.StatusOK, client)
}
