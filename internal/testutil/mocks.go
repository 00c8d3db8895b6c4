package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/weblease/weblease-backend/internal/domain"
)

// MockRentalRepository is an in-memory implementation of
// domain.RentalRepository. It honors the version guard the same way the
// Postgres repository does, so concurrency conflicts are testable.
type MockRentalRepository struct {
	Rentals  map[uuid.UUID]*domain.Rental
	Payments map[uuid.UUID][]*domain.Payment

	// ApplyPaymentFn overrides ApplyPayment when set (for failure injection)
	ApplyPaymentFn func(id uuid.UUID, expectedVersion int32, snap domain.RentalSnapshot, payment *domain.Payment) (*domain.Rental, error)

	// AfterListByStatus runs after ListByStatus snapshots its result, so
	// tests can interleave a concurrent write between a list and an update
	AfterListByStatus func()
}

// NewMockRentalRepository creates a new MockRentalRepository
func NewMockRentalRepository() *MockRentalRepository {
	return &MockRentalRepository{
		Rentals:  make(map[uuid.UUID]*domain.Rental),
		Payments: make(map[uuid.UUID][]*domain.Payment),
	}
}

// AddRental adds a rental to the mock repository (helper for tests)
func (m *MockRentalRepository) AddRental(rental *domain.Rental) {
	if rental.ID == uuid.Nil {
		rental.ID = uuid.New()
	}
	m.Rentals[rental.ID] = rental
}

// Create creates a new rental
func (m *MockRentalRepository) Create(rental *domain.Rental) (*domain.Rental, error) {
	now := time.Now().UTC()
	rental.ID = uuid.New()
	rental.Version = 1
	rental.CreatedAt = now
	rental.UpdatedAt = now
	m.Rentals[rental.ID] = rental
	return copyRental(rental), nil
}

// GetByID retrieves a rental by ID
func (m *MockRentalRepository) GetByID(id uuid.UUID) (*domain.Rental, error) {
	rental, ok := m.Rentals[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	return copyRental(rental), nil
}

// GetByIDWithPayments retrieves a rental with its ledger attached
func (m *MockRentalRepository) GetByIDWithPayments(id uuid.UUID) (*domain.Rental, error) {
	rental, err := m.GetByID(id)
	if err != nil {
		return nil, err
	}
	rental.Payments = append([]*domain.Payment{}, m.Payments[id]...)
	return rental, nil
}

// List retrieves all rentals ordered by creation time
func (m *MockRentalRepository) List() ([]*domain.Rental, error) {
	result := make([]*domain.Rental, 0, len(m.Rentals))
	for _, r := range m.Rentals {
		result = append(result, copyRental(r))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// ListByClient retrieves rentals for a specific client
func (m *MockRentalRepository) ListByClient(clientID uuid.UUID) ([]*domain.Rental, error) {
	var result []*domain.Rental
	for _, r := range m.Rentals {
		if r.ClientID != nil && *r.ClientID == clientID {
			result = append(result, copyRental(r))
		}
	}
	return result, nil
}

// ListByStatus retrieves rentals in a given status
func (m *MockRentalRepository) ListByStatus(status domain.RentalStatus) ([]*domain.Rental, error) {
	var result []*domain.Rental
	for _, r := range m.Rentals {
		if r.Status == status {
			result = append(result, copyRental(r))
		}
	}
	if m.AfterListByStatus != nil {
		m.AfterListByStatus()
	}
	return result, nil
}

// UpdateSnapshot applies a snapshot under the version guard
func (m *MockRentalRepository) UpdateSnapshot(id uuid.UUID, expectedVersion int32, snap domain.RentalSnapshot) (*domain.Rental, error) {
	rental, ok := m.Rentals[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	if rental.Version != expectedVersion {
		return nil, domain.ErrConcurrentModification
	}
	applySnapshot(rental, snap)
	return copyRental(rental), nil
}

// ApplyPayment appends a ledger entry and applies the snapshot atomically
func (m *MockRentalRepository) ApplyPayment(id uuid.UUID, expectedVersion int32, snap domain.RentalSnapshot, payment *domain.Payment) (*domain.Rental, error) {
	if m.ApplyPaymentFn != nil {
		return m.ApplyPaymentFn(id, expectedVersion, snap, payment)
	}
	rental, ok := m.Rentals[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	if rental.Version != expectedVersion {
		return nil, domain.ErrConcurrentModification
	}
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now().UTC()
	m.Payments[id] = append(m.Payments[id], payment)
	applySnapshot(rental, snap)
	result := copyRental(rental)
	result.Payments = append([]*domain.Payment{}, m.Payments[id]...)
	return result, nil
}

// UpdateNotes updates the administrator notes
func (m *MockRentalRepository) UpdateNotes(id uuid.UUID, notes *string) (*domain.Rental, error) {
	rental, ok := m.Rentals[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	rental.Notes = notes
	rental.UpdatedAt = time.Now().UTC()
	return copyRental(rental), nil
}

// Delete removes a rental
func (m *MockRentalRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Rentals[id]; !ok {
		return domain.ErrRentalNotFound
	}
	delete(m.Rentals, id)
	delete(m.Payments, id)
	return nil
}

func applySnapshot(rental *domain.Rental, snap domain.RentalSnapshot) {
	rental.Status = snap.Status
	rental.StartDate = snap.StartDate
	rental.EndDate = snap.EndDate
	rental.TotalPaid = snap.TotalPaid
	rental.LastPaymentAt = snap.LastPaymentAt
	rental.Version++
	rental.UpdatedAt = time.Now().UTC()
}

func copyRental(r *domain.Rental) *domain.Rental {
	c := *r
	c.Payments = nil
	return &c
}

// MockPaymentRepository is an in-memory implementation of
// domain.PaymentRepository backed by the same ledger as the rental mock
type MockPaymentRepository struct {
	RentalRepo *MockRentalRepository
}

// NewMockPaymentRepository creates a ledger view over a rental mock
func NewMockPaymentRepository(rentalRepo *MockRentalRepository) *MockPaymentRepository {
	return &MockPaymentRepository{RentalRepo: rentalRepo}
}

// GetByID retrieves a payment by ID
func (m *MockPaymentRepository) GetByID(id uuid.UUID) (*domain.Payment, error) {
	for _, ledger := range m.RentalRepo.Payments {
		for _, p := range ledger {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return nil, domain.ErrPaymentNotFound
}

// ListByRental retrieves the ledger for a rental in insertion order
func (m *MockPaymentRepository) ListByRental(rentalID uuid.UUID) ([]*domain.Payment, error) {
	return append([]*domain.Payment{}, m.RentalRepo.Payments[rentalID]...), nil
}

// SumByRental sums ledger amounts for a rental
func (m *MockPaymentRepository) SumByRental(rentalID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range m.RentalRepo.Payments[rentalID] {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

// MockSiteRepository is an in-memory implementation of domain.SiteRepository
type MockSiteRepository struct {
	Sites map[uuid.UUID]*domain.Site
}

// NewMockSiteRepository creates a new MockSiteRepository
func NewMockSiteRepository() *MockSiteRepository {
	return &MockSiteRepository{Sites: make(map[uuid.UUID]*domain.Site)}
}

// AddSite adds a site to the mock repository (helper for tests)
func (m *MockSiteRepository) AddSite(site *domain.Site) {
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	m.Sites[site.ID] = site
}

// Create creates a new site
func (m *MockSiteRepository) Create(site *domain.Site) (*domain.Site, error) {
	now := time.Now().UTC()
	site.ID = uuid.New()
	site.CreatedAt = now
	site.UpdatedAt = now
	if site.Slug == "" {
		site.Slug = strings.ToLower(strings.ReplaceAll(site.Name, " ", "-"))
	}
	m.Sites[site.ID] = site
	return site, nil
}

// GetByID retrieves a site by ID, excluding soft-deleted sites
func (m *MockSiteRepository) GetByID(id uuid.UUID) (*domain.Site, error) {
	site, ok := m.Sites[id]
	if !ok || site.DeletedAt != nil {
		return nil, domain.ErrSiteNotFound
	}
	return site, nil
}

// List retrieves catalog sites
func (m *MockSiteRepository) List(includeInactive bool) ([]*domain.Site, error) {
	var result []*domain.Site
	for _, s := range m.Sites {
		if s.DeletedAt != nil {
			continue
		}
		if !includeInactive && !s.Active {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Update updates a site
func (m *MockSiteRepository) Update(site *domain.Site) (*domain.Site, error) {
	if _, ok := m.Sites[site.ID]; !ok {
		return nil, domain.ErrSiteNotFound
	}
	site.UpdatedAt = time.Now().UTC()
	m.Sites[site.ID] = site
	return site, nil
}

// SoftDelete marks a site as deleted
func (m *MockSiteRepository) SoftDelete(id uuid.UUID) error {
	site, ok := m.Sites[id]
	if !ok || site.DeletedAt != nil {
		return domain.ErrSiteNotFound
	}
	now := time.Now().UTC()
	site.DeletedAt = &now
	return nil
}

// MockClientRepository is an in-memory implementation of domain.ClientRepository
type MockClientRepository struct {
	Clients map[uuid.UUID]*domain.Client
}

// NewMockClientRepository creates a new MockClientRepository
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{Clients: make(map[uuid.UUID]*domain.Client)}
}

// AddClient adds a client to the mock repository (helper for tests)
func (m *MockClientRepository) AddClient(client *domain.Client) {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	m.Clients[client.ID] = client
}

// Create creates a new client
func (m *MockClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	now := time.Now().UTC()
	client.ID = uuid.New()
	client.CreatedAt = now
	client.UpdatedAt = now
	m.Clients[client.ID] = client
	return client, nil
}

// GetByID retrieves a client by ID
func (m *MockClientRepository) GetByID(id uuid.UUID) (*domain.Client, error) {
	client, ok := m.Clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return client, nil
}

// GetByEmail retrieves a client by email
func (m *MockClientRepository) GetByEmail(email string) (*domain.Client, error) {
	for _, c := range m.Clients {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

// List retrieves all clients
func (m *MockClientRepository) List() ([]*domain.Client, error) {
	result := make([]*domain.Client, 0, len(m.Clients))
	for _, c := range m.Clients {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
