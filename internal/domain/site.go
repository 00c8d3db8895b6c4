package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSiteNameEmpty    = errors.New("site name is required")
	ErrSiteNameTooLong  = errors.New("site name must be 200 characters or less")
	ErrSitePriceInvalid = errors.New("site monthly price must be positive")
)

// RemovedSiteName is shown in place of a site that was deleted after rentals
// referenced it. Historical rentals stay viewable; a missing site is a
// degraded display, not an error.
const RemovedSiteName = "Site removed"

// Site is a pre-built catalog site offered for rental
type Site struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  *string         `json:"description,omitempty"`
	MonthlyPrice decimal.Decimal `json:"monthlyPrice"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    *time.Time      `json:"deletedAt,omitempty"`
}

func (s *Site) Validate() error {
	if s.Name == "" {
		return ErrSiteNameEmpty
	}
	if len(s.Name) > MaxSiteNameLength {
		return ErrSiteNameTooLong
	}
	if s.MonthlyPrice.LessThanOrEqual(decimal.Zero) {
		return ErrSitePriceInvalid
	}
	return nil
}

// SiteSummary is the slice of a site attached to rental reads. Removed is
// set when the referenced site no longer exists.
type SiteSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Slug    string    `json:"slug,omitempty"`
	Removed bool      `json:"removed"`
}

// SiteRepository defines persistence for catalog sites
type SiteRepository interface {
	Create(site *Site) (*Site, error)
	GetByID(id uuid.UUID) (*Site, error)
	List(includeInactive bool) ([]*Site, error)
	Update(site *Site) (*Site, error)
	SoftDelete(id uuid.UUID) error
}
