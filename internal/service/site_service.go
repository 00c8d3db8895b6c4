package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/weblease/weblease-backend/internal/domain"
)

// SiteService manages the catalog of pre-built sites offered for rental
type SiteService struct {
	siteRepo domain.SiteRepository
}

// NewSiteService creates a new SiteService
func NewSiteService(siteRepo domain.SiteRepository) *SiteService {
	return &SiteService{siteRepo: siteRepo}
}

// CreateSite adds a site to the catalog
func (s *SiteService) CreateSite(site *domain.Site) (*domain.Site, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}
	if site.Slug == "" {
		site.Slug = slugify(site.Name)
	}
	created, err := s.siteRepo.Create(site)
	if err != nil {
		return nil, err
	}
	log.Info().Str("site_id", created.ID.String()).Str("name", created.Name).Msg("site created")
	return created, nil
}

// GetSite retrieves a catalog site
func (s *SiteService) GetSite(id uuid.UUID) (*domain.Site, error) {
	return s.siteRepo.GetByID(id)
}

// ListSites lists catalog sites; includeInactive widens the listing for the
// admin view
func (s *SiteService) ListSites(includeInactive bool) ([]*domain.Site, error) {
	return s.siteRepo.List(includeInactive)
}

// UpdateSite updates a catalog site
func (s *SiteService) UpdateSite(site *domain.Site) (*domain.Site, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return s.siteRepo.Update(site)
}

// DeleteSite soft-deletes a site. Existing rentals keep referencing it and
// degrade to the removed-site placeholder on display.
func (s *SiteService) DeleteSite(id uuid.UUID) error {
	if err := s.siteRepo.SoftDelete(id); err != nil {
		return err
	}
	log.Info().Str("site_id", id.String()).Msg("site removed from catalog")
	return nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
