package services

import (
	"log"

	"katalog/internal/forms"
	"katalog/internal/models"
	"katalog/internal/repositories"
)

// CatalogEventPublisher publishes catalog change events to the message
// queue. It is satisfied by *rabbitmq.Client.
type CatalogEventPublisher interface {
	PublishCatalogEvent(event map[string]interface{}) error
}

// CatalogService handles business logic related to catalog entries. It is
// the concrete fetch and submission collaborator behind the list view and
// the edit form.
type CatalogService struct {
	repo   repositories.CatalogRepository
	events CatalogEventPublisher // may be nil when no broker is configured
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.CatalogRepository, events CatalogEventPublisher) *CatalogService {
	return &CatalogService{
		repo:   repo,
		events: events,
	}
}

// FetchList retrieves one page of catalog entries matching the query.
func (s *CatalogService) FetchList(query models.CatalogQuery) (*models.CatalogPage, error) {
	return s.repo.List(query)
}

// GetCatalogByID retrieves a single catalog entry by its ID.
func (s *CatalogService) GetCatalogByID(id uint) (*models.Catalog, error) {
	return s.repo.GetByID(id)
}

// CreateCatalog creates a new catalog entry. A duplicate article code is
// reported as a field-scoped rejection rather than a plain error, so the
// form can annotate the offending field.
func (s *CatalogService) CreateCatalog(catalog *models.Catalog) error {
	if catalog.Code != "" {
		if existing, err := s.repo.GetByCode(catalog.Code); err == nil && existing != nil {
			return &forms.RejectionError{
				FieldErrors: map[string][]string{
					forms.FieldCode: {"Article code is already used."},
				},
			}
		}
	}

	if err := s.repo.Create(catalog); err != nil {
		return err
	}

	s.publishEvent("catalog.created", catalog)
	return nil
}

// UpdateCatalog updates an existing catalog entry. The duplicate-code check
// ignores the entry being updated itself.
func (s *CatalogService) UpdateCatalog(catalog *models.Catalog) error {
	if catalog.Code != "" {
		if existing, err := s.repo.GetByCode(catalog.Code); err == nil && existing != nil && existing.ID != catalog.ID {
			return &forms.RejectionError{
				FieldErrors: map[string][]string{
					forms.FieldCode: {"Article code is already used."},
				},
			}
		}
	}

	if err := s.repo.Update(catalog); err != nil {
		return err
	}

	s.publishEvent("catalog.updated", catalog)
	return nil
}

// DeleteCatalog deletes a catalog entry by its ID.
func (s *CatalogService) DeleteCatalog(id uint) error {
	catalog, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.publishEvent("catalog.deleted", catalog)
	return nil
}

// publishEvent sends a catalog change event to the message queue. Publishing
// is best-effort: a broker failure is logged, never propagated, because the
// catalog mutation itself already succeeded.
func (s *CatalogService) publishEvent(kind string, catalog *models.Catalog) {
	if s.events == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}
	event := map[string]interface{}{
		"event":     kind,
		"catalogID": catalog.ID,
		"code":      catalog.Code,
		"name":      catalog.Name,
		"type":      string(catalog.Type),
	}
	if err := s.events.PublishCatalogEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for catalog %d: %v", kind, catalog.ID, err)
	}
}
