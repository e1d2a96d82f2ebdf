package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"katalog/internal/models"
)

// MockCatalogRepository is an in-memory implementation of CatalogRepository.
// It applies the same filtering, sorting and pagination semantics as the
// GORM implementation, which makes it usable both for local runs and tests.
type MockCatalogRepository struct {
	catalogs map[uint]models.Catalog
	nextID   uint
	mu       sync.RWMutex
}

// NewMockCatalogRepository creates a new instance of MockCatalogRepository.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		catalogs: make(map[uint]models.Catalog),
		nextID:   1,
	}
}

// List returns one page of catalog entries matching the query.
func (r *MockCatalogRepository) List(query models.CatalogQuery) (*models.CatalogPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Catalog, 0, len(r.catalogs))
	for _, c := range r.catalogs {
		if matchesFilters(c, query.Filters) {
			matched = append(matched, c)
		}
	}
	// Stable base order so pagination windows do not shuffle between calls.
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if query.Sort != nil {
		sortCatalogs(matched, *query.Sort)
	}

	total := int64(len(matched))
	pageSize := query.Pagination.PageSize
	if !models.AllowedPageSize(pageSize) {
		pageSize = models.DefaultPageSize
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	page := query.Pagination.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &models.CatalogPage{
		Items: matched[start:end],
		Pagination: models.PaginationEcho{
			TotalItems: total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}, nil
}

func matchesFilters(c models.Catalog, filters models.CatalogFilters) bool {
	switch filters.Type {
	case models.TypeFilterProduct:
		if c.Type != models.CatalogTypeProduct {
			return false
		}
	case models.TypeFilterService:
		if c.Type != models.CatalogTypeService {
			return false
		}
	}
	text := strings.ToLower(strings.TrimSpace(filters.Text))
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Code), text) ||
		strings.Contains(strings.ToLower(c.Name), text) ||
		strings.Contains(strings.ToLower(c.Description), text)
}

func sortCatalogs(items []models.Catalog, by models.CatalogSort) {
	less := func(a, b models.Catalog) bool {
		switch by.Field {
		case models.SortFieldCode:
			return a.Code < b.Code
		case models.SortFieldName:
			return a.Name < b.Name
		case models.SortFieldDescription:
			return a.Description < b.Description
		case models.SortFieldUnitPrice:
			return a.UnitPrice < b.UnitPrice
		case models.SortFieldTaxRate:
			return a.TaxRate < b.TaxRate
		case models.SortFieldType:
			return a.Type < b.Type
		case models.SortFieldStatus:
			return !a.Disabled && b.Disabled
		}
		return a.ID < b.ID
	}
	sort.SliceStable(items, func(i, j int) bool {
		if by.Direction == models.SortDirectionDesc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// GetByID returns a catalog entry by its ID.
func (r *MockCatalogRepository) GetByID(id uint) (*models.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	catalog, ok := r.catalogs[id]
	if !ok {
		return nil, fmt.Errorf("catalog with ID %d not found", id)
	}
	return &catalog, nil
}

// GetByCode returns a catalog entry by its article code.
func (r *MockCatalogRepository) GetByCode(code string) (*models.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, catalog := range r.catalogs {
		if catalog.Code == code {
			c := catalog
			return &c, nil
		}
	}
	return nil, fmt.Errorf("catalog with code %s not found", code)
}

// Create adds a new catalog entry, assigning the next free ID when none is
// set.
func (r *MockCatalogRepository) Create(catalog *models.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if catalog.ID == 0 {
		catalog.ID = r.nextID
	}
	if catalog.ID >= r.nextID {
		r.nextID = catalog.ID + 1
	}
	r.catalogs[catalog.ID] = *catalog
	return nil
}

// Update modifies an existing catalog entry.
func (r *MockCatalogRepository) Update(catalog *models.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.catalogs[catalog.ID]
	if !ok {
		return fmt.Errorf("catalog with ID %d not found for update", catalog.ID)
	}
	r.catalogs[catalog.ID] = *catalog
	return nil
}

// Delete removes a catalog entry by its ID.
func (r *MockCatalogRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.catalogs[id]
	if !ok {
		return fmt.Errorf("catalog with ID %d not found for deletion", id)
	}
	delete(r.catalogs, id)
	return nil
}
