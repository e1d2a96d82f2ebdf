package repositories

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"katalog/internal/models"
)

// sortColumns maps the allow-listed sort fields onto database columns. The
// allow-list itself is enforced by models.ParseSortField before a query is
// built; unmapped fields fall back to default order.
var sortColumns = map[models.SortField]string{
	models.SortFieldCode:        "code",
	models.SortFieldName:        "name",
	models.SortFieldDescription: "description",
	models.SortFieldUnitPrice:   "unit_price",
	models.SortFieldTaxRate:     "tax_rate",
	models.SortFieldType:        "type",
	models.SortFieldStatus:      "disabled",
}

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db: db,
	}
}

// List retrieves one page of catalog entries matching the query. The echo
// reports the page actually served: a requested page past the end is clamped
// to the last page rather than returning an empty window.
func (r *GORMCatalogRepository) List(query models.CatalogQuery) (*models.CatalogPage, error) {
	tx := r.db.Model(&models.Catalog{})

	if text := strings.TrimSpace(query.Filters.Text); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		tx = tx.Where(
			"LOWER(code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	switch query.Filters.Type {
	case models.TypeFilterProduct:
		tx = tx.Where("type = ?", models.CatalogTypeProduct)
	case models.TypeFilterService:
		tx = tx.Where("type = ?", models.CatalogTypeService)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count catalogs: %w", err)
	}

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

	if query.Sort != nil {
		if column, ok := sortColumns[query.Sort.Field]; ok {
			direction := "ASC"
			if query.Sort.Direction == models.SortDirectionDesc {
				direction = "DESC"
			}
			tx = tx.Order(fmt.Sprintf("%s %s", column, direction))
		}
	}

	var items []models.Catalog
	offset := (page - 1) * pageSize
	if err := tx.Offset(offset).Limit(pageSize).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}

	return &models.CatalogPage{
		Items: items,
		Pagination: models.PaginationEcho{
			TotalItems: total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}, nil
}

// GetByID retrieves a single catalog entry by its ID from the database.
func (r *GORMCatalogRepository) GetByID(id uint) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := r.db.First(&catalog, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("catalog with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get catalog by ID %d: %w", id, err)
	}
	return &catalog, nil
}

// GetByCode retrieves a single catalog entry by its article code.
func (r *GORMCatalogRepository) GetByCode(code string) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := r.db.First(&catalog, "code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("catalog with code %s not found", code)
		}
		return nil, fmt.Errorf("failed to get catalog by code %s: %w", code, err)
	}
	return &catalog, nil
}

// Create creates a new catalog entry in the database.
func (r *GORMCatalogRepository) Create(catalog *models.Catalog) error {
	if err := r.db.Create(catalog).Error; err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}
	return nil
}

// Update updates an existing catalog entry in the database.
func (r *GORMCatalogRepository) Update(catalog *models.Catalog) error {
	res := r.db.Save(catalog) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update catalog: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("catalog with ID %d not found for update", catalog.ID)
	}
	return nil
}

// Delete removes a catalog entry by its ID.
func (r *GORMCatalogRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Catalog{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete catalog: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("catalog with ID %d not found for deletion", id)
	}
	return nil
}
