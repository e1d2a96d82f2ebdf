package repositories

import (
	"katalog/internal/models"
)

// CatalogRepository defines the interface for catalog data access. List
// performs the filtering, sorting and pagination server-side and echoes the
// page window actually served.
type CatalogRepository interface {
	List(query models.CatalogQuery) (*models.CatalogPage, error)
	GetByID(id uint) (*models.Catalog, error)
	GetByCode(code string) (*models.Catalog, error)
	Create(catalog *models.Catalog) error
	Update(catalog *models.Catalog) error
	Delete(id uint) error
}
