package models

import (
	"fmt"
	"time"
)

// CatalogType is the canonical representation of a catalog entry kind.
// The wire format uses a numeric code (0 = Product, 1 = Service); conversion
// happens only at the boundaries via CatalogTypeFromCode and Code.
type CatalogType string

const (
	CatalogTypeProduct CatalogType = "Product"
	CatalogTypeService CatalogType = "Service"
)

// Numeric wire codes for CatalogType.
const (
	catalogTypeProductCode = 0
	catalogTypeServiceCode = 1
)

// CatalogTypeFromCode decodes the numeric wire representation of a catalog
// type. Unknown codes are rejected, never coerced.
func CatalogTypeFromCode(code int) (CatalogType, error) {
	switch code {
	case catalogTypeProductCode:
		return CatalogTypeProduct, nil
	case catalogTypeServiceCode:
		return CatalogTypeService, nil
	}
	return "", fmt.Errorf("unknown catalog type code: %d", code)
}

// Code encodes the catalog type into its numeric wire representation.
func (t CatalogType) Code() (int, error) {
	switch t {
	case CatalogTypeProduct:
		return catalogTypeProductCode, nil
	case CatalogTypeService:
		return catalogTypeServiceCode, nil
	}
	return 0, fmt.Errorf("unknown catalog type: %q", t)
}

// Catalog represents a catalog entry (a sellable product or service).
// An ID of 0 means the record is a draft pending creation.
type Catalog struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Code        string      `json:"code" gorm:"uniqueIndex;type:varchar(64)"`
	Name        string      `json:"name" gorm:"type:varchar(255)" validate:"required"`
	Description string      `json:"description" gorm:"type:varchar(500)" validate:"omitempty,min=3"`
	UnitPrice   float64     `json:"unit_price" validate:"gte=0"`
	TaxRate     float64     `json:"tax_rate" validate:"gte=0,lte=100"`
	Type        CatalogType `json:"type" gorm:"type:varchar(16)"`
	Disabled    bool        `json:"disabled"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CatalogRow is the wire shape for catalog entries: lower-camel keys and a
// numeric type code, as consumed by list clients.
type CatalogRow struct {
	ID             uint    `json:"id"`
	CodeArticle    string  `json:"codeArticle"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	UnitPrice      float64 `json:"unitPrice"`
	DefaultTaxRate float64 `json:"defaultTaxRate"`
	Type           int     `json:"type"`
	IsDisabled     bool    `json:"isDisabled"`
}

// ToRow converts a catalog entry into its wire row shape.
func (c Catalog) ToRow() (CatalogRow, error) {
	code, err := c.Type.Code()
	if err != nil {
		return CatalogRow{}, fmt.Errorf("failed to encode catalog %d: %w", c.ID, err)
	}
	return CatalogRow{
		ID:             c.ID,
		CodeArticle:    c.Code,
		Name:           c.Name,
		Description:    c.Description,
		UnitPrice:      c.UnitPrice,
		DefaultTaxRate: c.TaxRate,
		Type:           code,
		IsDisabled:     c.Disabled,
	}, nil
}

// ToCatalog converts a wire row back into a catalog entry.
func (r CatalogRow) ToCatalog() (Catalog, error) {
	t, err := CatalogTypeFromCode(r.Type)
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{
		ID:          r.ID,
		Code:        r.CodeArticle,
		Name:        r.Name,
		Description: r.Description,
		UnitPrice:   r.UnitPrice,
		TaxRate:     r.DefaultTaxRate,
		Type:        t,
		Disabled:    r.IsDisabled,
	}, nil
}
