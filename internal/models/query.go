package models

import "fmt"

// TypeFilter narrows a catalog listing to one entry kind.
type TypeFilter string

const (
	TypeFilterAll     TypeFilter = "All"
	TypeFilterProduct TypeFilter = "Product"
	TypeFilterService TypeFilter = "Service"
)

// CatalogFilters holds the filter values of a catalog listing.
type CatalogFilters struct {
	Text string
	Type TypeFilter
}

// DefaultFilters returns the filter values a fresh list view starts with.
func DefaultFilters() CatalogFilters {
	return CatalogFilters{Text: "", Type: TypeFilterAll}
}

// SortDirection represents ordering direction for sortable columns.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortField enumerates the columns a catalog listing may be sorted by.
type SortField string

const (
	SortFieldCode        SortField = "code"
	SortFieldName        SortField = "name"
	SortFieldDescription SortField = "description"
	SortFieldUnitPrice   SortField = "unitPrice"
	SortFieldTaxRate     SortField = "taxRate"
	SortFieldType        SortField = "type"
	SortFieldStatus      SortField = "status"
)

// ParseSortField validates a sort field against the allow-list. Unrecognized
// values are rejected, never coerced to a default.
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case SortFieldCode, SortFieldName, SortFieldDescription, SortFieldUnitPrice,
		SortFieldTaxRate, SortFieldType, SortFieldStatus:
		return SortField(s), nil
	}
	return "", fmt.Errorf("unknown sort field: %q", s)
}

// CatalogSort captures ordering preferences for catalog listings.
type CatalogSort struct {
	Field     SortField
	Direction SortDirection
}

// Allowed page sizes for catalog listings.
var AllowedPageSizes = []int{10, 20, 50, 100}

// DefaultPageSize is the page size a fresh list view starts with.
const DefaultPageSize = 10

// AllowedPageSize reports whether n is a permitted page size.
func AllowedPageSize(n int) bool {
	for _, size := range AllowedPageSizes {
		if n == size {
			return true
		}
	}
	return false
}

// Pagination holds the requested page window of a catalog listing.
type Pagination struct {
	Page     int
	PageSize int
}

// PaginationEcho is the server's authoritative restatement of the page window
// actually served: the effective page may differ from the requested one, for
// example when the requested page lies past the end of the result set.
type PaginationEcho struct {
	TotalItems int64 `json:"totalItems"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// CatalogQuery is a complete, self-consistent listing request: filters, sort
// and pagination are always sent together, never as a partial diff.
type CatalogQuery struct {
	Filters    CatalogFilters
	Sort       *CatalogSort // nil means default order
	Pagination Pagination
}

// DefaultQuery returns the query a fresh list view starts with.
func DefaultQuery() CatalogQuery {
	return CatalogQuery{
		Filters:    DefaultFilters(),
		Sort:       nil,
		Pagination: Pagination{Page: 1, PageSize: DefaultPageSize},
	}
}

// CatalogPage is one page of listing results together with the server's
// pagination echo.
type CatalogPage struct {
	Items      []Catalog      `json:"items"`
	Pagination PaginationEcho `json:"pagination"`
}
