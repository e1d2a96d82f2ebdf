// Package listview implements the state engine behind the catalog list view:
// it keeps filter, sort and pagination state in sync with an external data
// source and reconciles the server's responses back into display state.
package listview

import (
	"fmt"

	"katalog/internal/models"
)

// Fetcher is the external data source the controller issues listing requests
// to. Every request carries the complete current query, never a partial diff.
type Fetcher interface {
	FetchList(query models.CatalogQuery) (*models.CatalogPage, error)
}

// Phase is the display state of the list panel. A failed fetch is distinct
// from a valid zero-result response: the former renders a retry affordance,
// the latter an "empty, try adjusting filters" message.
type Phase int

const (
	PhaseIdle Phase = iota // nothing fetched yet
	PhaseLoaded
	PhaseEmpty
	PhaseFailed
)

// Controller owns the query state of one catalog list view and drives the
// fetch collaborator. It is single-writer: all methods must be called from
// the one goroutine that owns the view.
//
// Requests are neither queued nor coalesced; each triggering action issues
// exactly one request with the state as of that action. Responses carry the
// sequence number their request was issued with, and a response is applied
// only if its sequence number exceeds the highest applied so far, so a stale
// slow response never overwrites newer results (last-triggered-wins).
type Controller struct {
	fetcher Fetcher

	query     models.CatalogQuery
	rows      []models.Catalog
	echo      models.PaginationEcho
	selection *Selection

	phase   Phase
	lastErr error

	seq     uint64 // last issued request sequence number
	applied uint64 // highest sequence number applied so far
	lastReq models.CatalogQuery
	fetched bool
}

// NewController creates a controller with default query state: no text
// filter, all types, no sort, page 1, page size 10.
func NewController(fetcher Fetcher) *Controller {
	return &Controller{
		fetcher:   fetcher,
		query:     models.DefaultQuery(),
		selection: NewSelection(),
		phase:     PhaseIdle,
	}
}

// SetTextFilter stages a new text filter value. No fetch is issued; staged
// filters go live on the next ApplyFilters. Any filter edit invalidates the
// current page number, so the page resets to 1.
func (c *Controller) SetTextFilter(text string) {
	c.query.Filters.Text = text
	c.query.Pagination.Page = 1
}

// SetTypeFilter stages a new type filter value. Like SetTextFilter it does
// not fetch and resets the page to 1.
func (c *Controller) SetTypeFilter(filter models.TypeFilter) {
	c.query.Filters.Type = filter
	c.query.Pagination.Page = 1
}

// ApplyFilters issues a fetch with the currently staged filters and the
// current sort and pagination.
func (c *Controller) ApplyFilters() {
	c.dispatch()
}

// ResetFilters restores the filters to their defaults, resets the page to 1
// and issues a fetch.
func (c *Controller) ResetFilters() {
	c.query.Filters = models.DefaultFilters()
	c.query.Pagination.Page = 1
	c.dispatch()
}

// SetSort sorts by the given field. Re-sorting on the current field toggles
// the direction; switching fields starts ascending. Fields outside the
// allow-list are a silent no-op. The current page window is kept unchanged.
func (c *Controller) SetSort(field string) {
	parsed, err := models.ParseSortField(field)
	if err != nil {
		return
	}
	direction := models.SortDirectionAsc
	if c.query.Sort != nil && c.query.Sort.Field == parsed && c.query.Sort.Direction == models.SortDirectionAsc {
		direction = models.SortDirectionDesc
	}
	// A fresh value each time keeps the request snapshot saved for Retry
	// immutable.
	c.query.Sort = &models.CatalogSort{Field: parsed, Direction: direction}
	c.dispatch()
}

// SetPage navigates to page n and issues a fetch. Pages outside
// [1, totalPages] of the last pagination echo are a no-op.
func (c *Controller) SetPage(n int) {
	if n < 1 || n > c.echo.TotalPages {
		return
	}
	c.query.Pagination.Page = n
	c.dispatch()
}

// SetPageSize changes the page size, resets the page to 1 and issues a
// fetch. Sizes outside the allowed set are a no-op.
func (c *Controller) SetPageSize(n int) {
	if !models.AllowedPageSize(n) {
		return
	}
	c.query.Pagination.PageSize = n
	c.query.Pagination.Page = 1
	c.dispatch()
}

// Refresh issues a fetch with the current query. Used for the initial load
// and after external mutations (create, delete) invalidate the row set.
func (c *Controller) Refresh() {
	c.dispatch()
}

// Retry re-issues the last request unchanged. It is a no-op before the first
// fetch.
func (c *Controller) Retry() {
	if !c.fetched {
		return
	}
	c.issue(c.lastReq)
}

func (c *Controller) dispatch() {
	c.issue(c.query)
}

func (c *Controller) issue(req models.CatalogQuery) {
	c.seq++
	seq := c.seq
	c.lastReq = req
	c.fetched = true
	page, err := c.fetcher.FetchList(req)
	c.apply(seq, page, err)
}

// apply reconciles one response into display state. Responses older than the
// newest applied one are dropped.
func (c *Controller) apply(seq uint64, page *models.CatalogPage, err error) {
	if seq <= c.applied {
		return // stale response, a newer one already won
	}
	c.applied = seq

	if err == nil && page == nil {
		err = fmt.Errorf("fetch returned no payload")
	}
	if err != nil {
		c.phase = PhaseFailed
		c.lastErr = err
		return
	}

	c.lastErr = nil
	c.rows = page.Items
	c.echo = page.Pagination

	// The server is authoritative for the page window actually served.
	c.query.Pagination.Page = c.echo.Page
	c.query.Pagination.PageSize = c.echo.PageSize

	// Rows changed identity, so stale checkmarks must not survive.
	c.selection.Clear()

	if len(c.rows) == 0 {
		c.phase = PhaseEmpty
	} else {
		c.phase = PhaseLoaded
	}
}

// Rows returns the currently rendered page of results.
func (c *Controller) Rows() []models.Catalog {
	return c.rows
}

// Echo returns the last pagination echo received from the server.
func (c *Controller) Echo() models.PaginationEcho {
	return c.echo
}

// Query returns the current query state.
func (c *Controller) Query() models.CatalogQuery {
	return c.query
}

// Phase returns the current display state of the list panel.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Err returns the error of the last failed fetch, or nil.
func (c *Controller) Err() error {
	return c.lastErr
}

// Selection returns the row selection of the current page.
func (c *Controller) Selection() *Selection {
	return c.selection
}
