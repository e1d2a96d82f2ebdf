package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"katalog/internal/forms"
	"katalog/internal/models"
	"katalog/internal/permissions"
	"katalog/internal/services"
)

// CatalogHandler handles HTTP requests for catalog entries.
type CatalogHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	catalogRoutes := router.Group("/catalogs")
	catalogRoutes.Get("/", h.HandleListCatalogs)
	catalogRoutes.Get("/:id", h.HandleGetCatalog)
	catalogRoutes.Post("/", h.HandleCreateCatalog)
	catalogRoutes.Put("/:id", h.HandleUpdateCatalog)
	catalogRoutes.Delete("/:id", h.HandleDeleteCatalog)
}

// roleFromContext reads the acting user's role stored by the auth
// middleware. A missing or malformed value stays empty and is denied by the
// permission gate.
func roleFromContext(c *fiber.Ctx) permissions.Role {
	if role, ok := c.Locals("role").(string); ok {
		return permissions.Role(role)
	}
	return ""
}

// parseListQuery builds a complete catalog query from the request's query
// parameters. Unknown sort fields and page sizes fall back to defaults; the
// allow-list is never silently widened.
func parseListQuery(c *fiber.Ctx) models.CatalogQuery {
	query := models.DefaultQuery()

	query.Filters.Text = c.Query("text")
	switch models.TypeFilter(c.Query("type")) {
	case models.TypeFilterProduct:
		query.Filters.Type = models.TypeFilterProduct
	case models.TypeFilterService:
		query.Filters.Type = models.TypeFilterService
	}

	if sortParam := c.Query("sort"); sortParam != "" {
		if field, err := models.ParseSortField(sortParam); err == nil {
			direction := models.SortDirectionAsc
			if c.Query("order") == string(models.SortDirectionDesc) {
				direction = models.SortDirectionDesc
			}
			query.Sort = &models.CatalogSort{Field: field, Direction: direction}
		}
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page >= 1 {
		query.Pagination.Page = page
	}
	if size, err := strconv.Atoi(c.Query("pageSize")); err == nil && models.AllowedPageSize(size) {
		query.Pagination.PageSize = size
	}

	return query
}

// HandleListCatalogs retrieves one page of catalog entries with
// server-driven filtering, sorting and pagination. The response carries the
// wire row shape and the authoritative pagination echo.
func (h *CatalogHandler) HandleListCatalogs(c *fiber.Ctx) error {
	query := parseListQuery(c)

	page, err := h.service.FetchList(query)
	if err != nil {
		log.Printf("Error listing catalogs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve catalogs",
			"error":   err.Error(),
		})
	}

	rows := make([]models.CatalogRow, 0, len(page.Items))
	for _, item := range page.Items {
		row, err := item.ToRow()
		if err != nil {
			log.Printf("Error encoding catalog %d: %v", item.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not encode catalogs",
				"error":   err.Error(),
			})
		}
		rows = append(rows, row)
	}

	return c.JSON(fiber.Map{
		"items":      rows,
		"pagination": page.Pagination,
	})
}

// HandleGetCatalog retrieves a single catalog entry by its ID.
func (h *CatalogHandler) HandleGetCatalog(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid catalog ID",
		})
	}

	catalog, err := h.service.GetCatalogByID(uint(id))
	if err != nil {
		log.Printf("Error getting catalog by ID %d: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Catalog not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve catalog",
			"error":   err.Error(),
		})
	}

	row, err := catalog.ToRow()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not encode catalog",
			"error":   err.Error(),
		})
	}
	return c.JSON(row)
}

// decodeCatalogBody parses a wire row from the request body into a catalog
// entry, converting the numeric type code at the boundary.
func (h *CatalogHandler) decodeCatalogBody(c *fiber.Ctx) (*models.Catalog, error) {
	var row models.CatalogRow
	if err := c.BodyParser(&row); err != nil {
		return nil, err
	}
	catalog, err := row.ToCatalog()
	if err != nil {
		return nil, err
	}
	catalog.Name = strings.TrimSpace(catalog.Name)
	catalog.Description = strings.TrimSpace(catalog.Description)
	return &catalog, nil
}

// validationFailureResponse renders validator errors in the field->message
// shape form clients merge into their error state.
func validationFailureResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	fieldErrors := make(map[string][]string)
	for _, e := range validationErrors {
		fieldErrors[e.Field()] = append(fieldErrors[e.Field()], "Field '"+e.Field()+"' failed on the '"+e.Tag()+"' tag")
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message":     "Validation failed",
		"fieldErrors": fieldErrors,
	})
}

// HandleCreateCatalog creates a new catalog entry. Only roles allowed to
// edit may call it.
func (h *CatalogHandler) HandleCreateCatalog(c *fiber.Ctx) error {
	if !permissions.CanEdit(roleFromContext(c)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not allowed to create catalog entries",
		})
	}

	catalog, err := h.decodeCatalogBody(c)
	if err != nil {
		log.Printf("Error parsing create catalog request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	catalog.ID = 0 // Creation never reuses a client-supplied ID

	if err := h.validate.Struct(catalog); err != nil {
		return validationFailureResponse(c, err)
	}

	if err := h.service.CreateCatalog(catalog); err != nil {
		return rejectionResponse(c, "Could not create catalog", err)
	}

	row, err := catalog.ToRow()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not encode catalog",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// HandleUpdateCatalog updates an existing catalog entry. Only roles allowed
// to edit may call it.
func (h *CatalogHandler) HandleUpdateCatalog(c *fiber.Ctx) error {
	if !permissions.CanEdit(roleFromContext(c)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not allowed to update catalog entries",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid catalog ID",
		})
	}

	catalog, err := h.decodeCatalogBody(c)
	if err != nil {
		log.Printf("Error parsing update catalog request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	catalog.ID = uint(id)

	if err := h.validate.Struct(catalog); err != nil {
		return validationFailureResponse(c, err)
	}

	if err := h.service.UpdateCatalog(catalog); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Catalog not found",
			})
		}
		return rejectionResponse(c, "Could not update catalog", err)
	}

	row, err := catalog.ToRow()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not encode catalog",
			"error":   err.Error(),
		})
	}
	return c.JSON(row)
}

// HandleDeleteCatalog deletes a catalog entry. Only roles allowed to delete
// may call it.
func (h *CatalogHandler) HandleDeleteCatalog(c *fiber.Ctx) error {
	if !permissions.CanDelete(roleFromContext(c)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not allowed to delete catalog entries",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid catalog ID",
		})
	}

	if err := h.service.DeleteCatalog(uint(id)); err != nil {
		log.Printf("Error deleting catalog %d: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Catalog not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete catalog",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Catalog deleted successfully",
	})
}

// rejectionResponse maps a submission error onto the wire: field-scoped
// rejections keep their field breakdown (409), anything else is a generic
// failure (500).
func rejectionResponse(c *fiber.Ctx, message string, err error) error {
	log.Printf("%s: %v", message, err)
	if rejection, ok := err.(*forms.RejectionError); ok {
		body := fiber.Map{"message": message}
		if len(rejection.FieldErrors) > 0 {
			body["fieldErrors"] = rejection.FieldErrors
		}
		if rejection.Message != "" {
			body["message"] = rejection.Message
		}
		return c.Status(fiber.StatusConflict).JSON(body)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
