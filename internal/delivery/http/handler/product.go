package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/invtrack/inventory/internal/delivery/http/request"
	"github.com/invtrack/inventory/internal/delivery/http/response"
	"github.com/invtrack/inventory/internal/domain"
	"github.com/invtrack/inventory/internal/pkg/logger"
	"github.com/invtrack/inventory/internal/usecase/inventory"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service   *inventory.Service
	mailer    domain.Mailer
	recipient string
	logger    *logger.Logger
}

// NewProductHandler creates a new product handler. The recipient is the
// statically configured address for low-stock alerts.
func NewProductHandler(service *inventory.Service, mailer domain.Mailer, recipient string, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service:   service,
		mailer:    mailer,
		recipient: recipient,
		logger:    log,
	}
}

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	Name             string  `json:"name" validate:"required,min=1,max=255"`
	Description      *string `json:"description,omitempty"`
	Quantity         int     `json:"quantity" validate:"gte=0"`
	MinimalThreshold int     `json:"minimal_threshold"`
	CategoryID       int64   `json:"category_id" validate:"required"`
	UserID           int64   `json:"user_id"`
}

// WarningResponse wraps a product with a low-stock warning message
type WarningResponse struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

func (req *ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Name:             req.Name,
		Description:      req.Description,
		Quantity:         req.Quantity,
		MinimalThreshold: req.MinimalThreshold,
		CategoryID:       req.CategoryID,
		UserID:           req.UserID,
	}
}

// Create handles POST /api/v1/products
// @Summary Create a new product
// @Description Create a new inventory product
// @Tags Products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product details"
// @Success 201 {object} map[string]interface{} "Product created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product := req.toDomain()

	if err := h.service.Create(r.Context(), product); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, product)
}

// GetByID handles GET /api/v1/products/:id
// @Summary Get a product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, product)
}

// List handles GET /api/v1/products
// @Summary List all products
// @Tags Products
// @Produce json
// @Success 200 {object} map[string]interface{} "List of products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, products)
}

// ListByUser handles GET /api/v1/products/user/:userId
// @Summary List products owned by a user
// @Tags Products
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]interface{} "List of products"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Router /products/user/{userId} [get]
func (h *ProductHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetInt64Param(r, "userId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	products, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, products)
}

// ListByCategory handles GET /api/v1/products/category/:categoryId
// @Summary List products in a category
// @Tags Products
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {object} map[string]interface{} "List of products"
// @Failure 400 {object} map[string]string "Invalid category ID"
// @Router /products/category/{categoryId} [get]
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := request.GetInt64Param(r, "categoryId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	products, err := h.service.GetByCategoryID(r.Context(), categoryID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, products)
}

// ListBelowQuantity handles GET /api/v1/products/low?threshold=n
// @Summary List products with quantity below a threshold
// @Tags Products
// @Produce json
// @Param threshold query int true "Quantity threshold"
// @Success 200 {object} map[string]interface{} "List of products"
// @Failure 400 {object} map[string]string "Missing or invalid threshold"
// @Router /products/low [get]
func (h *ProductHandler) ListBelowQuantity(w http.ResponseWriter, r *http.Request) {
	threshold, err := request.GetIntQuery(r, "threshold")
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.service.GetBelowQuantity(r.Context(), threshold)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, products)
}

// ListLowStock handles GET /api/v1/products/low-stock
// @Summary List products at or below their minimal threshold
// @Tags Products
// @Produce json
// @Success 200 {object} map[string]interface{} "List of products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/low-stock [get]
func (h *ProductHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetLowStock(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, products)
}

// Search handles GET /api/v1/products/search
// @Summary List products matching optional filters, sorted
// @Description Filters (name, description, quantity, categoryId) are ANDed; absent filters are omitted
// @Tags Products
// @Produce json
// @Param name query string false "Case-insensitive name substring"
// @Param description query string false "Case-insensitive description substring"
// @Param quantity query int false "Exact quantity"
// @Param categoryId query int false "Category ID"
// @Param sortBy query string false "Sort field" default(id)
// @Param order query string false "Sort direction (asc/desc)" default(asc)
// @Success 200 {object} map[string]interface{} "List of products"
// @Failure 400 {object} map[string]string "Invalid filter or sort parameter"
// @Router /products/search [get]
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.service.ListFiltered(r.Context(), filter)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, products)
}

// SearchByUser handles GET /api/v1/products/user/:userId/search
// @Summary List a user's products matching optional filters, sorted
// @Tags Products
// @Produce json
// @Param userId path int true "User ID"
// @Param name query string false "Case-insensitive name substring"
// @Param description query string false "Case-insensitive description substring"
// @Param quantity query int false "Exact quantity"
// @Param categoryId query int false "Category ID"
// @Param sortBy query string false "Sort field" default(id)
// @Param order query string false "Sort direction (asc/desc)" default(asc)
// @Success 200 {object} map[string]interface{} "List of products"
// @Failure 400 {object} map[string]string "Invalid filter or sort parameter"
// @Router /products/user/{userId}/search [get]
func (h *ProductHandler) SearchByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetInt64Param(r, "userId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.service.ListFilteredByUser(r.Context(), userID, filter)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, products)
}

// Update handles PUT /api/v1/products/:id
// @Summary Update a product
// @Description Overwrite name, description, quantity, minimal threshold, category and owner
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Updated product details"
// @Success 200 {object} map[string]interface{} "Product updated successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.Update(r.Context(), id, req.toDomain())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, product)
}

// UpdateQuantity handles PATCH /api/v1/products/:id/quantity?quantity=n
// @Summary Update only a product's quantity
// @Description Sets the quantity; when the new level is at or below the minimal threshold an email alert is sent and a warning payload returned
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Param quantity query int true "New quantity"
// @Success 200 {object} map[string]interface{} "Updated product, wrapped in a warning when stock is low"
// @Failure 400 {object} map[string]string "Negative or missing quantity"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id}/quantity [patch]
func (h *ProductHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	quantity, err := request.GetIntQuery(r, "quantity")
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, low, err := h.service.UpdateQuantity(r.Context(), id, quantity)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if !low {
		response.Success(w, product)
		return
	}

	h.sendLowStockAlert(r, product)

	response.Success(w, WarningResponse{
		Message: "Product updated successfully. Warning: Quantity is less than or equal to the minimal threshold. An email notification has been sent.",
		Product: product,
	})
}

// sendLowStockAlert emails the configured recipient about a threshold breach.
// The quantity change is already persisted, so a delivery failure is logged
// but never turns the update into an error.
func (h *ProductHandler) sendLowStockAlert(r *http.Request, product *domain.Product) {
	subject := fmt.Sprintf("Low Stock Alert: %s", product.Name)
	body := fmt.Sprintf(
		"Dear user,\n\nThe product '%s' has reached or fallen below the minimal threshold of %d units.\nCurrent quantity: %d.\n\nPlease take appropriate action.",
		product.Name,
		product.MinimalThreshold,
		product.Quantity,
	)

	if err := h.mailer.Send(r.Context(), h.recipient, subject, body); err != nil {
		h.logger.WithFields(map[string]interface{}{
			"product_id": product.ID,
			"recipient":  h.recipient,
		}).Error("Failed to send low stock alert", err)
	}
}

// Delete handles DELETE /api/v1/products/:id
// @Summary Delete a product
// @Tags Products
// @Param id path int true "Product ID"
// @Success 204 "Product deleted successfully"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetInt64Param(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// parseFilter builds a domain.Filter from query parameters
func (h *ProductHandler) parseFilter(r *http.Request) (domain.Filter, error) {
	quantity, err := request.GetOptionalIntQuery(r, "quantity")
	if err != nil {
		return domain.Filter{}, err
	}

	categoryID, err := request.GetOptionalInt64Query(r, "categoryId")
	if err != nil {
		return domain.Filter{}, err
	}

	order, err := domain.ParseSortOrder(r.URL.Query().Get("order"))
	if err != nil {
		return domain.Filter{}, err
	}

	return domain.Filter{
		Name:        r.URL.Query().Get("name"),
		Description: r.URL.Query().Get("description"),
		Quantity:    quantity,
		CategoryID:  categoryID,
		SortBy:      r.URL.Query().Get("sortBy"),
		Order:       order,
	}, nil
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
