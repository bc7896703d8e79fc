// Package rest provides HTTP handlers for product and stock operations.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	ierrors "github.com/abgdnv/inventory_service/internal/errors"
	"github.com/abgdnv/inventory_service/internal/service"
	"github.com/abgdnv/inventory_service/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Error and success messages are part of the observable API contract and
// must not be reworded.
const (
	msgInvalidBody       = "Request body is missing or Invalid body"
	msgNegativeStock     = "stock cannot be smaller than 0"
	msgNegativeThreshold = "Threshold cannot be smaller than 0"
	msgInvalidQuantity   = "Quantity must be greater than 0"
	msgInsufficientStock = "Insufficient stock available"
	msgStockOverflow     = "Stock quantity limit exceeded"
	msgDeleted           = "Deleted successfully"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the inventory API with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the inventory service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/product", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.FindAll)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/low-stock", h.FindLowStock)
		r.Post("/{id}/increase-stock", h.IncreaseStock)
		r.Post("/{id}/decrease-stock", h.DecreaseStock)
	})

	r.Get("/healthz", h.HealthCheck)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var productCreateDto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&productCreateDto); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, msgInvalidBody)
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)
	if msg, ok := h.validateProductFields(r, mLogger, productCreateDto); !ok {
		web.RespondError(w, mLogger, http.StatusBadRequest, msg)
		return
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, newProduct)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ierrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Update replaces a product's mutable fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var productUpdateDto service.ProductUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&productUpdateDto); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, msgInvalidBody)
		return
	}
	// The incoming values are validated, not the stored record's.
	if msg, ok := h.validateProductFields(r, mLogger, productUpdateDto); !ok {
		web.RespondError(w, mLogger, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.service.Update(r.Context(), id, productUpdateDto)
	if err != nil {
		if errors.Is(err, ierrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, ierrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{"success": msgDeleted})
}

// FindLowStock retrieves products below their low stock threshold.
func (h *Handler) FindLowStock(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.service.FindLowStock(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving low stock products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch low stock products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved low stock products", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// IncreaseStock raises a product's stock quantity by the quantity query parameter.
func (h *Handler) IncreaseStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.service.IncreaseStock)
}

// DecreaseStock lowers a product's stock quantity by the quantity query parameter.
func (h *Handler) DecreaseStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.service.DecreaseStock)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request, adjust func(ctx context.Context, id uuid.UUID, quantity int32) (*service.ProductDto, error)) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	quantity, ok := web.ParseValidateGt(r, w, mLogger, "quantity", 0, msgInvalidQuantity)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received stock adjustment request", "ID", id, "quantity", quantity)

	updated, err := adjust(r.Context(), id, quantity)
	if err != nil {
		switch {
		case errors.Is(err, ierrors.ErrProductNotFound):
			mLogger.WarnContext(r.Context(), "Product not found for stock adjustment", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
		case errors.Is(err, ierrors.ErrInsufficientStock):
			mLogger.WarnContext(r.Context(), "Insufficient stock for adjustment", "ID", id, "quantity", quantity)
			web.RespondError(w, mLogger, http.StatusBadRequest, msgInsufficientStock)
		case errors.Is(err, ierrors.ErrInvalidQuantity):
			web.RespondError(w, mLogger, http.StatusBadRequest, msgInvalidQuantity)
		case errors.Is(err, ierrors.ErrStockOverflow):
			mLogger.WarnContext(r.Context(), "Stock increase exceeds the quantity limit", "ID", id, "quantity", quantity)
			web.RespondError(w, mLogger, http.StatusBadRequest, msgStockOverflow)
		default:
			mLogger.ErrorContext(r.Context(), "Error adjusting stock", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to adjust stock for product with ID %s", id))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Stock adjusted successfully", "ID", updated.ID, "NewStock", updated.StockQuantity)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateProductFields maps validator field errors onto the contract's
// error messages. Stock is checked before threshold, matching the original
// API's check order.
func (h *Handler) validateProductFields(r *http.Request, mLogger *slog.Logger, dto any) (string, bool) {
	err := h.validate.Struct(dto)
	if err == nil {
		return "", true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]bool, len(validationErrors))
		for _, fieldErr := range validationErrors {
			fields[fieldErr.Field()] = true
		}
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "fields", fields)
		if fields["StockQuantity"] {
			return msgNegativeStock, false
		}
		if fields["LowStockThreshold"] {
			return msgNegativeThreshold, false
		}
	}
	mLogger.WarnContext(r.Context(), "Error validating request body", "error", err)
	return msgInvalidBody, false
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
