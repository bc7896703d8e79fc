package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ierrors "github.com/abgdnv/inventory_service/internal/errors"
	"github.com/abgdnv/inventory_service/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockService is a mock implementation of the ProductService interface
type mockService struct {
	dto   *service.ProductDto
	list  []service.ProductDto
	error error
}

func (m *mockService) FindByID(_ context.Context, _ uuid.UUID) (*service.ProductDto, error) {
	return m.dto, m.error
}

func (m *mockService) FindAll(_ context.Context) ([]service.ProductDto, error) {
	return m.list, m.error
}

func (m *mockService) FindLowStock(_ context.Context) ([]service.ProductDto, error) {
	return m.list, m.error
}

func (m *mockService) Create(_ context.Context, _ service.ProductCreateDto) (*service.ProductDto, error) {
	return m.dto, m.error
}

func (m *mockService) Update(_ context.Context, _ uuid.UUID, _ service.ProductUpdateDto) (*service.ProductDto, error) {
	return m.dto, m.error
}

func (m *mockService) DeleteByID(_ context.Context, _ uuid.UUID) error {
	return m.error
}

func (m *mockService) IncreaseStock(_ context.Context, _ uuid.UUID, _ int32) (*service.ProductDto, error) {
	return m.dto, m.error
}

func (m *mockService) DecreaseStock(_ context.Context, _ uuid.UUID, _ int32) (*service.ProductDto, error) {
	return m.dto, m.error
}

func newTestHandler(svc service.ProductService) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(svc, logger)
}

const testID = "123e4567-e89b-12d3-a456-426614174000"

func Test_Create(t *testing.T) {
	testCases := []struct {
		name           string
		mockSvc        *mockService
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success - product created",
			mockSvc: &mockService{
				dto: &service.ProductDto{ID: testID, Name: "Toy", Description: "A toy", StockQuantity: 50, LowStockThreshold: 5},
			},
			body:           `{"name": "Toy", "description": "A toy", "stockQuantity": 50, "lowStockThreshold": 5}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "Toy", "description": "A toy", "stockQuantity": 50, "lowStockThreshold": 5}`,
		},
		{
			name:           "Error - malformed body",
			mockSvc:        &mockService{},
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Request body is missing or Invalid body"}`,
		},
		{
			name:           "Error - negative stock",
			mockSvc:        &mockService{},
			body:           `{"name": "Toy", "stockQuantity": -5, "lowStockThreshold": 5}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "stock cannot be smaller than 0"}`,
		},
		{
			name:           "Error - negative threshold",
			mockSvc:        &mockService{},
			body:           `{"name": "Toy", "stockQuantity": 5, "lowStockThreshold": -1}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Threshold cannot be smaller than 0"}`,
		},
		{
			name:           "Error - both negative reports stock first",
			mockSvc:        &mockService{},
			body:           `{"name": "Toy", "stockQuantity": -5, "lowStockThreshold": -1}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "stock cannot be smaller than 0"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := newTestHandler(tc.mockSvc)
			req := httptest.NewRequest(http.MethodPost, "/product", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			// when
			handler.Create(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_FindByID(t *testing.T) {
	testCases := []struct {
		name           string
		mockSvc        *mockService
		pathID         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success - product found",
			mockSvc: &mockService{
				dto: &service.ProductDto{ID: testID, Name: "Toy", StockQuantity: 50, LowStockThreshold: 5},
			},
			pathID:         testID,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "Toy", "description": "", "stockQuantity": 50, "lowStockThreshold": 5}`,
		},
		{
			name:           "Error - invalid ID",
			mockSvc:        &mockService{},
			pathID:         "abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Invalid ID: abc"}`,
		},
		{
			name: "Error - product not found",
			mockSvc: &mockService{
				error: ierrors.ErrProductNotFound,
			},
			pathID:         testID,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error": "Product with ID 123e4567-e89b-12d3-a456-426614174000 not found"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := newTestHandler(tc.mockSvc)
			req := httptest.NewRequest(http.MethodGet, "/product/"+tc.pathID, nil)
			req.SetPathValue("id", tc.pathID)
			rr := httptest.NewRecorder()
			// when
			handler.FindByID(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_FindAll(t *testing.T) {
	// given
	handler := newTestHandler(&mockService{
		list: []service.ProductDto{{ID: testID, Name: "Toy", StockQuantity: 50, LowStockThreshold: 5}},
	})
	req := httptest.NewRequest(http.MethodGet, "/product", nil)
	rr := httptest.NewRecorder()
	// when
	handler.FindAll(rr, req)
	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "Toy", "description": "", "stockQuantity": 50, "lowStockThreshold": 5}]`, rr.Body.String())
}

func Test_Update(t *testing.T) {
	testCases := []struct {
		name           string
		mockSvc        *mockService
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success - product updated",
			mockSvc: &mockService{
				dto: &service.ProductDto{ID: testID, Name: "Updated", StockQuantity: 10, LowStockThreshold: 3},
			},
			body:           `{"name": "Updated", "stockQuantity": 10, "lowStockThreshold": 3}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "Updated", "description": "", "stockQuantity": 10, "lowStockThreshold": 3}`,
		},
		{
			name: "Error - product not found",
			mockSvc: &mockService{
				error: ierrors.ErrProductNotFound,
			},
			body:           `{"name": "Updated", "stockQuantity": 10, "lowStockThreshold": 3}`,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error": "Product with ID 123e4567-e89b-12d3-a456-426614174000 not found"}`,
		},
		{
			name:           "Error - negative stock",
			mockSvc:        &mockService{},
			body:           `{"name": "Updated", "stockQuantity": -1, "lowStockThreshold": 3}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "stock cannot be smaller than 0"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := newTestHandler(tc.mockSvc)
			req := httptest.NewRequest(http.MethodPut, "/product/"+testID, strings.NewReader(tc.body))
			req.SetPathValue("id", testID)
			rr := httptest.NewRecorder()
			// when
			handler.Update(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_DeleteByID(t *testing.T) {
	testCases := []struct {
		name           string
		mockSvc        *mockService
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success - product deleted",
			mockSvc:        &mockService{},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success": "Deleted successfully"}`,
		},
		{
			name: "Error - product not found",
			mockSvc: &mockService{
				error: ierrors.ErrProductNotFound,
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error": "Product with ID 123e4567-e89b-12d3-a456-426614174000 not found"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := newTestHandler(tc.mockSvc)
			req := httptest.NewRequest(http.MethodDelete, "/product/"+testID, nil)
			req.SetPathValue("id", testID)
			rr := httptest.NewRecorder()
			// when
			handler.DeleteByID(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_IncreaseStock(t *testing.T) {
	testCases := []struct {
		name           string
		mockSvc        *mockService
		query          string
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success - stock increased",
			mockSvc: &mockService{
				dto: &service.ProductDto{ID: testID, Name: "Toy", StockQuantity: 60, LowStockThreshold: 5},
			},
			query:          "?quantity=10",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "Toy", "description": "", "stockQuantity": 60, "lowStockThreshold": 5}`,
		},
		{
			name:           "Error - zero quantity",
			mockSvc:        &mockService{},
			query:          "?quantity=0",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Quantity must be greater than 0"}`,
		},
		{
			name:           "Error - negative quantity",
			mockSvc:        &mockService{},
			query:          "?quantity=-10",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Quantity must be greater than 0"}`,
		},
		{
			name:           "Error - quantity missing",
			mockSvc:        &mockService{},
			query:          "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Quantity must be greater than 0"}`,
		},
		{
			name:           "Error - quantity not a number",
			mockSvc:        &mockService{},
			query:          "?quantity=ten",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Quantity must be greater than 0"}`,
		},
		{
			name: "Error - stock limit exceeded",
			mockSvc: &mockService{
				error: ierrors.ErrStockOverflow,
			},
			query:          "?quantity=1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Stock quantity limit exceeded"}`,
		},
		{
			name: "Error - product not found",
			mockSvc: &mockService{
				error: ierrors.ErrProductNotFound,
			},
			query:          "?quantity=10",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error": "Product with ID 123e4567-e89b-12d3-a456-426614174000 not found"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := newTestHandler(tc.mockSvc)
			req := httptest.NewRequest(http.MethodPost, "/products/"+testID+"/increase-stock"+tc.query, nil)
			req.SetPathValue("id", testID)
			rr := httptest.NewRecorder()
			// when
			handler.IncreaseStock(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_DecreaseStock(t *testing.T) {
	testCases := []struct {
		name           string
		mockSvc        *mockService
		query          string
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success - stock decreased",
			mockSvc: &mockService{
				dto: &service.ProductDto{ID: testID, Name: "Toy", StockQuantity: 30, LowStockThreshold: 5},
			},
			query:          "?quantity=20",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "Toy", "description": "", "stockQuantity": 30, "lowStockThreshold": 5}`,
		},
		{
			name: "Error - insufficient stock",
			mockSvc: &mockService{
				error: ierrors.ErrInsufficientStock,
			},
			query:          "?quantity=100",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Insufficient stock available"}`,
		},
		{
			name:           "Error - zero quantity",
			mockSvc:        &mockService{},
			query:          "?quantity=0",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Quantity must be greater than 0"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := newTestHandler(tc.mockSvc)
			req := httptest.NewRequest(http.MethodPost, "/products/"+testID+"/decrease-stock"+tc.query, nil)
			req.SetPathValue("id", testID)
			rr := httptest.NewRecorder()
			// when
			handler.DecreaseStock(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_FindLowStock(t *testing.T) {
	// given
	handler := newTestHandler(&mockService{
		list: []service.ProductDto{{ID: testID, Name: "Toy", StockQuantity: 2, LowStockThreshold: 5}},
	})
	req := httptest.NewRequest(http.MethodGet, "/products/low-stock", nil)
	rr := httptest.NewRecorder()
	// when
	handler.FindLowStock(rr, req)
	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "Toy", "description": "", "stockQuantity": 2, "lowStockThreshold": 5}]`, rr.Body.String())
}

func Test_HealthCheck(t *testing.T) {
	// given
	handler := newTestHandler(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	// when
	handler.HealthCheck(rr, req)
	// then
	require.Equal(t, http.StatusOK, rr.Code)
}
