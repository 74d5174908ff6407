package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

// MockTransactionUseCase simula o use case para testes dos handlers
type MockTransactionUseCase struct {
	mock.Mock
}

func (m *MockTransactionUseCase) ProcessTransaction(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreateTransactionResponse), args.Error(1)
}

func (m *MockTransactionUseCase) GetTransaction(ctx context.Context, id string) (*TransactionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TransactionDetail), args.Error(1)
}

func (m *MockTransactionUseCase) ListTransactions(ctx context.Context, page, limit int, status string) (*ListTransactionsResponse, error) {
	args := m.Called(ctx, page, limit, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ListTransactionsResponse), args.Error(1)
}

func setupRouter(useCase TransactionUseCaseInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewTransactionHandler(useCase, otel.Tracer("test"), 100)

	r := gin.New()
	r.GET("/health", handler.HealthCheck)
	r.POST("/transactions/create", handler.CreateTransaction)
	r.GET("/transactions", handler.ListTransactions)
	r.GET("/transactions/:id", handler.GetTransaction)
	return r
}

func TestCreateTransactionHandler(t *testing.T) {
	useCase := new(MockTransactionUseCase)
	useCase.On("ProcessTransaction", mock.Anything, mock.AnythingOfType("main.CreateTransactionRequest")).
		Return(&CreateTransactionResponse{
			TransactionNumber: "txn_1001",
			Status:            StatusApproved,
			CreatedAt:         time.Now().Format(timeFormat),
			FraudProbability:  0.05,
		}, nil)

	r := setupRouter(useCase)

	body := `{
		"transaction_amount": 150.55,
		"is_nighttime": 1,
		"category": "shopping_pos",
		"transaction_location": "-95.7923, 36.1499",
		"job": "Naval architect",
		"state": "CA",
		"transaction_number": "txn_1001"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response CreateTransactionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "txn_1001", response.TransactionNumber)
	assert.Equal(t, StatusApproved, response.Status)
	assert.False(t, response.NotificationSent)
}

func TestCreateTransactionHandlerValidationError(t *testing.T) {
	useCase := new(MockTransactionUseCase)
	r := setupRouter(useCase)

	// transaction_amount ausente
	body := `{"category": "shopping_pos"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
	useCase.AssertNotCalled(t, "ProcessTransaction", mock.Anything, mock.Anything)
}

func TestCreateTransactionHandlerWorkflowFailure(t *testing.T) {
	useCase := new(MockTransactionUseCase)
	useCase.On("ProcessTransaction", mock.Anything, mock.AnythingOfType("main.CreateTransactionRequest")).
		Return(nil, ErrDuplicateTransaction)

	r := setupRouter(useCase)

	body := `{
		"transaction_amount": 10.0,
		"is_nighttime": 0,
		"category": "grocery_pos",
		"transaction_location": "-80.19, 25.76",
		"job": "Surveyor",
		"state": "FL",
		"transaction_number": "txn_1001"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["detail"], "transaction_number already exists")
}

func TestGetTransactionHandlerNotFound(t *testing.T) {
	useCase := new(MockTransactionUseCase)
	useCase.On("GetTransaction", mock.Anything, "60f1b2c3d4e5f6a7b8c9d0e1").
		Return(nil, ErrTransactionNotFound)

	r := setupRouter(useCase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions/60f1b2c3d4e5f6a7b8c9d0e1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "transaction not found")
}

func TestGetTransactionHandler(t *testing.T) {
	useCase := new(MockTransactionUseCase)
	useCase.On("GetTransaction", mock.Anything, "txn_1001").
		Return(&TransactionDetail{
			ID:                "60f1b2c3d4e5f6a7b8c9d0e1",
			TransactionNumber: "txn_1001",
			Status:            StatusFlagged,
			IsFraud:           true,
			NotificationSent:  true,
		}, nil)

	r := setupRouter(useCase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions/txn_1001", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var detail TransactionDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, StatusFlagged, detail.Status)
	assert.True(t, detail.IsFraud)
}

func TestListTransactionsHandlerInvalidStatus(t *testing.T) {
	useCase := new(MockTransactionUseCase)
	r := setupRouter(useCase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions?status=completed", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	for _, status := range ValidStatuses {
		assert.Contains(t, w.Body.String(), status)
	}
	useCase.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListTransactionsHandlerInvalidPagination(t *testing.T) {
	useCase := new(MockTransactionUseCase)
	r := setupRouter(useCase)

	for _, query := range []string{"page=0", "page=abc", "limit=0", "limit=101", "limit=xyz"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/transactions?"+query, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q should be rejected", query)
	}
	useCase.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListTransactionsHandlerDefaults(t *testing.T) {
	useCase := new(MockTransactionUseCase)
	useCase.On("ListTransactions", mock.Anything, 1, 10, "").
		Return(&ListTransactionsResponse{
			Success:      true,
			Transactions: []*TransactionDetail{},
			Page:         1,
			Limit:        10,
			Total:        0,
			Pages:        0,
		}, nil)

	r := setupRouter(useCase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	useCase.AssertExpectations(t)
}

func TestHealthCheckHandler(t *testing.T) {
	r := setupRouter(new(MockTransactionUseCase))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
