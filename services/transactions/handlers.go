package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TransactionUseCaseInterface define a interface para o use case
type TransactionUseCaseInterface interface {
	ProcessTransaction(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error)
	GetTransaction(ctx context.Context, id string) (*TransactionDetail, error)
	ListTransactions(ctx context.Context, page, limit int, status string) (*ListTransactionsResponse, error)
}

// TransactionHandler contém os handlers HTTP
type TransactionHandler struct {
	useCase  TransactionUseCaseInterface
	tracer   trace.Tracer
	maxLimit int
}

// NewTransactionHandler cria uma nova instância de TransactionHandler
func NewTransactionHandler(useCase TransactionUseCaseInterface, tracer trace.Tracer, maxLimit int) *TransactionHandler {
	return &TransactionHandler{
		useCase:  useCase,
		tracer:   tracer,
		maxLimit: maxLimit,
	}
}

// CreateTransaction processa uma nova transação de cartão de crédito
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_transaction")
	defer span.End()

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.Float64("transaction_amount", req.TransactionAmount),
		attribute.String("category", req.Category),
	)

	response, err := h.useCase.ProcessTransaction(ctx, req)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetTransaction busca uma transação por identificador ou transaction_number
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.useCase.GetTransaction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "transaction not found with id: " + id})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ListTransactions lista transações com paginação e filtro opcional de status
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "page must be an integer >= 1"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > h.maxLimit {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "limit must be an integer between 1 and " + strconv.Itoa(h.maxLimit),
		})
		return
	}

	status := c.Query("status")
	if status != "" && !IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "invalid status, must be one of: " + strings.Join(ValidStatuses, ", "),
		})
		return
	}

	response, err := h.useCase.ListTransactions(c.Request.Context(), page, limit, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck verifica a saúde do serviço, sem checar dependências
func (h *TransactionHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Root expõe informações básicas do serviço
func (h *TransactionHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Credit Card Transaction Service",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": gin.H{
			"create_transaction": "/transactions/create",
			"get_transaction":    "/transactions/{id}",
			"list_transactions":  "/transactions/",
			"health":             "/health",
		},
	})
}
