package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// timeFormat é o formato ISO-8601 usado nas respostas da API
const timeFormat = time.RFC3339Nano

// TransactionStatus representa os possíveis status de uma transação
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
	StatusFlagged  = "flagged"
)

// ValidStatuses lista os status aceitos como filtro de listagem.
// StatusDeclined é um estado terminal válido, mas nenhum fluxo atual o atribui.
var ValidStatuses = []string{StatusPending, StatusApproved, StatusDeclined, StatusFlagged}

// IsValidStatus verifica se o status informado pertence ao enum
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Transaction representa uma transação de cartão de crédito no sistema
type Transaction struct {
	ID                  primitive.ObjectID  `json:"-" bson:"_id,omitempty"`
	TransactionNumber   string              `json:"transaction_number" bson:"transaction_number"`
	TransactionAmount   float64             `json:"transaction_amount" bson:"transaction_amount"`
	IsNighttime         int                 `json:"is_nighttime" bson:"is_nighttime"`
	Category            string              `json:"category" bson:"category"`
	TransactionLocation string              `json:"transaction_location" bson:"transaction_location"`
	Job                 string              `json:"job" bson:"job"`
	State               string              `json:"state" bson:"state"`
	MerchantName        string              `json:"merchant_name,omitempty" bson:"merchant_name,omitempty"`
	Status              string              `json:"status" bson:"status"`
	IsFraud             bool                `json:"is_fraud" bson:"is_fraud"`
	FraudProbability    float64             `json:"fraud_probability" bson:"fraud_probability"`
	FraudCheckResult    *FraudCheckResult   `json:"fraud_check_result,omitempty" bson:"fraud_check_result,omitempty"`
	NotificationResult  *NotificationResult `json:"notification_result,omitempty" bson:"notification_result,omitempty"`
	NotificationSent    bool                `json:"notification_sent" bson:"notification_sent"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// NewTransaction cria uma nova instância de Transaction com status pending.
// Gera o transaction_number quando o chamador não informa um.
func NewTransaction(req CreateTransactionRequest) *Transaction {
	number := req.TransactionNumber
	if number == "" {
		number = GenerateTransactionNumber()
	}

	return &Transaction{
		TransactionNumber:   number,
		TransactionAmount:   req.TransactionAmount,
		IsNighttime:         req.IsNighttime,
		Category:            req.Category,
		TransactionLocation: req.TransactionLocation,
		Job:                 req.Job,
		State:               req.State,
		Status:              StatusPending,
		CreatedAt:           time.Now(),
	}
}

// GenerateTransactionNumber gera um identificador no formato txn_ + 8 hex
func GenerateTransactionNumber() string {
	id := uuid.New()
	return fmt.Sprintf("txn_%x", id[:4])
}

// CreateTransactionRequest representa a requisição para criar uma transação
type CreateTransactionRequest struct {
	TransactionAmount   float64 `json:"transaction_amount" binding:"required,gt=0"`
	IsNighttime         int     `json:"is_nighttime" binding:"oneof=0 1"`
	Category            string  `json:"category" binding:"required"`
	TransactionLocation string  `json:"transaction_location" binding:"required"`
	Job                 string  `json:"job" binding:"required"`
	State               string  `json:"state" binding:"required"`
	TransactionNumber   string  `json:"transaction_number"`
}

// CreateTransactionResponse é a projeção retornada após o processamento
type CreateTransactionResponse struct {
	TransactionNumber   string  `json:"transaction_number"`
	Status              string  `json:"status"`
	CreatedAt           string  `json:"created_at"`
	IsFraud             bool    `json:"is_fraud"`
	FraudProbability    float64 `json:"fraud_probability"`
	NotificationSent    bool    `json:"notification_sent"`
	Category            string  `json:"category,omitempty"`
	MerchantName        string  `json:"merchant_name,omitempty"`
	TransactionAmount   float64 `json:"transaction_amount,omitempty"`
	TransactionLocation string  `json:"transaction_location,omitempty"`
}

// TransactionDetail é a visão completa de uma transação persistida
type TransactionDetail struct {
	ID                  string              `json:"_id"`
	TransactionNumber   string              `json:"transaction_number"`
	TransactionAmount   float64             `json:"transaction_amount"`
	IsNighttime         int                 `json:"is_nighttime"`
	Category            string              `json:"category"`
	TransactionLocation string              `json:"transaction_location"`
	Job                 string              `json:"job"`
	State               string              `json:"state"`
	MerchantName        string              `json:"merchant_name,omitempty"`
	Status              string              `json:"status"`
	IsFraud             bool                `json:"is_fraud"`
	FraudProbability    float64             `json:"fraud_probability"`
	FraudCheckResult    *FraudCheckResult   `json:"fraud_check_result,omitempty"`
	NotificationResult  *NotificationResult `json:"notification_result,omitempty"`
	NotificationSent    bool                `json:"notification_sent"`
	NotificationStatus  map[string]any      `json:"notification_status,omitempty"`
	CreatedAt           string              `json:"created_at"`
	UpdatedAt           string              `json:"updated_at,omitempty"`
}

// NewTransactionDetail converte a entidade persistida para a visão da API,
// normalizando o identificador para a forma hexadecimal
func NewTransactionDetail(tx *Transaction) *TransactionDetail {
	detail := &TransactionDetail{
		ID:                  tx.ID.Hex(),
		TransactionNumber:   tx.TransactionNumber,
		TransactionAmount:   tx.TransactionAmount,
		IsNighttime:         tx.IsNighttime,
		Category:            tx.Category,
		TransactionLocation: tx.TransactionLocation,
		Job:                 tx.Job,
		State:               tx.State,
		MerchantName:        tx.MerchantName,
		Status:              tx.Status,
		IsFraud:             tx.IsFraud,
		FraudProbability:    tx.FraudProbability,
		FraudCheckResult:    tx.FraudCheckResult,
		NotificationResult:  tx.NotificationResult,
		NotificationSent:    tx.NotificationSent,
		CreatedAt:           tx.CreatedAt.Format(timeFormat),
	}
	if !tx.UpdatedAt.IsZero() {
		detail.UpdatedAt = tx.UpdatedAt.Format(timeFormat)
	}
	return detail
}

// ListTransactionsResponse representa a resposta paginada de listagem
type ListTransactionsResponse struct {
	Success      bool                 `json:"success"`
	Transactions []*TransactionDetail `json:"transactions"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	Total        int64                `json:"total"`
	Pages        int                  `json:"pages"`
}
