package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// FraudChecker abstrai o serviço externo de avaliação de fraude
type FraudChecker interface {
	// Check consulta o avaliador e nunca retorna erro Go: falhas do
	// colaborador viram um resultado estruturado com Success=false,
	// permitindo que o fluxo prossiga tratando a transação como não-fraude.
	Check(ctx context.Context, tx *Transaction) FraudCheckResult
}

// FraudCheckResult representa o resultado normalizado da avaliação de fraude
type FraudCheckResult struct {
	Success          bool    `json:"success" bson:"success"`
	IsFraud          bool    `json:"is_fraud" bson:"is_fraud"`
	FraudProbability float64 `json:"fraud_probability" bson:"fraud_probability"`
	Label            string  `json:"label,omitempty" bson:"label,omitempty"`
	Timestamp        string  `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	Error            string  `json:"error,omitempty" bson:"error,omitempty"`
}

// fraudPredictRequest projeta exatamente os campos esperados pelo avaliador
type fraudPredictRequest struct {
	TransactionAmount   float64 `json:"transaction_amount"`
	IsNighttime         int     `json:"is_nighttime"`
	Category            string  `json:"category"`
	TransactionLocation string  `json:"transaction_location"`
	Job                 string  `json:"job"`
	State               string  `json:"state"`
	TransactionNumber   string  `json:"transaction_number"`
}

type fraudPredictResponse struct {
	IsFraud          bool    `json:"is_fraud"`
	FraudProbability float64 `json:"fraud_probability"`
	Label            string  `json:"label"`
	Timestamp        string  `json:"timestamp"`
}

// FraudClient implementa FraudChecker via HTTP
type FraudClient struct {
	client  *resty.Client
	baseURL string
}

// NewFraudClient cria uma nova instância de FraudClient
func NewFraudClient(baseURL string, timeout time.Duration) *FraudClient {
	return &FraudClient{
		client:  resty.New().SetTimeout(timeout),
		baseURL: baseURL,
	}
}

// Check envia a transação para o endpoint de predição do avaliador
func (c *FraudClient) Check(ctx context.Context, tx *Transaction) FraudCheckResult {
	payload := fraudPredictRequest{
		TransactionAmount:   tx.TransactionAmount,
		IsNighttime:         tx.IsNighttime,
		Category:            tx.Category,
		TransactionLocation: tx.TransactionLocation,
		Job:                 tx.Job,
		State:               tx.State,
		TransactionNumber:   tx.TransactionNumber,
	}

	log.Printf("🔍 Sending fraud check request | TransactionNumber: %s", tx.TransactionNumber)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.baseURL + "/predict")

	if err != nil {
		errMsg := fmt.Sprintf("error connecting to fraud API: %v", err)
		log.Printf("❌ %s", errMsg)
		return FraudCheckResult{Success: false, Error: errMsg}
	}

	if resp.StatusCode() != 200 {
		errMsg := fmt.Sprintf("fraud API returned %d: %s", resp.StatusCode(), errorDetail(resp.Body()))
		log.Printf("❌ %s", errMsg)
		return FraudCheckResult{Success: false, Error: errMsg}
	}

	// Sub-campos ausentes ficam nos zeros seguros (false / 0.0)
	var result fraudPredictResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		errMsg := fmt.Sprintf("failed to decode fraud API response: %v", err)
		log.Printf("❌ %s", errMsg)
		return FraudCheckResult{Success: false, Error: errMsg}
	}

	log.Printf("✅ Fraud check result | TransactionNumber: %s | IsFraud: %t | Probability: %.4f",
		tx.TransactionNumber, result.IsFraud, result.FraudProbability)

	return FraudCheckResult{
		Success:          true,
		IsFraud:          result.IsFraud,
		FraudProbability: result.FraudProbability,
		Label:            result.Label,
		Timestamp:        result.Timestamp,
	}
}

// errorDetail extrai o campo detail de respostas de erro dos colaboradores
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Detail == "" {
		return "unknown error"
	}
	return payload.Detail
}
