package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// Notifier abstrai o serviço externo de notificações de fraude
type Notifier interface {
	// SendFraudNotification envia a notificação apenas quando há fraude.
	// Como no FraudChecker, falhas do colaborador viram resultado
	// estruturado e nunca erro Go.
	SendFraudNotification(ctx context.Context, tx *Transaction, fraudResult FraudCheckResult) NotificationResult

	// CheckStatus consulta o status de notificação de uma transação
	CheckStatus(ctx context.Context, transactionNumber string) NotificationStatusResult
}

// NotificationResult representa o resultado normalizado do envio de notificação
type NotificationResult struct {
	Success            bool   `json:"success" bson:"success"`
	NotificationSent   bool   `json:"notification_sent" bson:"notification_sent"`
	NotificationNumber string `json:"notification_number,omitempty" bson:"notification_number,omitempty"`
	Status             string `json:"status,omitempty" bson:"status,omitempty"`
	Message            string `json:"message,omitempty" bson:"message,omitempty"`
	Error              string `json:"error,omitempty" bson:"error,omitempty"`
}

// NotificationStatusResult representa a consulta de status de notificação.
// Um 404 do colaborador significa "nenhuma notificação ainda" e é sucesso
// com Notification nil, distinto de erro de transporte/servidor.
type NotificationStatusResult struct {
	Success      bool           `json:"success"`
	Notification map[string]any `json:"notification,omitempty"`
	Error        string         `json:"error,omitempty"`
}

type notificationSendRequest struct {
	TransactionNumber   string  `json:"transaction_number"`
	TransactionAmount   float64 `json:"transaction_amount"`
	FraudProbability    float64 `json:"fraud_probability"`
	IsNighttime         int     `json:"is_nighttime"`
	Category            string  `json:"category"`
	TransactionLocation string  `json:"transaction_location"`
	Job                 string  `json:"job"`
	State               string  `json:"state"`
}

type notificationSendResponse struct {
	ID     string `json:"_id"`
	Status string `json:"status"`
}

// NotificationClient implementa Notifier via HTTP
type NotificationClient struct {
	client  *resty.Client
	baseURL string
}

// NewNotificationClient cria uma nova instância de NotificationClient
func NewNotificationClient(baseURL string, timeout time.Duration) *NotificationClient {
	return &NotificationClient{
		client:  resty.New().SetTimeout(timeout),
		baseURL: baseURL,
	}
}

// SendFraudNotification publica a notificação de fraude no colaborador
func (c *NotificationClient) SendFraudNotification(ctx context.Context, tx *Transaction, fraudResult FraudCheckResult) NotificationResult {
	if !fraudResult.IsFraud {
		return NotificationResult{
			Success:          true,
			NotificationSent: false,
			Message:          "no fraud detected, notification not sent",
		}
	}

	payload := notificationSendRequest{
		TransactionNumber:   tx.TransactionNumber,
		TransactionAmount:   tx.TransactionAmount,
		FraudProbability:    fraudResult.FraudProbability,
		IsNighttime:         tx.IsNighttime,
		Category:            tx.Category,
		TransactionLocation: tx.TransactionLocation,
		Job:                 tx.Job,
		State:               tx.State,
	}

	log.Printf("📣 Sending fraud notification | TransactionNumber: %s", tx.TransactionNumber)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.baseURL + "/notifications/send")

	if err != nil {
		errMsg := fmt.Sprintf("error connecting to notification API: %v", err)
		log.Printf("❌ %s", errMsg)
		return NotificationResult{Success: false, NotificationSent: false, Error: errMsg}
	}

	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		errMsg := fmt.Sprintf("notification API returned %d: %s", resp.StatusCode(), errorDetail(resp.Body()))
		log.Printf("❌ %s", errMsg)
		return NotificationResult{Success: false, NotificationSent: false, Error: errMsg}
	}

	var result notificationSendResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		errMsg := fmt.Sprintf("failed to decode notification API response: %v", err)
		log.Printf("❌ %s", errMsg)
		return NotificationResult{Success: false, NotificationSent: false, Error: errMsg}
	}

	log.Printf("✅ Fraud notification sent | TransactionNumber: %s | NotificationNumber: %s",
		tx.TransactionNumber, result.ID)

	return NotificationResult{
		Success:            true,
		NotificationSent:   true,
		NotificationNumber: result.ID,
		Status:             result.Status,
		Message:            "fraud notification sent successfully",
	}
}

// CheckStatus consulta o colaborador pelo status de notificação da transação
func (c *NotificationClient) CheckStatus(ctx context.Context, transactionNumber string) NotificationStatusResult {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/notifications/status/%s", c.baseURL, transactionNumber))

	if err != nil {
		return NotificationStatusResult{
			Success: false,
			Error:   fmt.Sprintf("error checking notification status: %v", err),
		}
	}

	switch resp.StatusCode() {
	case 200:
		var notification map[string]any
		if err := json.Unmarshal(resp.Body(), &notification); err != nil {
			return NotificationStatusResult{
				Success: false,
				Error:   fmt.Sprintf("failed to decode notification status: %v", err),
			}
		}
		return NotificationStatusResult{Success: true, Notification: notification}
	case 404:
		return NotificationStatusResult{Success: true, Notification: nil}
	default:
		return NotificationStatusResult{
			Success: false,
			Error:   fmt.Sprintf("notification API returned %d: %s", resp.StatusCode(), errorDetail(resp.Body())),
		}
	}
}
