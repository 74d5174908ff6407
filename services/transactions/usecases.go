package main

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/attribute"
)

// TransactionUseCase contém a lógica de negócio do processamento de transações
type TransactionUseCase struct {
	repository Repository
	fraud      FraudChecker
	notifier   Notifier
	metrics    *WorkflowMetrics
}

// NewTransactionUseCase cria uma nova instância de TransactionUseCase
func NewTransactionUseCase(
	repository Repository,
	fraud FraudChecker,
	notifier Notifier,
	metrics *WorkflowMetrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		repository: repository,
		fraud:      fraud,
		notifier:   notifier,
		metrics:    metrics,
	}
}

// ProcessTransaction executa o fluxo completo de uma transação:
// persiste pending, avalia fraude, notifica se necessário, grava o status
// final e relê o registro durável para montar a resposta.
//
// Política de falhas: erros de armazenamento abortam a operação; falhas do
// avaliador degradam para não-fraude e falhas do notificador degradam para
// não-enviado, sem impedir a criação da transação.
func (uc *TransactionUseCase) ProcessTransaction(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error) {
	tx := NewTransaction(req)

	ctx, span := StartWorkflowSpan(ctx, "process_transaction", tx.TransactionNumber)
	defer span.End()

	log.Printf("➡️ [PROCESS TRANSACTION] TransactionNumber: %s", tx.TransactionNumber)

	if err := uc.repository.Create(ctx, tx); err != nil {
		log.Printf("❌ Failed to create transaction: %v", err)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	fraudCtx, fraudSpan := StartWorkflowSpan(ctx, "fraud.check", tx.TransactionNumber)
	fraudResult := uc.fraud.Check(fraudCtx, tx)
	fraudSpan.SetAttributes(attribute.Bool("fraud.is_fraud", fraudResult.IsFraud))
	fraudSpan.End()

	if !fraudResult.Success {
		// Fail-open: o avaliador indisponível não bloqueia a transação
		log.Printf("⚠️ Fraud check failed, proceeding as not-fraud | TransactionNumber: %s | Error: %s",
			tx.TransactionNumber, fraudResult.Error)
		uc.metrics.RecordFraudCheckFailure(ctx)
	}

	updates := bson.M{
		"fraud_check_result": fraudResult,
		"is_fraud":           fraudResult.IsFraud,
		"fraud_probability":  fraudResult.FraudProbability,
	}

	status := StatusApproved
	if fraudResult.IsFraud {
		status = StatusFlagged

		notifyCtx, notifySpan := StartWorkflowSpan(ctx, "notification.send", tx.TransactionNumber)
		notificationResult := uc.notifier.SendFraudNotification(notifyCtx, tx, fraudResult)
		notifySpan.SetAttributes(attribute.Bool("notification.sent", notificationResult.NotificationSent))
		notifySpan.End()

		if !notificationResult.Success {
			log.Printf("⚠️ Fraud notification failed | TransactionNumber: %s | Error: %s",
				tx.TransactionNumber, notificationResult.Error)
			uc.metrics.RecordNotificationFailure(ctx)
		}

		updates["notification_result"] = notificationResult
		updates["notification_sent"] = notificationResult.NotificationSent
	}
	updates["status"] = status

	if _, err := uc.repository.Update(ctx, tx.ID.Hex(), updates); err != nil {
		log.Printf("❌ Failed to update transaction: %v", err)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	// Relê pelo identificador para refletir exatamente o estado durável
	updated, err := uc.repository.GetByID(ctx, tx.ID.Hex())
	if err != nil {
		log.Printf("❌ Failed to reload transaction: %v", err)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to reload transaction: %w", err)
	}

	span.SetAttributes(attribute.String("transaction.status", updated.Status))
	uc.metrics.RecordProcessed(ctx, updated.Status)

	log.Printf("✅ Transaction processed | TransactionNumber: %s | Status: %s", updated.TransactionNumber, updated.Status)

	return newCreateTransactionResponse(updated), nil
}

// GetTransaction busca uma transação por ObjectID ou transaction_number.
// Para registros fraudulentos notificados, enriquece a resposta com o status
// de notificação ao vivo; a falha desse enriquecimento é engolida.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*TransactionDetail, error) {
	tx, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := NewTransactionDetail(tx)

	if tx.IsFraud && tx.NotificationSent {
		statusResult := uc.notifier.CheckStatus(ctx, tx.TransactionNumber)
		if statusResult.Success && statusResult.Notification != nil {
			detail.NotificationStatus = statusResult.Notification
		} else if !statusResult.Success {
			log.Printf("⚠️ Notification status lookup failed | TransactionNumber: %s | Error: %s",
				tx.TransactionNumber, statusResult.Error)
		}
	}

	return detail, nil
}

// ListTransactions retorna transações paginadas com filtro opcional de status
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, page, limit int, status string) (*ListTransactionsResponse, error) {
	filters := bson.M{}
	if status != "" {
		filters["status"] = status
	}

	result, err := uc.repository.List(ctx, page, limit, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	transactions := make([]*TransactionDetail, 0, len(result.Transactions))
	for _, tx := range result.Transactions {
		transactions = append(transactions, NewTransactionDetail(tx))
	}

	return &ListTransactionsResponse{
		Success:      true,
		Transactions: transactions,
		Page:         result.Page,
		Limit:        result.Limit,
		Total:        result.Total,
		Pages:        result.Pages,
	}, nil
}

// newCreateTransactionResponse projeta o registro durável na resposta de criação
func newCreateTransactionResponse(tx *Transaction) *CreateTransactionResponse {
	return &CreateTransactionResponse{
		TransactionNumber:   tx.TransactionNumber,
		Status:              tx.Status,
		CreatedAt:           tx.CreatedAt.Format(timeFormat),
		IsFraud:             tx.IsFraud,
		FraudProbability:    tx.FraudProbability,
		NotificationSent:    tx.NotificationSent,
		Category:            tx.Category,
		MerchantName:        tx.MerchantName,
		TransactionAmount:   tx.TransactionAmount,
		TransactionLocation: tx.TransactionLocation,
	}
}
