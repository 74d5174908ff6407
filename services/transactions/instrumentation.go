package main

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// WorkflowMetrics agrega os contadores do fluxo de processamento
type WorkflowMetrics struct {
	processed      metric.Int64Counter
	flagged        metric.Int64Counter
	fraudFailures  metric.Int64Counter
	notifyFailures metric.Int64Counter
}

// NewWorkflowMetrics cria uma nova instância de WorkflowMetrics
func NewWorkflowMetrics() (*WorkflowMetrics, error) {
	meter := otel.Meter("transactions-service")

	processed, err := meter.Int64Counter("transactions_processed_total",
		metric.WithDescription("Total number of transactions processed"))
	if err != nil {
		return nil, err
	}

	flagged, err := meter.Int64Counter("transactions_flagged_total",
		metric.WithDescription("Total number of transactions flagged as fraud"))
	if err != nil {
		return nil, err
	}

	fraudFailures, err := meter.Int64Counter("fraud_check_failures_total",
		metric.WithDescription("Total number of failed fraud evaluator calls"))
	if err != nil {
		return nil, err
	}

	notifyFailures, err := meter.Int64Counter("notification_failures_total",
		metric.WithDescription("Total number of failed fraud notification deliveries"))
	if err != nil {
		return nil, err
	}

	return &WorkflowMetrics{
		processed:      processed,
		flagged:        flagged,
		fraudFailures:  fraudFailures,
		notifyFailures: notifyFailures,
	}, nil
}

// RecordProcessed registra uma transação processada com seu status final
func (m *WorkflowMetrics) RecordProcessed(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.processed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if status == StatusFlagged {
		m.flagged.Add(ctx, 1)
	}
}

// RecordFraudCheckFailure registra uma falha do avaliador de fraude
func (m *WorkflowMetrics) RecordFraudCheckFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.fraudFailures.Add(ctx, 1)
}

// RecordNotificationFailure registra uma falha de entrega de notificação
func (m *WorkflowMetrics) RecordNotificationFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.notifyFailures.Add(ctx, 1)
}

// StartWorkflowSpan cria um span para uma etapa do fluxo de transação
func StartWorkflowSpan(ctx context.Context, stepName, transactionNumber string) (context.Context, trace.Span) {
	tracer := otel.Tracer("transactions-service")
	ctx, span := tracer.Start(ctx, stepName)

	span.SetAttributes(
		attribute.String("transaction_number", transactionNumber),
		attribute.String("component", "transaction-workflow"),
	)

	return ctx, span
}
