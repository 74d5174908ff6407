package main

import (
	"regexp"
	"testing"
	"time"
)

var transactionNumberPattern = regexp.MustCompile(`^txn_[0-9a-f]{8}$`)

func TestNewTransaction(t *testing.T) {
	// Arrange
	req := CreateTransactionRequest{
		TransactionAmount:   150.55,
		IsNighttime:         1,
		Category:            "shopping_pos",
		TransactionLocation: "-95.7923, 36.1499",
		Job:                 "Naval architect",
		State:               "CA",
		TransactionNumber:   "txn_1001",
	}

	// Act
	tx := NewTransaction(req)

	// Assert
	if tx.TransactionNumber != "txn_1001" {
		t.Errorf("Expected TransactionNumber txn_1001, got %s", tx.TransactionNumber)
	}
	if tx.TransactionAmount != 150.55 {
		t.Errorf("Expected TransactionAmount 150.55, got %f", tx.TransactionAmount)
	}
	if tx.IsNighttime != 1 {
		t.Errorf("Expected IsNighttime 1, got %d", tx.IsNighttime)
	}
	if tx.Status != StatusPending {
		t.Errorf("Expected Status %s, got %s", StatusPending, tx.Status)
	}
	if tx.IsFraud {
		t.Error("Expected IsFraud to default to false")
	}
	if tx.FraudProbability != 0.0 {
		t.Errorf("Expected FraudProbability 0.0, got %f", tx.FraudProbability)
	}
	if tx.NotificationSent {
		t.Error("Expected NotificationSent to default to false")
	}
	if tx.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	now := time.Now()
	if tx.CreatedAt.After(now) || tx.CreatedAt.Before(now.Add(-time.Second)) {
		t.Error("CreatedAt is not within expected time range")
	}
}

func TestNewTransactionGeneratesNumber(t *testing.T) {
	req := CreateTransactionRequest{
		TransactionAmount:   10.0,
		Category:            "grocery_pos",
		TransactionLocation: "-80.19, 25.76",
		Job:                 "Surveyor",
		State:               "FL",
	}

	tx := NewTransaction(req)

	if !transactionNumberPattern.MatchString(tx.TransactionNumber) {
		t.Errorf("Expected generated number matching txn_[0-9a-f]{8}, got %s", tx.TransactionNumber)
	}
}

func TestGenerateTransactionNumberUniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)

	for i := 0; i < 1000; i++ {
		number := GenerateTransactionNumber()
		if !transactionNumberPattern.MatchString(number) {
			t.Fatalf("Generated number %s does not match expected pattern", number)
		}
		if seen[number] {
			t.Fatalf("Generated duplicate transaction number %s", number)
		}
		seen[number] = true
	}
}

func TestTransactionStatus(t *testing.T) {
	// Test that constants are defined correctly
	if StatusPending != "pending" {
		t.Errorf("Expected StatusPending to be 'pending', got %s", StatusPending)
	}
	if StatusApproved != "approved" {
		t.Errorf("Expected StatusApproved to be 'approved', got %s", StatusApproved)
	}
	if StatusDeclined != "declined" {
		t.Errorf("Expected StatusDeclined to be 'declined', got %s", StatusDeclined)
	}
	if StatusFlagged != "flagged" {
		t.Errorf("Expected StatusFlagged to be 'flagged', got %s", StatusFlagged)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range ValidStatuses {
		if !IsValidStatus(status) {
			t.Errorf("Expected %s to be a valid status", status)
		}
	}
	if IsValidStatus("completed") {
		t.Error("Expected 'completed' to be rejected")
	}
	if IsValidStatus("") {
		t.Error("Expected empty status to be rejected")
	}
}
