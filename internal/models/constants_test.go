package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition_AllowedTransitions(t *testing.T) {
	rule, ok := CanTransition(TransactionStatusPending, TransactionStatusConfirmed)
	assert.True(t, ok)
	assert.True(t, rule.SellerOnly)

	rule, ok = CanTransition(TransactionStatusPending, TransactionStatusCancelled)
	assert.True(t, ok)
	assert.False(t, rule.SellerOnly)

	rule, ok = CanTransition(TransactionStatusConfirmed, TransactionStatusCompleted)
	assert.True(t, ok)
	assert.False(t, rule.SellerOnly)

	rule, ok = CanTransition(TransactionStatusConfirmed, TransactionStatusCancelled)
	assert.True(t, ok)
	assert.False(t, rule.SellerOnly)
}

func TestCanTransition_ForbiddenTransitions(t *testing.T) {
	statuses := []TransactionStatus{
		TransactionStatusPending,
		TransactionStatusConfirmed,
		TransactionStatusCompleted,
		TransactionStatusCancelled,
	}

	allowed := map[[2]TransactionStatus]bool{
		{TransactionStatusPending, TransactionStatusConfirmed}:   true,
		{TransactionStatusPending, TransactionStatusCancelled}:   true,
		{TransactionStatusConfirmed, TransactionStatusCompleted}: true,
		{TransactionStatusConfirmed, TransactionStatusCancelled}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			_, ok := CanTransition(from, to)
			assert.Equal(t, allowed[[2]TransactionStatus{from, to}], ok,
				"переход %s -> %s", from, to)
		}
	}
}

func TestCanTransition_TerminalStatusesFrozen(t *testing.T) {
	targets := []TransactionStatus{
		TransactionStatusPending,
		TransactionStatusConfirmed,
		TransactionStatusCompleted,
		TransactionStatusCancelled,
	}

	for _, to := range targets {
		_, ok := CanTransition(TransactionStatusCompleted, to)
		assert.False(t, ok)
		_, ok = CanTransition(TransactionStatusCancelled, to)
		assert.False(t, ok)
	}
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	assert.False(t, TransactionStatusPending.IsTerminal())
	assert.False(t, TransactionStatusConfirmed.IsTerminal())
	assert.True(t, TransactionStatusCompleted.IsTerminal())
	assert.True(t, TransactionStatusCancelled.IsTerminal())
}

func TestCreditDeltaByRating(t *testing.T) {
	assert.Equal(t, -5, CreditDeltaByRating[1])
	assert.Equal(t, -3, CreditDeltaByRating[2])
	assert.Equal(t, 0, CreditDeltaByRating[3])
	assert.Equal(t, 3, CreditDeltaByRating[4])
	assert.Equal(t, 5, CreditDeltaByRating[5])
}

func TestTransaction_Participants(t *testing.T) {
	txn := Transaction{
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
	}

	assert.True(t, txn.IsParticipant(txn.BuyerID))
	assert.True(t, txn.IsParticipant(txn.SellerID))
	assert.False(t, txn.IsParticipant(uuid.New()))

	assert.Equal(t, txn.SellerID, txn.OtherParticipant(txn.BuyerID))
	assert.Equal(t, txn.BuyerID, txn.OtherParticipant(txn.SellerID))
}
