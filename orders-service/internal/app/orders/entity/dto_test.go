package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderProjection_HidesTimestamps(t *testing.T) {
	// Arrange
	order := &Order{
		ID:        1,
		Status:    OrderStatusPending,
		Total:     decimal.NewFromInt(100),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Items: []OrderItem{
			{ID: 1, Quantity: 2, Price: decimal.NewFromInt(50)},
		},
	}

	// Act - и модель, и проекция сериализуются без служебных отметок
	rawModel, err := json.Marshal(order)
	require.NoError(t, err)

	rawResponse, err := json.Marshal(NewOrderResponse(order))
	require.NoError(t, err)

	// Assert
	assert.NotContains(t, string(rawModel), "created_at")
	assert.NotContains(t, string(rawModel), "updated_at")
	assert.NotContains(t, string(rawResponse), "created_at")
	assert.NotContains(t, string(rawResponse), "updated_at")
}

func TestPaymentProjection_HidesCreatedAt(t *testing.T) {
	// Arrange
	payment := Payment{
		ID:            1,
		OrderID:       1,
		Amount:        decimal.NewFromInt(100),
		Method:        "card",
		Status:        PaymentStatusPending,
		TransactionID: "tx-1",
		CreatedAt:     time.Now(),
	}

	// Act
	raw, err := json.Marshal(PaymentListResponse{Payments: []Payment{payment}, Total: 1})
	require.NoError(t, err)

	// Assert
	assert.NotContains(t, string(raw), "created_at")
	assert.Contains(t, string(raw), "transaction_id")
}

func TestOrderResponse_SubtotalPerItem(t *testing.T) {
	// Arrange
	order := &Order{
		ID: 1,
		Items: []OrderItem{
			{ID: 1, Quantity: 3, Price: decimal.RequireFromString("75.50")},
		},
	}

	// Act
	resp := NewOrderResponse(order)

	// Assert
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Subtotal.Equal(decimal.RequireFromString("226.50")))
}
