package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyJSON(t *testing.T) {
	raw, err := json.Marshal(NewMoneyFromFloat(299))
	require.NoError(t, err)
	assert.Equal(t, `"299.00"`, string(raw))

	var fromString Money
	require.NoError(t, json.Unmarshal([]byte(`"1024.46"`), &fromString))
	assert.Equal(t, 1024.46, fromString.Float())

	var fromNumber Money
	require.NoError(t, json.Unmarshal([]byte(`199.5`), &fromNumber))
	assert.Equal(t, 199.5, fromNumber.Float())
}

func TestMoneyArithmetic(t *testing.T) {
	total := NewMoneyFromFloat(299).Add(NewMoneyFromFloat(199))
	assert.Equal(t, 498.0, total.Float())

	doubled := NewMoneyFromFloat(299).MulInt(2)
	assert.Equal(t, 598.0, doubled.Float())
}

func TestMoneyAvoidsFloatDrift(t *testing.T) {
	var total Money
	for i := 0; i < 10; i++ {
		total = total.Add(NewMoneyFromFloat(0.1))
	}
	assert.Equal(t, "1.00", total.String())
}

func TestOrderItemTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Quantity: 2, Price: NewMoneyFromFloat(299)},
			{Quantity: 1, Price: NewMoneyFromFloat(349)},
		},
	}
	assert.Equal(t, 947.0, order.ItemTotal().Float())
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusPending))
	assert.True(t, ValidOrderStatus(OrderStatusDelivered))
	assert.False(t, ValidOrderStatus("teleported"))
	assert.False(t, ValidOrderStatus(""))
}

func TestInventoryAvailableFloorsAtZero(t *testing.T) {
	assert.Equal(t, 5, Inventory{Quantity: 8, ReservedQuantity: 3}.Available())
	assert.Equal(t, 0, Inventory{Quantity: 2, ReservedQuantity: 5}.Available())
}

func TestUserPublicOmitsHash(t *testing.T) {
	user := User{ID: "u1", Name: "Ada", Email: "a@example.com", PasswordHash: "secret-hash"}

	raw, err := json.Marshal(user.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")

	// The full record never serializes the hash either.
	raw, err = json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
}
