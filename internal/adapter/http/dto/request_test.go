package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSaleRequest_ToUseCaseInput(t *testing.T) {
	req := CreateSaleRequest{
		PaymentMethod: "pix",
		Description:   "balcony sale",
		Items: []SaleItemRequest{
			{ProductID: "prod-1", Quantity: 2, UnitPrice: decimal.RequireFromString("19.90")},
			{ProductID: "prod-2", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}

	input := req.ToUseCaseInput("actor-1")

	assert.Equal(t, "actor-1", input.ActorID)
	assert.Equal(t, "pix", input.PaymentMethod)
	assert.Nil(t, input.Date)
	require.Len(t, input.Items, 2)
	assert.Equal(t, "prod-1", input.Items[0].ProductID)
	assert.Equal(t, int64(2), input.Items[0].Quantity)
	assert.True(t, input.Items[1].UnitPrice.Equal(decimal.RequireFromString("5.00")))
}

func TestUpdateIncomeRequest_AbsentFieldsStayNil(t *testing.T) {
	var req UpdateIncomeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"150.50"}`), &req))

	input := req.ToUseCaseInput()

	require.NotNil(t, input.Amount)
	assert.True(t, input.Amount.Equal(decimal.RequireFromString("150.50")))
	assert.Nil(t, input.Kind)
	assert.Nil(t, input.Date)
	assert.Nil(t, input.Note)
}

func TestUpdateSettingsRequest_PartialUpdate(t *testing.T) {
	var req UpdateSettingsRequest
	require.NoError(t, json.Unmarshal([]byte(`{"current_month":7}`), &req))

	input := req.ToUseCaseInput()

	assert.Nil(t, input.OpeningBalance)
	require.NotNil(t, input.CurrentMonth)
	assert.Equal(t, 7, *input.CurrentMonth)
}

func TestRecordAdjustmentRequest_ToUseCaseInput(t *testing.T) {
	req := RecordAdjustmentRequest{
		Inbound:     false,
		Amount:      decimal.RequireFromString("55.10"),
		Description: "acerto de caixa",
	}

	input := req.ToUseCaseInput("actor-9")

	assert.Equal(t, "actor-9", input.ActorID)
	assert.False(t, input.Inbound)
	assert.Equal(t, "acerto de caixa", input.Description)
}
