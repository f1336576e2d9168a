package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

func TestGenerateReceiptPDF(t *testing.T) {
	g := NewMarotoPDFGenerator(StoreInfo{Name: "Electro Store", Email: "hola@electro.test"})
	order := &entity.Order{
		ID:          "o1",
		OrderNumber: "ORD-1001",
		Customer:    entity.OrderCustomer{ID: "u1", Name: "Ada", Email: "ada@example.com"},
		Items: []entity.OrderItem{
			{ProductID: "A", Name: "Licuadora", Price: decimal.NewFromInt(15000), Quantity: 2},
			{ProductID: "B", Name: "Tostadora", Price: decimal.NewFromInt(8000), Quantity: 1},
		},
		ShippingAddress: entity.ShippingAddress{FullName: "Ada", Phone: "08012345678", Address: "1 Main St", City: "Lagos", State: "LA"},
		PaymentMethod:   "cash_on_delivery",
		Subtotal:        decimal.NewFromInt(38000),
		ShippingFee:     decimal.NewFromInt(2000),
		Tax:             decimal.NewFromInt(2850),
		Total:           decimal.NewFromInt(42850),
		CreatedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	out, err := g.GenerateReceiptPDF(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateReceiptPDF_PedidoNil(t *testing.T) {
	_, err := NewMarotoPDFGenerator(StoreInfo{}).GenerateReceiptPDF(context.Background(), nil)
	assert.Error(t, err)
}

func TestNonBlank(t *testing.T) {
	assert.Equal(t, []string{"Lagos", "LA"}, nonBlank("Lagos", " ", "LA", ""))
}
