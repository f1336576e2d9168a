package ports

import (
	"context"

	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// ReceiptPDFGenerator genera el comprobante PDF de un pedido.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, order *entity.Order) ([]byte, error)
}
