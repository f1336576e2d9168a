// Package checkout cotiza el carrito y lo convierte en un pedido del backend.
package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/pkg/config"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// DefaultPaymentMethod método de pago si el formulario no indica otro.
const DefaultPaymentMethod = "cash"

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Workspace lo que el checkout necesita del dispositivo.
type Workspace interface {
	Session() entity.Session
	Cart() entity.Cart
	API() ports.StoreAPI
	ClearCart(ctx context.Context) entity.Outcome
	OrderAttemptKey(ctx context.Context, fingerprint string, mint func() string) string
	ClearOrderAttempt(ctx context.Context)
}

// ValidationError dato de envío faltante o inválido.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Service reglas de cotización y alta de pedidos.
type Service struct {
	rules    config.CheckoutConfig
	receipts ports.ReceiptPDFGenerator
	log      *logger.Logger
	newKey   func() string
}

// NewService construye el servicio de checkout.
func NewService(rules config.CheckoutConfig, receipts ports.ReceiptPDFGenerator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{rules: rules, receipts: receipts, log: log, newKey: uuid.NewString}
}

// Quote envío gratis desde el umbral, si no tarifa plana; IVA sobre el subtotal.
func (s *Service) Quote(c entity.Cart) dto.CheckoutQuote {
	subtotal := c.Total
	shipping := s.rules.FlatShipping
	if subtotal.GreaterThanOrEqual(s.rules.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(s.rules.TaxRate).Round(2)
	return dto.CheckoutQuote{
		ItemCount:   c.ItemCount,
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		Total:       subtotal.Add(shipping).Add(tax),
	}
}

// Prefill completa los campos vacíos del formulario con los datos del usuario.
func Prefill(in dto.PlaceOrderRequest, u *entity.User) dto.PlaceOrderRequest {
	if u == nil {
		return in
	}
	if in.FullName == "" {
		in.FullName = u.Name
	}
	if in.Email == "" {
		in.Email = u.Email
	}
	if in.Phone == "" {
		in.Phone = u.Phone
	}
	if in.Address == "" {
		in.Address = u.Address
	}
	return in
}

// Validate revisa los campos de envío en el orden del formulario y devuelve el primer error.
func Validate(in dto.PlaceOrderRequest) error {
	required := []struct{ field, label, value string }{
		{"fullName", "full name", in.FullName},
		{"email", "email", in.Email},
		{"phone", "phone", in.Phone},
		{"address", "address", in.Address},
		{"city", "city", in.City},
		{"state", "state", in.State},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "Please fill in " + r.label}
		}
	}
	if !emailRe.MatchString(in.Email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if len(in.Phone) < 10 {
		return &ValidationError{Field: "phone", Message: "Please enter a valid phone number"}
	}
	return nil
}

// PlaceOrder crea el pedido con el carrito actual y lo vacía si el backend lo acepta.
// Carrito vacío: domain.ErrEmptyCart. Sin sesión: domain.ErrNotAuthenticated.
func (s *Service) PlaceOrder(ctx context.Context, ws Workspace, in dto.PlaceOrderRequest) (*dto.PlaceOrderResponse, error) {
	c := ws.Cart()
	if c.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	sess := ws.Session()
	if !sess.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	in = Prefill(in, sess.User)
	if err := Validate(in); err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = DefaultPaymentMethod
	}

	q := s.Quote(c)
	req := dto.CreateOrderRequest{
		Items: orderItems(c),
		ShippingAddress: entity.ShippingAddress{
			FullName: in.FullName,
			Phone:    in.Phone,
			Address:  in.Address,
			City:     in.City,
			State:    in.State,
			ZipCode:  in.ZipCode,
		},
		PaymentMethod: in.PaymentMethod,
		Subtotal:      q.Subtotal,
		ShippingFee:   q.ShippingFee,
		Tax:           q.Tax,
		Total:         q.Total,
		Notes:         in.Notes,
	}
	// Reenviar el mismo pedido tras un corte reutiliza la clave y el backend
	// devuelve el pedido ya creado.
	key := ws.OrderAttemptKey(ctx, fingerprint(sess.User.ID, req), s.newKey)
	order, err := ws.API().CreateOrder(ctx, req, key)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("checkout: crear pedido")
		if rejected(err) {
			ws.ClearOrderAttempt(ctx)
		}
		return nil, err
	}
	ws.ClearOrderAttempt(ctx)
	ws.ClearCart(ctx)
	s.log.Info().
		Str("order_number", order.OrderNumber).
		Str("user_id", sess.User.ID).
		Str("total", q.Total.String()).
		Msg("checkout: pedido creado")
	return &dto.PlaceOrderResponse{OrderID: order.ID, OrderNumber: order.OrderNumber, Total: order.Total}, nil
}

// Receipt PDF del pedido y nombre de archivo sugerido.
func (s *Service) Receipt(ctx context.Context, api ports.OrderAPI, orderID string) ([]byte, string, error) {
	if s.receipts == nil {
		return nil, "", fmt.Errorf("checkout: generador de comprobantes no configurado")
	}
	order, err := api.GetOrder(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.receipts.GenerateReceiptPDF(ctx, order)
	if err != nil {
		return nil, "", fmt.Errorf("checkout: generar comprobante: %w", err)
	}
	return pdf, fmt.Sprintf("pedido_%s.pdf", order.OrderNumber), nil
}

// fingerprint identifica el contenido del pedido de un usuario.
func fingerprint(userID string, req dto.CreateOrderRequest) string {
	raw, _ := json.Marshal(req)
	sum := sha256.Sum256(append([]byte(userID+"\n"), raw...))
	return hex.EncodeToString(sum[:])
}

// rejected indica que el backend respondió y no creó el pedido. Cortes de red,
// timeouts y 5xx dejan el intento abierto.
func rejected(err error) bool {
	apiErr, ok := dto.AsAPIError(err)
	if !ok || apiErr.Status < 400 || apiErr.Status >= 500 {
		return false
	}
	return apiErr.Status != http.StatusRequestTimeout && apiErr.Status != http.StatusTooManyRequests
}

func orderItems(c entity.Cart) []entity.OrderItem {
	out := make([]entity.OrderItem, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, entity.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}
	return out
}
