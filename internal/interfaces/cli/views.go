package cli

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/pkg/money"
)

// ── Vistas de salida ─────────────────────────────────────────────────────────
// Cada vista serializa igual que el DTO que envuelve y agrega Text() para --format text.

type messageView struct {
	Message string `json:"message"`
}

func (v messageView) Text() string { return v.Message }

type sessionView struct {
	dto.SessionResponse
}

func (v sessionView) Text() string {
	if !v.Authenticated || v.User == nil {
		return "Sin sesión (invitado)"
	}
	return fmt.Sprintf("%s <%s> rol=%s", v.User.Name, v.User.Email, v.User.Role)
}

type productListView struct {
	dto.ProductListResponse
}

func (v productListView) Text() string {
	if len(v.Items) == 0 {
		return "Sin productos"
	}
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tNOMBRE\tCATEGORÍA\tPRECIO\tSTOCK")
		for _, p := range v.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, money.Format(p.Price), p.Stock)
		}
		fmt.Fprintf(w, "\t\t\tTotal:\t%d\n", v.Total)
	})
}

type productView struct {
	entity.Product
}

func (v productView) Text() string {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "ID:\t%s\n", v.ID)
		fmt.Fprintf(w, "Nombre:\t%s\n", v.Name)
		fmt.Fprintf(w, "Categoría:\t%s\n", v.Category)
		if v.Brand != "" {
			fmt.Fprintf(w, "Marca:\t%s\n", v.Brand)
		}
		fmt.Fprintf(w, "Precio:\t%s\n", money.Format(v.Price))
		fmt.Fprintf(w, "Stock:\t%d\n", v.Stock)
		if v.Description != "" {
			fmt.Fprintf(w, "Descripción:\t%s\n", v.Description)
		}
	})
}

type cartView struct {
	dto.CartResponse
}

func newCartView(ws cartSource, outcome entity.Outcome, withOutcome bool) cartView {
	v := cartView{dto.CartResponse{Identity: ws.CartIdentity().String(), Cart: ws.Cart()}}
	if withOutcome {
		v.Outcome = outcome.String()
	}
	return v
}

type cartSource interface {
	Cart() entity.Cart
	CartIdentity() entity.CartIdentity
}

func (v cartView) Text() string {
	var buf bytes.Buffer
	if v.Outcome == entity.NoOp.String() {
		buf.WriteString("(sin cambios)\n")
	}
	if v.Cart.IsEmpty() {
		fmt.Fprintf(&buf, "Carrito %s vacío", v.Identity)
		return buf.String()
	}
	buf.WriteString(table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "PRODUCTO\tNOMBRE\tPRECIO\tCANT.\tSUBTOTAL")
		for _, it := range v.Cart.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", it.ProductID, it.Name, money.Format(it.Price), it.Quantity, money.Format(it.Subtotal()))
		}
		fmt.Fprintf(w, "\t\tArtículos:\t%d\t%s\n", v.Cart.ItemCount, money.Format(v.Cart.Total))
	}))
	return buf.String()
}

type checkoutView struct {
	dto.CheckoutView
}

func (v checkoutView) Text() string {
	q := v.Quote
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Artículos:\t%d\n", q.ItemCount)
		fmt.Fprintf(w, "Subtotal:\t%s\n", money.Format(q.Subtotal))
		fmt.Fprintf(w, "Envío:\t%s\n", money.Format(q.ShippingFee))
		fmt.Fprintf(w, "IVA:\t%s\n", money.Format(q.Tax))
		fmt.Fprintf(w, "Total:\t%s\n", money.Format(q.Total))
		if v.Shipping.FullName != "" {
			fmt.Fprintf(w, "Enviar a:\t%s <%s>\n", v.Shipping.FullName, v.Shipping.Email)
		}
	})
}

type placedView struct {
	dto.PlaceOrderResponse
}

func (v placedView) Text() string {
	return fmt.Sprintf("Pedido %s creado (id %s) por %s", v.OrderNumber, v.OrderID, money.Format(v.Total))
}

type orderListView []entity.Order

func (v orderListView) Text() string {
	if len(v) == 0 {
		return "Sin pedidos"
	}
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "NÚMERO\tID\tESTADO\tPAGO\tTOTAL")
		for _, o := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.OrderNumber, o.ID, o.OrderStatus, o.PaymentStatus, money.Format(o.Total))
		}
	})
}

// table arma una tabla alineada con tabwriter.
func table(fill func(w *tabwriter.Writer)) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fill(w)
	_ = w.Flush()
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
