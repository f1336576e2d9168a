package entity

import (
	"github.com/shopspring/decimal"
)

// Outcome resultado de una mutación del carrito: los casos borde (tope de stock,
// mínimo de 1, línea inexistente) no son errores, son NoOp observables.
type Outcome int

const (
	NoOp Outcome = iota
	Applied
)

func (o Outcome) String() string {
	if o == Applied {
		return "applied"
	}
	return "noop"
}

// CartIdentity identidad dueña de un carrito: invitado o usuario autenticado.
// El valor cero es el invitado.
type CartIdentity struct {
	userID string
}

// GuestIdentity identidad anónima.
func GuestIdentity() CartIdentity { return CartIdentity{} }

// UserIdentity identidad de un usuario; un id vacío es el invitado.
func UserIdentity(userID string) CartIdentity { return CartIdentity{userID: userID} }

// IsGuest indica si la identidad es la anónima.
func (i CartIdentity) IsGuest() bool { return i.userID == "" }

// UserID id del usuario ("" para invitado).
func (i CartIdentity) UserID() string { return i.userID }

// StorageKey única traducción de identidad a clave de almacenamiento.
// El prefijo cart:user: impide que un id de usuario colisione con el slot invitado.
func (i CartIdentity) StorageKey() string {
	if i.IsGuest() {
		return "cart:guest"
	}
	return "cart:user:" + i.userID
}

func (i CartIdentity) String() string {
	if i.IsGuest() {
		return "guest"
	}
	return "user:" + i.userID
}

// LineItem línea del carrito con la foto (nombre, precio, imagen, stock) tomada al agregar.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
}

// Subtotal precio × cantidad.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart carrito de una identidad. Total e ItemCount son derivados: solo Recompute los escribe.
type Cart struct {
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// NewCart carrito vacío.
func NewCart() Cart {
	return Cart{Items: []LineItem{}, Total: decimal.Zero}
}

// IsEmpty indica si no hay líneas.
func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Recompute recalcula Total = Σ precio×cantidad e ItemCount = Σ cantidad.
func (c *Cart) Recompute() {
	total := decimal.Zero
	count := 0
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
		count += it.Quantity
	}
	c.Total = total
	c.ItemCount = count
}

func (c *Cart) find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Item devuelve la línea de productID si existe.
func (c *Cart) Item(productID string) (LineItem, bool) {
	if i := c.find(productID); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

// Add agrega quantity unidades del producto. Si la línea existe suma la cantidad sin
// tope de stock; si no, agrega la foto al final. quantity < 1 se toma como 1.
func (c *Cart) Add(p Product, quantity int) Outcome {
	if quantity < 1 {
		quantity = 1
	}
	if i := c.find(p.ID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.ImageURL(),
			Quantity:  quantity,
			Stock:     p.Stock,
		})
	}
	c.Recompute()
	return Applied
}

// Remove elimina la línea; NoOp si no existe.
func (c *Cart) Remove(productID string) Outcome {
	i := c.find(productID)
	if i < 0 {
		return NoOp
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.Recompute()
	return Applied
}

// SetQuantity fija la cantidad acotada a [1, stock]. NoOp si la línea no existe
// o si la cantidad resultante no cambia.
func (c *Cart) SetQuantity(productID string, quantity int) Outcome {
	i := c.find(productID)
	if i < 0 {
		return NoOp
	}
	it := &c.Items[i]
	q := quantity
	if q > it.Stock {
		q = it.Stock
	}
	if q < 1 {
		q = 1
	}
	if q == it.Quantity {
		return NoOp
	}
	it.Quantity = q
	c.Recompute()
	return Applied
}

// Increment suma 1 si la cantidad está por debajo del stock capturado.
func (c *Cart) Increment(productID string) Outcome {
	i := c.find(productID)
	if i < 0 || c.Items[i].Quantity >= c.Items[i].Stock {
		return NoOp
	}
	c.Items[i].Quantity++
	c.Recompute()
	return Applied
}

// Decrement resta 1 si la cantidad es mayor que 1; nunca elimina la línea.
func (c *Cart) Decrement(productID string) Outcome {
	i := c.find(productID)
	if i < 0 || c.Items[i].Quantity <= 1 {
		return NoOp
	}
	c.Items[i].Quantity--
	c.Recompute()
	return Applied
}

// Clear vacía el carrito.
func (c *Cart) Clear() Outcome {
	if c.IsEmpty() {
		c.Recompute()
		return NoOp
	}
	c.Items = []LineItem{}
	c.Recompute()
	return Applied
}

// Merge incorpora las líneas de other: suma cantidades si el producto ya está,
// si no agrega la línea al final respetando el orden de other.
func (c *Cart) Merge(other Cart) Outcome {
	if other.IsEmpty() {
		return NoOp
	}
	for _, it := range other.Items {
		if i := c.find(it.ProductID); i >= 0 {
			c.Items[i].Quantity += it.Quantity
			continue
		}
		c.Items = append(c.Items, it)
	}
	c.Recompute()
	return Applied
}

// Normalize repara un carrito leído del almacenamiento: descarta líneas sin producto
// o con cantidad < 1, fusiona duplicados y recalcula los derivados.
func (c *Cart) Normalize() {
	items := c.Items
	c.Items = make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 {
			continue
		}
		if i := c.find(it.ProductID); i >= 0 {
			c.Items[i].Quantity += it.Quantity
			continue
		}
		c.Items = append(c.Items, it)
	}
	c.Recompute()
}

// Clone copia profunda para exponer snapshots sin compartir el slice.
func (c Cart) Clone() Cart {
	out := Cart{Items: make([]LineItem, len(c.Items)), Total: c.Total, ItemCount: c.ItemCount}
	copy(out.Items, c.Items)
	return out
}
