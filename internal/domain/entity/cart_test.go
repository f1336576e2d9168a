package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

func product(id string, price int64, stock int) entity.Product {
	return entity.Product{
		ID:     id,
		Name:   "Producto " + id,
		Price:  decimal.NewFromInt(price),
		Stock:  stock,
		Images: []entity.ProductImage{{URL: "https://cdn.example.com/" + id + ".jpg"}},
	}
}

// assertTotals verifica que los derivados coinciden con el recálculo desde Items.
func assertTotals(t *testing.T, c entity.Cart) {
	t.Helper()
	total := decimal.Zero
	count := 0
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += it.Quantity
	}
	assert.True(t, total.Equal(c.Total), "total %s != %s", c.Total, total)
	assert.Equal(t, count, c.ItemCount)
}

func TestCart_TotalesTrasCadaOperacion(t *testing.T) {
	c := entity.NewCart()
	ops := []func(){
		func() { c.Add(product("A", 1500, 5), 1) },
		func() { c.Add(product("B", 250, 2), 2) },
		func() { c.Add(product("A", 1500, 5), 3) },
		func() { c.Increment("B") },
		func() { c.Decrement("A") },
		func() { c.SetQuantity("A", 10) },
		func() { c.Remove("B") },
		func() { c.Remove("Z") },
		func() { c.Clear() },
	}
	for _, op := range ops {
		op()
		assertTotals(t, c)
	}
}

func TestCart_IsEmptySobreValor(t *testing.T) {
	assert.True(t, entity.NewCart().IsEmpty())

	carts := map[string]entity.Cart{"lleno": entity.NewCart()}
	c := carts["lleno"]
	c.Add(product("A", 100, 10), 1)
	carts["lleno"] = c
	assert.False(t, carts["lleno"].IsEmpty())
}

func TestCart_AddMismoProductoSumaCantidades(t *testing.T) {
	c := entity.NewCart()
	c.Add(product("A", 100, 10), 2)
	c.Add(product("A", 100, 10), 3)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, "https://cdn.example.com/A.jpg", c.Items[0].Image)
}

func TestCart_AddNoAcotaAlStock(t *testing.T) {
	c := entity.NewCart()
	c.Add(product("A", 100, 2), 5)

	it, ok := c.Item("A")
	require.True(t, ok)
	assert.Equal(t, 5, it.Quantity, "agregar no aplica el tope de stock")
}

func TestCart_AddCantidadInvalidaUsaUno(t *testing.T) {
	c := entity.NewCart()
	c.Add(product("A", 100, 2), 0)
	assert.Equal(t, 1, c.ItemCount)
}

func TestCart_OrdenDeInsercion(t *testing.T) {
	c := entity.NewCart()
	c.Add(product("C", 1, 9), 1)
	c.Add(product("A", 1, 9), 1)
	c.Add(product("B", 1, 9), 1)
	c.Add(product("A", 1, 9), 1)

	ids := []string{}
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	assert.Equal(t, []string{"C", "A", "B"}, ids)
}

func TestCart_IncrementNoSuperaStock(t *testing.T) {
	c := entity.NewCart()
	c.Add(product("A", 100, 2), 1)

	assert.Equal(t, entity.Applied, c.Increment("A"))
	assert.Equal(t, entity.NoOp, c.Increment("A"))
	it, _ := c.Item("A")
	assert.Equal(t, 2, it.Quantity)
}

func TestCart_DecrementNoBajaDeUno(t *testing.T) {
	c := entity.NewCart()
	c.Add(product("A", 100, 5), 2)

	assert.Equal(t, entity.Applied, c.Decrement("A"))
	assert.Equal(t, entity.NoOp, c.Decrement("A"))
	it, ok := c.Item("A")
	require.True(t, ok, "decrementar en 1 no elimina la línea")
	assert.Equal(t, 1, it.Quantity)
}

func TestCart_SetQuantityAcota(t *testing.T) {
	c := entity.NewCart()
	c.Add(product("A", 100, 4), 1)

	assert.Equal(t, entity.Applied, c.SetQuantity("A", 99))
	it, _ := c.Item("A")
	assert.Equal(t, 4, it.Quantity)

	assert.Equal(t, entity.Applied, c.SetQuantity("A", 0))
	it, _ = c.Item("A")
	assert.Equal(t, 1, it.Quantity, "el mínimo es 1")

	assert.Equal(t, entity.NoOp, c.SetQuantity("A", -3))
	assert.Equal(t, entity.NoOp, c.SetQuantity("Z", 2))
}

func TestCart_OperacionesSobreLineaInexistenteSonNoOp(t *testing.T) {
	c := entity.NewCart()
	assert.Equal(t, entity.NoOp, c.Remove("X"))
	assert.Equal(t, entity.NoOp, c.Increment("X"))
	assert.Equal(t, entity.NoOp, c.Decrement("X"))
	assert.Equal(t, entity.NoOp, c.Clear())
}

func TestCart_Merge(t *testing.T) {
	guest := entity.NewCart()
	guest.Add(product("A", 10, 9), 2)
	guest.Add(product("B", 20, 9), 1)

	user := entity.NewCart()
	user.Add(product("B", 20, 9), 3)
	user.Add(product("C", 30, 9), 1)

	assert.Equal(t, entity.Applied, user.Merge(guest))

	got := map[string]int{}
	for _, it := range user.Items {
		got[it.ProductID] = it.Quantity
	}
	assert.Equal(t, map[string]int{"A": 2, "B": 4, "C": 1}, got)
	assert.Equal(t, []string{"B", "C", "A"}, []string{user.Items[0].ProductID, user.Items[1].ProductID, user.Items[2].ProductID})
	assertTotals(t, user)
	assert.Equal(t, entity.NoOp, user.Merge(entity.NewCart()))
}

func TestCart_NormalizeReparaSnapshot(t *testing.T) {
	c := entity.Cart{
		Items: []entity.LineItem{
			{ProductID: "A", Price: decimal.NewFromInt(5), Quantity: 2, Stock: 9},
			{ProductID: "", Price: decimal.NewFromInt(5), Quantity: 1},
			{ProductID: "B", Price: decimal.NewFromInt(1), Quantity: 0},
			{ProductID: "A", Price: decimal.NewFromInt(5), Quantity: 1, Stock: 9},
		},
		Total:     decimal.NewFromInt(999),
		ItemCount: 42,
	}
	c.Normalize()

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.ItemCount)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(15)))
}

func TestCartIdentity_StorageKey(t *testing.T) {
	assert.Equal(t, "cart:guest", entity.GuestIdentity().StorageKey())
	assert.Equal(t, "cart:guest", entity.UserIdentity("").StorageKey())
	assert.Equal(t, "cart:user:guest", entity.UserIdentity("guest").StorageKey(),
		"un usuario llamado guest no colisiona con el slot invitado")
	assert.True(t, entity.CartIdentity{}.IsGuest())
}
