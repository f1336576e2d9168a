package fakeapi

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// ── Pedidos ───────────────────────────────────────────────────────────────────

func (s *Server) orderIndex(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// listOrders el admin ve todos; un cliente solo los suyos.
func (s *Server) listOrders(c *fiber.Ctx) error {
	status := c.Query("status")
	payment := c.Query("paymentStatus")
	admin := isAdmin(c)
	uid := currentUser(c)

	s.mu.Lock()
	out := []entity.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		o := s.orders[i]
		if !admin && o.Customer.ID != uid {
			continue
		}
		if status != "" && o.OrderStatus != status {
			continue
		}
		if payment != "" && o.PaymentStatus != payment {
			continue
		}
		out = append(out, o)
	}
	s.mu.Unlock()
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return c.JSON(fiber.Map{"success": true, "orders": docs(out)})
}

func (s *Server) getOrder(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(c.Params("id"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "Order not found")
	}
	if !isAdmin(c) && s.orders[i].Customer.ID != currentUser(c) {
		return fail(c, fiber.StatusForbidden, "Not authorized to view this order")
	}
	return c.JSON(fiber.Map{"success": true, "order": doc(s.orders[i])})
}

// createOrder valida stock, lo descuenta y respeta Idempotency-Key.
func (s *Server) createOrder(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	if len(in.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "No order items")
	}
	key := c.Get("Idempotency-Key")

	s.mu.Lock()
	defer s.mu.Unlock()
	if key != "" {
		if id, ok := s.idempotency[key]; ok {
			return c.JSON(fiber.Map{"success": true, "order": doc(s.orders[s.orderIndex(id)])})
		}
	}
	for _, it := range in.Items {
		i := s.productIndex(it.ProductID)
		if i < 0 {
			return fail(c, fiber.StatusNotFound, "Product not found: "+it.ProductID)
		}
		if s.products[i].Stock < it.Quantity {
			return fail(c, fiber.StatusBadRequest, "Insufficient stock for "+s.products[i].Name)
		}
	}
	subtotal := decimal.Zero
	for _, it := range in.Items {
		subtotal = subtotal.Add(it.Subtotal())
	}
	if !subtotal.Equal(in.Subtotal) {
		return fail(c, fiber.StatusBadRequest, "Subtotal mismatch")
	}
	for _, it := range in.Items {
		s.products[s.productIndex(it.ProductID)].Stock -= it.Quantity
	}

	acc := s.accounts[currentUser(c)]
	o := entity.Order{
		ID:              newObjectID(),
		OrderNumber:     s.nextOrderNumber(),
		Customer:        entity.OrderCustomer{ID: acc.user.ID, Name: acc.user.Name, Email: acc.user.Email},
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Subtotal:        in.Subtotal,
		ShippingFee:     in.ShippingFee,
		Tax:             in.Tax,
		Total:           in.Total,
		OrderStatus:     entity.OrderPending,
		PaymentStatus:   entity.PaymentPending,
		Notes:           in.Notes,
		CreatedAt:       time.Now().UTC(),
	}
	s.orders = append(s.orders, o)
	if key != "" {
		s.idempotency[key] = o.ID
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "order": doc(o)})
}

func (s *Server) updateOrderStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil || !contains(entity.OrderStatuses, in.Status) {
		return fail(c, fiber.StatusBadRequest, "Invalid order status")
	}
	return s.mutateOrder(c, func(o *entity.Order) string {
		o.OrderStatus = in.Status
		return ""
	})
}

func (s *Server) updatePaymentStatus(c *fiber.Ctx) error {
	var in dto.UpdatePaymentStatusRequest
	if err := c.BodyParser(&in); err != nil || !contains(entity.PaymentStatuses, in.PaymentStatus) {
		return fail(c, fiber.StatusBadRequest, "Invalid payment status")
	}
	return s.mutateOrder(c, func(o *entity.Order) string {
		o.PaymentStatus = in.PaymentStatus
		return ""
	})
}

// cancelOrder solo pedidos pending o confirmed; devuelve el stock.
func (s *Server) cancelOrder(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	_ = c.BodyParser(&in)
	return s.mutateOrder(c, func(o *entity.Order) string {
		if o.OrderStatus != entity.OrderPending && o.OrderStatus != entity.OrderConfirmed {
			return "Order cannot be cancelled at this stage"
		}
		o.OrderStatus = entity.OrderCancelled
		o.CancelReason = in.Reason
		for _, it := range o.Items {
			if i := s.productIndex(it.ProductID); i >= 0 {
				s.products[i].Stock += it.Quantity
			}
		}
		return ""
	})
}

// mutateOrder aplica fn bajo el lock; un mensaje no vacío es un 400.
func (s *Server) mutateOrder(c *fiber.Ctx, fn func(o *entity.Order) string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(c.Params("id"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "Order not found")
	}
	if !isAdmin(c) && s.orders[i].Customer.ID != currentUser(c) {
		return fail(c, fiber.StatusForbidden, "Not authorized to modify this order")
	}
	if msg := fn(&s.orders[i]); msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}
	return c.JSON(fiber.Map{"success": true, "order": doc(s.orders[i])})
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ── Usuarios (admin) ──────────────────────────────────────────────────────────

func (s *Server) listUsers(c *fiber.Ctx) error {
	role := c.Query("role")
	active := c.Query("isActive")
	s.mu.Lock()
	out := []entity.User{}
	for _, a := range s.accounts {
		if role != "" && string(a.user.Role) != role {
			continue
		}
		if active != "" && strconv.FormatBool(a.user.IsActive) != active {
			continue
		}
		out = append(out, a.user)
	}
	s.mu.Unlock()
	sortUsers(out)
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return c.JSON(fiber.Map{"success": true, "users": docs(out)})
}

func sortUsers(us []entity.User) {
	sort.Slice(us, func(i, j int) bool { return us[i].Email < us[j].Email })
}

func (s *Server) getUser(c *fiber.Ctx) error {
	s.mu.Lock()
	acc, ok := s.accounts[c.Params("id")]
	s.mu.Unlock()
	if !ok {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	return c.JSON(fiber.Map{"success": true, "user": doc(acc.user)})
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[c.Params("id")]
	if !ok {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	u := &acc.user
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = strings.ToLower(*in.Email)
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.Role != nil {
		if !entity.Role(*in.Role).Valid() {
			return fail(c, fiber.StatusBadRequest, "Invalid role")
		}
		u.Role = entity.Role(*in.Role)
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	return c.JSON(fiber.Map{"success": true, "user": doc(*u)})
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Params("id")
	if _, ok := s.accounts[id]; !ok {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	if id == currentUser(c) {
		return fail(c, fiber.StatusBadRequest, "You cannot delete your own account")
	}
	delete(s.accounts, id)
	return c.JSON(fiber.Map{"success": true, "message": "User deleted"})
}

// ── Contacto ──────────────────────────────────────────────────────────────────

func (s *Server) submitContact(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	if in.Name == "" || in.Email == "" || in.Subject == "" || in.Message == "" {
		return fail(c, fiber.StatusBadRequest, "Please fill in all required fields")
	}
	s.SeedMessage(entity.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Message sent successfully"})
}

func (s *Server) messageIndex(id string) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) listMessages(c *fiber.Ctx) error {
	status := c.Query("status")
	s.mu.Lock()
	out := []entity.ContactMessage{}
	for _, m := range s.messages {
		if status == "" || m.Status == status {
			out = append(out, m)
		}
	}
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "messages": docs(out)})
}

// getMessage marca como leído un mensaje sin leer.
func (s *Server) getMessage(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.messageIndex(c.Params("id"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "Message not found")
	}
	if s.messages[i].Status == entity.MessageUnread {
		s.messages[i].Status = entity.MessageRead
	}
	return c.JSON(fiber.Map{"success": true, "message": doc(s.messages[i])})
}

func (s *Server) replyMessage(c *fiber.Ctx) error {
	var in dto.ReplyMessageRequest
	if err := c.BodyParser(&in); err != nil || strings.TrimSpace(in.Reply) == "" {
		return fail(c, fiber.StatusBadRequest, "Reply is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.messageIndex(c.Params("id"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "Message not found")
	}
	now := time.Now().UTC()
	m := &s.messages[i]
	m.Reply = in.Reply
	m.Status = in.Status
	if m.Status == "" {
		m.Status = entity.MessageReplied
	}
	m.RepliedAt = &now
	return c.JSON(fiber.Map{"success": true, "message": doc(*m)})
}

func (s *Server) deleteMessage(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.messageIndex(c.Params("id"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "Message not found")
	}
	s.messages = append(s.messages[:i], s.messages[i+1:]...)
	return c.JSON(fiber.Map{"success": true, "message": "Message deleted"})
}
