package fakeapi

import (
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

func (s *Server) routes() {
	api := s.app.Group("/api", s.record)

	auth := api.Group("/auth")
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)
	auth.Get("/me", s.protect, s.me)
	auth.Put("/updateprofile", s.protect, s.updateProfile)
	auth.Put("/updatepassword", s.protect, s.updatePassword)

	products := api.Group("/products")
	products.Get("/", s.listProducts)
	products.Get("/featured", s.featuredProducts)
	products.Get("/:id", s.getProduct)
	products.Post("/", s.protect, adminOnly, s.createProduct)
	products.Put("/:id", s.protect, adminOnly, s.updateProduct)
	products.Delete("/:id", s.protect, adminOnly, s.deleteProduct)

	categories := api.Group("/categories")
	categories.Get("/", s.listCategories)
	categories.Get("/:id", s.getCategory)
	categories.Post("/", s.protect, adminOnly, s.createCategory)
	categories.Put("/:id", s.protect, adminOnly, s.updateCategory)
	categories.Delete("/:id", s.protect, adminOnly, s.deleteCategory)

	orders := api.Group("/orders", s.protect)
	orders.Get("/", s.listOrders)
	orders.Post("/", s.createOrder)
	orders.Get("/:id", s.getOrder)
	orders.Put("/:id/status", adminOnly, s.updateOrderStatus)
	orders.Put("/:id/payment", adminOnly, s.updatePaymentStatus)
	orders.Put("/:id/cancel", s.cancelOrder)

	users := api.Group("/users", s.protect, adminOnly)
	users.Get("/", s.listUsers)
	users.Get("/:id", s.getUser)
	users.Put("/:id", s.updateUser)
	users.Delete("/:id", s.deleteUser)

	// POST es público; el resto solo admin.
	contact := api.Group("/contact")
	contact.Post("/", s.submitContact)
	contact.Get("/", s.protect, adminOnly, s.listMessages)
	contact.Get("/:id", s.protect, adminOnly, s.getMessage)
	contact.Put("/:id/reply", s.protect, adminOnly, s.replyMessage)
	contact.Delete("/:id", s.protect, adminOnly, s.deleteMessage)
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (s *Server) register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || email == "" || len(in.Password) < 6 {
		return fail(c, fiber.StatusBadRequest, "Please provide name, email and a password of at least 6 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fail(c, fiber.StatusBadRequest, "Please provide a valid email")
	}
	s.mu.Lock()
	for _, a := range s.accounts {
		if a.user.Email == email {
			s.mu.Unlock()
			return fail(c, fiber.StatusBadRequest, "User already exists")
		}
	}
	s.mu.Unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.MinCost)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	role := entity.Role(in.Role)
	if !role.Valid() {
		role = entity.RoleCustomer
	}
	u := entity.User{
		ID:        newObjectID(),
		Name:      in.Name,
		Email:     email,
		Phone:     in.Phone,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.accounts[u.ID] = &account{user: u, hash: hash}
	s.mu.Unlock()
	tok, err := s.issue(u)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "token": tok, "user": doc(u)})
}

func (s *Server) login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	s.mu.Lock()
	var found *account
	for _, a := range s.accounts {
		if a.user.Email == email {
			found = a
			break
		}
	}
	s.mu.Unlock()
	if found == nil || bcrypt.CompareHashAndPassword(found.hash, []byte(in.Password)) != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if !found.user.IsActive {
		return fail(c, fiber.StatusForbidden, "Account is deactivated")
	}
	tok, err := s.issue(found.user)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "token": tok, "user": doc(found.user)})
}

func (s *Server) me(c *fiber.Ctx) error {
	s.mu.Lock()
	acc := s.accounts[currentUser(c)]
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "user": doc(acc.user)})
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	s.mu.Lock()
	acc := s.accounts[currentUser(c)]
	if in.Name != "" {
		acc.user.Name = in.Name
	}
	if in.Email != "" {
		acc.user.Email = strings.ToLower(in.Email)
	}
	if in.Phone != "" {
		acc.user.Phone = in.Phone
	}
	if in.Address != "" {
		acc.user.Address = in.Address
	}
	u := acc.user
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "user": doc(u)})
}

func (s *Server) updatePassword(c *fiber.Ctx) error {
	var in dto.UpdatePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	if len(in.NewPassword) < 6 {
		return fail(c, fiber.StatusBadRequest, "Password must be at least 6 characters")
	}
	s.mu.Lock()
	acc := s.accounts[currentUser(c)]
	s.mu.Unlock()
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(in.CurrentPassword)) != nil {
		return fail(c, fiber.StatusBadRequest, "Current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.MinCost)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	s.mu.Lock()
	acc.hash = hash
	u := acc.user
	s.mu.Unlock()
	tok, err := s.issue(u)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "token": tok, "message": "Password updated"})
}

// ── Productos ─────────────────────────────────────────────────────────────────

func (s *Server) listProducts(c *fiber.Ctx) error {
	category := c.Query("category")
	subcategory := c.Query("subcategory")
	featured := c.Query("featured") == "true"

	s.mu.Lock()
	out := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if subcategory != "" && !strings.EqualFold(p.Subcategory, subcategory) {
			continue
		}
		if featured && !p.Featured {
			continue
		}
		out = append(out, p)
	}
	s.mu.Unlock()

	sortProducts(out, c.Query("sort", "-createdAt"))
	total := len(out)
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return c.JSON(fiber.Map{"success": true, "products": docs(out), "total": total})
}

// sortProducts acepta name, -name, price, -price y -createdAt.
func sortProducts(ps []entity.Product, key string) {
	desc := strings.HasPrefix(key, "-")
	field := strings.TrimPrefix(key, "-")
	less := func(i, j int) bool {
		switch field {
		case "name":
			return strings.ToLower(ps[i].Name) < strings.ToLower(ps[j].Name)
		case "price":
			return ps[i].Price.LessThan(ps[j].Price)
		default:
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
}

func (s *Server) featuredProducts(c *fiber.Ctx) error {
	s.mu.Lock()
	out := []entity.Product{}
	for _, p := range s.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "products": docs(out)})
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	p, ok := s.Product(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "Product not found")
	}
	return c.JSON(fiber.Map{"success": true, "product": doc(p)})
}

func (s *Server) createProduct(c *fiber.Ctx) error {
	var in dto.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	if in.Name == "" || in.Category == "" || !in.Price.IsPositive() {
		return fail(c, fiber.StatusBadRequest, "Name, category and a positive price are required")
	}
	p := s.SeedProduct(productFromInput(entity.Product{}, in))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "product": doc(p)})
}

func (s *Server) updateProduct(c *fiber.Ctx) error {
	var in dto.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	s.mu.Lock()
	i := s.productIndex(c.Params("id"))
	if i < 0 {
		s.mu.Unlock()
		return fail(c, fiber.StatusNotFound, "Product not found")
	}
	s.products[i] = productFromInput(s.products[i], in)
	p := s.products[i]
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "product": doc(p)})
}

func (s *Server) deleteProduct(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(c.Params("id"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "Product not found")
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted"})
}

func productFromInput(p entity.Product, in dto.ProductInput) entity.Product {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.Category = in.Category
	p.Subcategory = in.Subcategory
	p.Brand = in.Brand
	p.Images = in.Images
	p.Featured = in.Featured
	return p
}

// ── Categorías ────────────────────────────────────────────────────────────────

func (s *Server) listCategories(c *fiber.Ctx) error {
	s.mu.Lock()
	out := make([]entity.Category, len(s.categories))
	copy(out, s.categories)
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "categories": docs(out)})
}

func (s *Server) categoryIndex(id string) int {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) getCategory(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.categoryIndex(c.Params("id"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "Category not found")
	}
	return c.JSON(fiber.Map{"success": true, "category": doc(s.categories[i])})
}

func (s *Server) createCategory(c *fiber.Ctx) error {
	var in dto.CategoryInput
	if err := c.BodyParser(&in); err != nil || in.Name == "" {
		return fail(c, fiber.StatusBadRequest, "Category name is required")
	}
	cat := s.SeedCategory(entity.Category{
		Name:          in.Name,
		Description:   in.Description,
		Subcategories: in.Subcategories,
		Image:         in.Image,
		CreatedAt:     time.Now().UTC(),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "category": doc(cat)})
}

func (s *Server) updateCategory(c *fiber.Ctx) error {
	var in dto.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.categoryIndex(c.Params("id"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "Category not found")
	}
	cat := &s.categories[i]
	if in.Name != "" {
		cat.Name = in.Name
	}
	cat.Description = in.Description
	cat.Subcategories = in.Subcategories
	cat.Image = in.Image
	if in.IsActive != nil {
		cat.IsActive = *in.IsActive
	}
	return c.JSON(fiber.Map{"success": true, "category": doc(*cat)})
}

func (s *Server) deleteCategory(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.categoryIndex(c.Params("id"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "Category not found")
	}
	s.categories = append(s.categories[:i], s.categories[i+1:]...)
	return c.JSON(fiber.Map{"success": true, "message": "Category deleted"})
}
