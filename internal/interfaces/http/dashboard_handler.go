package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-storefront/internal/application/usecase"
)

// DashboardPath vista inicial del panel de administración.
const DashboardPath = "/admin/dashboard"

// DashboardHandler maneja el panel de administración.
type DashboardHandler struct{}

// NewDashboardHandler construye el handler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Index redirige /admin al dashboard.
func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	return c.Redirect(DashboardPath, fiber.StatusSeeOther)
}

// GetSummary devuelve los contadores del panel.
// GET /admin/dashboard
//
// Respuesta: DashboardSummaryDTO (productos, agotados, categorías, pedidos por estado,
// ingresos de pedidos pagados, mensajes sin leer).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := usecase.NewDashboardUseCase(GetWorkspace(c).API()).Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
