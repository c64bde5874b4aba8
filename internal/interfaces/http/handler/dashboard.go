package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tourops/backend/internal/application/reconcile"
	"github.com/tourops/backend/internal/interfaces/http/dto"
)

// ViewReader serves published aggregate views to the handlers
type ViewReader interface {
	Latest() *reconcile.AggregateView
}

// DashboardHandler exposes the published aggregate view over HTTP.
// Every endpoint reads the most recently published view; no endpoint ever
// triggers a computation. Until the first reconciliation pass publishes,
// all view endpoints answer 503.
type DashboardHandler struct {
	BaseHandler
	views ViewReader
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(views ViewReader) *DashboardHandler {
	return &DashboardHandler{views: views}
}

// RegisterRoutes registers dashboard endpoints on the versioned API group
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetDashboard)
	rg.GET("/dashboard/portfolio", h.GetPortfolio)
	rg.GET("/dashboard/bookings", h.ListBookings)
	rg.GET("/dashboard/bookings/:id", h.GetBooking)
	rg.GET("/dashboard/tours", h.ListTours)
	rg.GET("/dashboard/tours/:id", h.GetTour)
	rg.GET("/dashboard/policies", h.ListPolicies)
	rg.GET("/dashboard/accounts", h.ListAccounts)
	rg.GET("/dashboard/monthly", h.ListMonthly)
}

// latest loads the current view or answers 503 and returns nil
func (h *DashboardHandler) latest(c *gin.Context) *reconcile.AggregateView {
	view := h.views.Latest()
	if view == nil {
		h.ViewNotReady(c)
	}
	return view
}

// GetDashboard returns the complete published view
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	if view := h.latest(c); view != nil {
		h.Success(c, view)
	}
}

// GetPortfolio returns the agency-wide rollup
func (h *DashboardHandler) GetPortfolio(c *gin.Context) {
	view := h.latest(c)
	if view == nil {
		return
	}
	h.Success(c, gin.H{
		"computed_at": view.ComputedAt,
		"portfolio":   view.Portfolio,
	})
}

// ListBookings returns the per-booking financial views
func (h *DashboardHandler) ListBookings(c *gin.Context) {
	if view := h.latest(c); view != nil {
		h.Success(c, view.Bookings)
	}
}

// GetBooking returns one booking's derived view, including its payment badge
func (h *DashboardHandler) GetBooking(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid booking ID")
		return
	}
	view := h.latest(c)
	if view == nil {
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "invalid booking ID")
		return
	}
	booking, ok := view.BookingByID(id)
	if !ok {
		h.NotFound(c, "booking not found in published view")
		return
	}
	h.Success(c, booking)
}

// ListTours returns the per-tour fulfillment views
func (h *DashboardHandler) ListTours(c *gin.Context) {
	if view := h.latest(c); view != nil {
		h.Success(c, view.Tours)
	}
}

// GetTour returns one tour's derived view
func (h *DashboardHandler) GetTour(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid tour ID")
		return
	}
	view := h.latest(c)
	if view == nil {
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "invalid tour ID")
		return
	}
	tour, ok := view.TourByID(id)
	if !ok {
		h.NotFound(c, "tour not found in published view")
		return
	}
	h.Success(c, tour)
}

// ListPolicies returns the per-policy settlement views
func (h *DashboardHandler) ListPolicies(c *gin.Context) {
	if view := h.latest(c); view != nil {
		h.Success(c, view.Policies)
	}
}

// ListAccounts returns the running account balances
func (h *DashboardHandler) ListAccounts(c *gin.Context) {
	if view := h.latest(c); view != nil {
		h.Success(c, view.Accounts)
	}
}

// ListMonthly returns the monthly rollups in chronological order
func (h *DashboardHandler) ListMonthly(c *gin.Context) {
	if view := h.latest(c); view != nil {
		h.Success(c, view.Monthly)
	}
}
