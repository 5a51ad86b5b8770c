package handler

import (
	"net/http"
	"time"

	treasuryapp "github.com/circleops/treasury/internal/application/treasury"
	"github.com/circleops/treasury/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExpenseHandler handles direct and planned expense API endpoints
type ExpenseHandler struct {
	BaseHandler
	service *treasuryapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(service *treasuryapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// ===================== Request DTOs =====================

// CreateDirectExpenseRequest represents a request to record a direct expense
type CreateDirectExpenseRequest struct {
	FundID      uuid.UUID  `json:"fund_id" binding:"required"`
	ApartmentID *uuid.UUID `json:"apartment_id"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	Description string     `json:"description" binding:"required"`
	IncurredAt  time.Time  `json:"incurred_at" binding:"required"`
}

// CreatePlannedExpenseRequest represents a request to create a forecast line
type CreatePlannedExpenseRequest struct {
	FundID      uuid.UUID `json:"fund_id" binding:"required"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Description string    `json:"description" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
}

// DirectExpenseListFilter represents filter parameters for direct expense list
type DirectExpenseListFilter struct {
	FundID   *uuid.UUID `form:"fund_id"`
	Page     int        `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// PlannedExpenseListFilter represents filter parameters for planned expense list
type PlannedExpenseListFilter struct {
	FundID   *uuid.UUID `form:"fund_id"`
	Status   string     `form:"status"`
	Page     int        `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// ===================== Direct Expense Handlers =====================

// CreateDirect records a direct expense against a fund
func (h *ExpenseHandler) CreateDirect(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	userID, err := getUserID(c)
	if err != nil || userID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid user")
		return
	}

	var req CreateDirectExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	expense, err := h.service.CreateDirectExpense(c.Request.Context(), circleID, treasuryapp.CreateDirectExpenseRequest{
		FundID:      req.FundID,
		ApartmentID: req.ApartmentID,
		Amount:      toDecimal(req.Amount),
		Description: req.Description,
		IncurredAt:  req.IncurredAt,
		EnteredByID: userID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, expense)
}

// ListDirect lists direct expenses
func (h *ExpenseHandler) ListDirect(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var filter DirectExpenseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	expenses, err := h.service.ListDirectExpenses(c.Request.Context(), circleID, filter.FundID, filter.Page, filter.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expenses)
}

// GetDirect gets a direct expense by ID
func (h *ExpenseHandler) GetDirect(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid expense ID")
		return
	}

	expense, err := h.service.GetDirectExpenseByID(c.Request.Context(), circleID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// ===================== Planned Expense Handlers =====================

// CreatePlanned creates a forecast line against a fund
func (h *ExpenseHandler) CreatePlanned(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var req CreatePlannedExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	expense, err := h.service.CreatePlannedExpense(c.Request.Context(), circleID, treasuryapp.CreatePlannedExpenseRequest{
		FundID:      req.FundID,
		Amount:      toDecimal(req.Amount),
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, expense)
}

// ListPlanned lists planned expenses
func (h *ExpenseHandler) ListPlanned(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var filter PlannedExpenseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	expenses, err := h.service.ListPlannedExpenses(c.Request.Context(), circleID, filter.FundID, filter.Status, filter.Page, filter.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expenses)
}

// GetPlanned gets a planned expense by ID
func (h *ExpenseHandler) GetPlanned(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid expense ID")
		return
	}

	expense, err := h.service.GetPlannedExpenseByID(c.Request.Context(), circleID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// CommitPlanned marks a planned expense as spent
func (h *ExpenseHandler) CommitPlanned(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid expense ID")
		return
	}

	expense, err := h.service.CommitPlannedExpense(c.Request.Context(), circleID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// CancelPlanned cancels a planned expense that never materialized
func (h *ExpenseHandler) CancelPlanned(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid expense ID")
		return
	}

	expense, err := h.service.CancelPlannedExpense(c.Request.Context(), circleID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// RegisterRoutes registers all expense routes
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	direct := rg.Group("/direct-expenses")
	{
		direct.GET("", h.ListDirect)
		direct.GET("/:id", h.GetDirect)
		direct.POST("", middleware.RequireTreasurer(), h.CreateDirect)
	}

	planned := rg.Group("/planned-expenses")
	{
		planned.GET("", h.ListPlanned)
		planned.GET("/:id", h.GetPlanned)
		planned.POST("", middleware.RequireTreasurer(), h.CreatePlanned)
		planned.POST("/:id/commit", middleware.RequireTreasurer(), h.CommitPlanned)
		planned.POST("/:id/cancel", middleware.RequireTreasurer(), h.CancelPlanned)
	}
}
