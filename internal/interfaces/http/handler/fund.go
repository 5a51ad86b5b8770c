package handler

import (
	"net/http"

	treasuryapp "github.com/circleops/treasury/internal/application/treasury"
	"github.com/circleops/treasury/internal/interfaces/http/dto"
	"github.com/circleops/treasury/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FundHandler handles budget and fund API endpoints, including the
// bulk reassignment of records between funds.
type FundHandler struct {
	BaseHandler
	fundService     *treasuryapp.FundService
	movementService *treasuryapp.FundMovementService
}

// NewFundHandler creates a new FundHandler
func NewFundHandler(
	fundService *treasuryapp.FundService,
	movementService *treasuryapp.FundMovementService,
) *FundHandler {
	return &FundHandler{
		fundService:     fundService,
		movementService: movementService,
	}
}

// ===================== Request DTOs =====================

// RenameRequest represents a request to rename a budget or fund
type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// ===================== Budget Handlers =====================

// CreateBudget creates a new budget
func (h *FundHandler) CreateBudget(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var req treasuryapp.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	budget, err := h.fundService.CreateBudget(c.Request.Context(), circleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, budget)
}

// ListBudgets lists all budgets for the circle
func (h *FundHandler) ListBudgets(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	budgets, err := h.fundService.ListBudgets(c.Request.Context(), circleID, req.Page, req.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, budgets)
}

// GetBudget gets a budget by ID
func (h *FundHandler) GetBudget(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid budget ID")
		return
	}

	budget, err := h.fundService.GetBudgetByID(c.Request.Context(), circleID, budgetID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, budget)
}

// RenameBudget renames a budget
func (h *FundHandler) RenameBudget(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid budget ID")
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	budget, err := h.fundService.RenameBudget(c.Request.Context(), circleID, budgetID, req.Name)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, budget)
}

// DeleteBudget deletes a budget with no remaining funds
func (h *FundHandler) DeleteBudget(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid budget ID")
		return
	}

	if err := h.fundService.DeleteBudget(c.Request.Context(), circleID, budgetID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, nil)
}

// ===================== Fund Handlers =====================

// CreateFund creates a new fund inside a budget
func (h *FundHandler) CreateFund(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var req treasuryapp.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	fund, err := h.fundService.CreateFund(c.Request.Context(), circleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, fund)
}

// ListFunds lists funds with filtering
func (h *FundHandler) ListFunds(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var filter treasuryapp.FundListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	funds, err := h.fundService.ListFunds(c.Request.Context(), circleID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, funds)
}

// GetFund gets a fund by ID
func (h *FundHandler) GetFund(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid fund ID")
		return
	}

	fund, err := h.fundService.GetFundByID(c.Request.Context(), circleID, fundID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, fund)
}

// RenameFund renames a fund
func (h *FundHandler) RenameFund(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid fund ID")
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	fund, err := h.fundService.RenameFund(c.Request.Context(), circleID, fundID, req.Name)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, fund)
}

// ArchiveFund archives a fund so new records can no longer target it
func (h *FundHandler) ArchiveFund(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid fund ID")
		return
	}

	fund, err := h.fundService.ArchiveFund(c.Request.Context(), circleID, fundID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, fund)
}

// MoveItems reassigns records between funds in bulk
func (h *FundHandler) MoveItems(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var req treasuryapp.MoveItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.movementService.MoveItems(c.Request.Context(), circleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers all budget and fund routes
func (h *FundHandler) RegisterRoutes(rg *gin.RouterGroup) {
	budgets := rg.Group("/budgets")
	{
		budgets.GET("", h.ListBudgets)
		budgets.GET("/:id", h.GetBudget)
		budgets.POST("", middleware.RequireTreasurer(), h.CreateBudget)
		budgets.PUT("/:id", middleware.RequireTreasurer(), h.RenameBudget)
		budgets.DELETE("/:id", middleware.RequireTreasurer(), h.DeleteBudget)
	}

	funds := rg.Group("/funds")
	{
		funds.GET("", h.ListFunds)
		funds.GET("/:id", h.GetFund)
		funds.POST("", middleware.RequireTreasurer(), h.CreateFund)
		funds.PUT("/:id", middleware.RequireTreasurer(), h.RenameFund)
		funds.POST("/:id/archive", middleware.RequireTreasurer(), h.ArchiveFund)
		funds.POST("/move-items", middleware.RequireTreasurer(), h.MoveItems)
	}
}
