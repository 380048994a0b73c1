package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_bank/internal/core/domain"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/utils/accounting"
)

type familyHandler struct {
	familyService portssvc.FamilySvcFacade
}

// RegisterFamilyRoutes registers family settings and provider linking routes.
func RegisterFamilyRoutes(rg *gin.RouterGroup, fs portssvc.FamilySvcFacade) {
	h := &familyHandler{familyService: fs}

	families := rg.Group("/families/:familyID")
	{
		families.GET("/allocation-split", h.getSplit)
		families.PUT("/allocation-split", h.setSplit)
	}
	rg.POST("/financial-accounts", h.linkFinancialAccount)
	rg.POST("/cards", h.registerCard)
}

// getSplit godoc
// @Summary Get a family's deposit allocation split
// @Tags family
// @Produce  json
// @Param   familyID path string true "Family ID"
// @Success 200 {object} domain.AllocationSplit
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve allocation split"
// @Security BearerAuth
// @Router /families/{familyID}/allocation-split [get]
func (h *familyHandler) getSplit(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	split, err := h.familyService.GetAllocationSplit(c.Request.Context(), c.Param("familyID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve allocation split")
		return
	}
	c.JSON(http.StatusOK, split)
}

// setSplit godoc
// @Summary Set a family's deposit allocation split
// @Description Percentages must add up to 100.
// @Tags family
// @Accept  json
// @Produce  json
// @Param   familyID path string true "Family ID"
// @Param   split body dto.AllocationSplitRequest true "Bucket percentages"
// @Success 200 {object} domain.AllocationSplit
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to update allocation split"
// @Security BearerAuth
// @Router /families/{familyID}/allocation-split [put]
func (h *familyHandler) setSplit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.AllocationSplitRequest
	if !bindJSON(c, &req, "SetAllocationSplit") {
		return
	}

	split := req.ToDomain()
	if err := h.familyService.SetAllocationSplit(c.Request.Context(), c.Param("familyID"), split, userID); err != nil {
		respondWithError(c, err, "Failed to update allocation split")
		return
	}
	c.JSON(http.StatusOK, split)
}

// linkFinancialAccount godoc
// @Summary Link a provider financial account to a user's bucket
// @Tags family
// @Accept  json
// @Produce  json
// @Param   link body dto.LinkFinancialAccountRequest true "Link details"
// @Success 201 {object} domain.FinancialAccountLink
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Financial account already linked"
// @Failure 500 {object} map[string]string "Failed to link financial account"
// @Security BearerAuth
// @Router /financial-accounts [post]
func (h *familyHandler) linkFinancialAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.LinkFinancialAccountRequest
	if !bindJSON(c, &req, "LinkFinancialAccount") {
		return
	}

	link, err := h.familyService.LinkFinancialAccount(c.Request.Context(), domain.FinancialAccountLink{
		FinancialAccountID: req.FinancialAccountID,
		UserID:             req.UserID,
		FamilyID:           req.FamilyID,
		BucketType:         req.BucketType,
	}, userID)
	if err != nil {
		respondWithError(c, err, "Failed to link financial account")
		return
	}
	c.JSON(http.StatusCreated, link)
}

// registerCard godoc
// @Summary Register a provider card for a user
// @Description A zero monthly limit means unlimited.
// @Tags family
// @Accept  json
// @Produce  json
// @Param   card body dto.RegisterCardRequest true "Card details"
// @Success 201 {object} domain.Card
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Card already registered"
// @Failure 500 {object} map[string]string "Failed to register card"
// @Security BearerAuth
// @Router /cards [post]
func (h *familyHandler) registerCard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.RegisterCardRequest
	if !bindJSON(c, &req, "RegisterCard") {
		return
	}

	card, err := h.familyService.RegisterCard(c.Request.Context(), domain.Card{
		CardID:            req.CardID,
		UserID:            req.UserID,
		FamilyID:          req.FamilyID,
		MonthlySpendLimit: accounting.ToCents(req.MonthlySpendLimit),
	}, userID)
	if err != nil {
		respondWithError(c, err, "Failed to register card")
		return
	}
	c.JSON(http.StatusCreated, card)
}
