package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_bank/internal/core/domain"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/dto"
)

type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// RegisterReconciliationRoutes registers routes to trigger and inspect reconciliation runs.
func RegisterReconciliationRoutes(rg *gin.RouterGroup, rs portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconciliationService: rs}

	runs := rg.Group("/reconciliations")
	{
		runs.POST("", h.trigger)
		runs.GET("", h.list)
		runs.GET("/:runID", h.get)
	}
}

// trigger godoc
// @Summary Run a reconciliation pass now
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   run body dto.TriggerReconciliationRequest true "Pass type"
// @Success 201 {object} domain.ReconciliationRun
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to run reconciliation"
// @Security BearerAuth
// @Router /reconciliations [post]
func (h *reconciliationHandler) trigger(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req dto.TriggerReconciliationRequest
	if !bindJSON(c, &req, "TriggerReconciliation") {
		return
	}

	var (
		run *domain.ReconciliationRun
		err error
	)
	if domain.ReconciliationType(req.Type) == domain.ReconciliationInternal {
		run, err = h.reconciliationService.RunInternal(c.Request.Context())
	} else {
		run, err = h.reconciliationService.RunExternal(c.Request.Context())
	}
	if err != nil {
		respondWithError(c, err, "Failed to run reconciliation")
		return
	}
	c.JSON(http.StatusCreated, run)
}

// list godoc
// @Summary List recent reconciliation runs
// @Tags reconciliation
// @Produce  json
// @Param   limit query int false "Maximum runs to return" default(20)
// @Success 200 {array} domain.ReconciliationRun
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list runs"
// @Security BearerAuth
// @Router /reconciliations [get]
func (h *reconciliationHandler) list(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var params dto.ListRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	runs, err := h.reconciliationService.ListRuns(c.Request.Context(), params.Limit)
	if err != nil {
		respondWithError(c, err, "Failed to list runs")
		return
	}
	c.JSON(http.StatusOK, runs)
}

// get godoc
// @Summary Get a reconciliation run
// @Tags reconciliation
// @Produce  json
// @Param   runID path string true "Run ID"
// @Success 200 {object} domain.ReconciliationRun
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to retrieve run"
// @Security BearerAuth
// @Router /reconciliations/{runID} [get]
func (h *reconciliationHandler) get(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	run, err := h.reconciliationService.GetRun(c.Request.Context(), c.Param("runID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve run")
		return
	}
	c.JSON(http.StatusOK, run)
}
