package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/middleware"
)

// journalHandler exposes read access to journal entries and reversal.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, js portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: js}

	rg.GET("/entries/:entryID", h.getEntry)
	rg.POST("/entries/:entryID/reverse", h.reverseEntry)
	rg.GET("/entry-groups/:groupID", h.getGroup)
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Security BearerAuth
// @Router /entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// getGroup godoc
// @Summary List the entries posted under one group ID
// @Tags journal
// @Produce  json
// @Param   groupID path string true "Group ID"
// @Success 200 {object} dto.EntryGroupResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry group"
// @Security BearerAuth
// @Router /entry-groups/{groupID} [get]
func (h *journalHandler) getGroup(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	groupID := c.Param("groupID")
	entries, err := h.journalService.ListEntriesByGroup(c.Request.Context(), groupID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve entry group")
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry group not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryGroupResponse(entries))
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Posts the mirror entry. An entry can be reversed once.
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest true "Reason"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed"
// @Failure 422 {object} map[string]string "Insufficient funds to reverse"
// @Failure 500 {object} map[string]string "Failed to reverse entry"
// @Security BearerAuth
// @Router /entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.ReverseEntryRequest
	if !bindJSON(c, &req, "ReverseEntry") {
		return
	}

	entryID := c.Param("entryID")
	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, req.Reason, userID)
	if err != nil {
		respondWithError(c, err, "Failed to reverse entry")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}
