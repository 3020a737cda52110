package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/clearbooks/clearbooks_backend/internal/apperrors"
	portssvc "github.com/clearbooks/clearbooks_backend/internal/core/ports/services"
	"github.com/clearbooks/clearbooks_backend/internal/dto"
	"github.com/clearbooks/clearbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// entryHandler handles HTTP requests for the journal entry lifecycle.
type entryHandler struct {
	entryService portssvc.EntrySvcFacade
}

func newEntryHandler(entryService portssvc.EntrySvcFacade) *entryHandler {
	return &entryHandler{entryService: entryService}
}

func registerEntryRoutes(rg *gin.RouterGroup, entryService portssvc.EntrySvcFacade) {
	h := newEntryHandler(entryService)
	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/void", h.voidEntry)
	}
}

// validationResponse shapes a validation failure so clients can branch on the
// kind without parsing messages.
func validationResponse(c *gin.Context, err error) bool {
	var vErr *apperrors.ValidationError
	if !errors.As(err, &vErr) {
		return false
	}
	body := gin.H{"error": vErr.Message, "kind": string(vErr.Kind)}
	if vErr.AccountID != "" {
		body["accountID"] = vErr.AccountID
	}
	c.JSON(http.StatusBadRequest, body)
	return true
}

func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	createReq := dto.CreateEntryRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), companyID, createReq, creatorUserID)
	if err != nil {
		if validationResponse(c, err) {
			logger.Warn("Validation error creating entry", slog.String("error", err.Error()))
			return
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Company not found for entry creation", slog.String("company_id", companyID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		logger.Error("Failed to create entry in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry"})
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.Int64("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	params := dto.ListEntriesParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query parameters for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.entryService.ListEntries(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination token"})
			return
		}
		logger.Error("Failed to list entries", slog.String("error", err.Error()), slog.String("company_id", companyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	entry, err := h.entryService.GetEntryByID(c.Request.Context(), companyID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Entry not found", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		logger.Error("Failed to get entry from service", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, ledgerLines, err := h.entryService.PostEntry(c.Request.Context(), companyID, entryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyPosted):
			logger.Warn("Entry already posted", slog.String("entry_id", entryID))
			c.JSON(http.StatusConflict, gin.H{"error": "Entry already posted"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Entry in conflicting state for posting", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case validationResponse(c, err):
			logger.Warn("Validation error posting entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entry not found for posting", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		default:
			logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post entry"})
		}
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.Int("ledger_lines", len(ledgerLines)))
	c.JSON(http.StatusOK, gin.H{
		"entry":       dto.ToEntryResponse(entry),
		"ledgerLines": dto.ToLedgerLineResponses(ledgerLines),
	})
}

func (h *entryHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	voidReq := dto.VoidEntryRequest{}
	if err := c.ShouldBindJSON(&voidReq); err != nil {
		logger.Error("Failed to bind JSON for VoidEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversing, ledgerLines, err := h.entryService.VoidEntry(c.Request.Context(), companyID, entryID, voidReq.Reason, userID)
	if err != nil {
		switch {
		case validationResponse(c, err):
			logger.Warn("Validation error voiding entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Entry in conflicting state for voiding", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entry not found for voiding", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		default:
			logger.Error("Failed to void entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to void entry"})
		}
		return
	}

	logger.Info("Journal entry voided", slog.String("entry_id", entryID), slog.String("reversing_entry_id", reversing.EntryID))
	c.JSON(http.StatusOK, gin.H{
		"reversingEntry": dto.ToEntryResponse(reversing),
		"ledgerLines":    dto.ToLedgerLineResponses(ledgerLines),
	})
}
