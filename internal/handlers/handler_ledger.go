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

// ledgerHandler handles HTTP requests for ledger line range reads.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)
	rg.GET("/accounts/:accountID/ledger", h.listLedgerLines)
}

func (h *ledgerHandler) listLedgerLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	params := dto.ListLedgerLinesParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query parameters for ListLedgerLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters, dates expect YYYY-MM-DD"})
		return
	}

	resp, err := h.ledgerService.ListLedgerLines(c.Request.Context(), companyID, accountID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBadRequest):
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination token"})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Account not found for ledger read", slog.String("account_id", accountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			logger.Error("Failed to list ledger lines", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger lines"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
