package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpbaz28/Banking-API/internal/api/dto"
	"github.com/jpbaz28/Banking-API/internal/api/middleware"
	"github.com/jpbaz28/Banking-API/internal/core/service"
)

type CleanupHandler struct {
	cleanupService *service.CleanupService
}

func NewCleanupHandler(cleanupService *service.CleanupService) *CleanupHandler {
	return &CleanupHandler{
		cleanupService: cleanupService,
	}
}

// Cleanup handles POST /cleanup
//
//	@Summary	Purge expired auth codes, idempotency records and old ledger entries
//	@Tags		maintenance
//	@Produce	json
//	@Success	200	{object}	dto.CleanupResponse
//	@Failure	503	{object}	dto.ErrorResponse
//	@Router		/cleanup [post]
func (h *CleanupHandler) Cleanup(c *gin.Context) {
	result, err := h.cleanupService.Run(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CleanupResponse{
		AuthCodes:          result.AuthCodes,
		IdempotencyRecords: result.IdempotencyRecords,
		LedgerEntries:      result.LedgerEntries,
	})
}
