package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "luminora-backend/internal/common/errors"
	"luminora-backend/internal/common/logger"
	"luminora-backend/internal/common/middleware"
	"luminora-backend/internal/features/blocklist"
	"luminora-backend/internal/features/giveaway/models/dto"
)

type AdminHandler struct {
	blocklist blocklist.Repository
	token     string
}

func NewAdminHandler(blocklist blocklist.Repository, token string) *AdminHandler {
	return &AdminHandler{
		blocklist: blocklist,
		token:     token,
	}
}

func (h *AdminHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/admin/block-ip", h.blockIP)
}

// @Summary Block an IP
// @Description Adds an IP to the block-set. Requires the internal admin token.
// @Tags admin
// @Accept json
// @Produce json
// @Param input body dto.BlockIPRequest true "Token and IP"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /api/admin/block-ip [post]
func (h *AdminHandler) blockIP(c *gin.Context) {
	var input dto.BlockIPRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.SendError(c, apperrors.NewValidationError("body", "token and ip are required"))
		return
	}

	if subtle.ConstantTimeCompare([]byte(input.Token), []byte(h.token)) != 1 {
		middleware.SendError(c, apperrors.NewForbiddenError("invalid admin token"))
		return
	}

	if err := h.blocklist.Add(c.Request.Context(), input.IP); err != nil {
		middleware.SendError(c, apperrors.NewStorageError("block ip", err))
		return
	}

	logger.Warn().Str("blocked_ip", input.IP).Msg("IP added to blocklist")
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
