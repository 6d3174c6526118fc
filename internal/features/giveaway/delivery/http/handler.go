package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "luminora-backend/internal/common/errors"
	"luminora-backend/internal/common/middleware"
	"luminora-backend/internal/features/fingerprint"
	"luminora-backend/internal/features/giveaway/models/dto"
	"luminora-backend/internal/features/giveaway/service"
	"luminora-backend/internal/web"
)

type GiveawayHandler struct {
	service  service.GiveawayService
	renderer *web.Renderer
}

func NewGiveawayHandler(service service.GiveawayService, renderer *web.Renderer) *GiveawayHandler {
	return &GiveawayHandler{
		service:  service,
		renderer: renderer,
	}
}

// RegisterRoutes wires the API and the public redirect endpoint. The
// strict limiter guards the mutating routes; the general limiter is
// already applied to the api group by the caller.
func (h *GiveawayHandler) RegisterRoutes(api *gin.RouterGroup, root *gin.Engine, strict gin.HandlerFunc) {
	api.POST("/create", strict, h.create)
	api.POST("/join/:id", strict, h.join)
	api.DELETE("/delete/:id", strict, h.delete)

	api.GET("/giveaways", h.list)
	api.GET("/giveaway/:id", h.getByID)
	api.GET("/leaderboard/:id", h.leaderboard)
	api.GET("/global-leaderboard", h.globalLeaderboard)
	api.GET("/countdown/:id", h.countdown)
	api.GET("/my-giveaways", h.myGiveaways)
	api.GET("/stats", h.stats)

	root.GET("/g/:id", h.visit)
}

// @Summary Create a giveaway
// @Description Creates a giveaway owned by the caller's IP. The end time must be strictly in the future.
// @Tags giveaways
// @Accept json
// @Produce json
// @Param input body dto.GiveawayCreateRequest true "Giveaway fields"
// @Success 200 {object} dto.GiveawayCreateResponse
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Router /api/create [post]
func (h *GiveawayHandler) create(c *gin.Context) {
	var input dto.GiveawayCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.SendError(c, apperrors.NewValidationError("body", "all fields are required"))
		return
	}

	id, err := h.service.Create(c.Request.Context(), &input, c.ClientIP())
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GiveawayCreateResponse{Success: true, ID: id})
}

// @Summary Join a giveaway
// @Description Adds a participant with an optional avatar upload and returns their referral link.
// @Tags giveaways
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Giveaway id"
// @Param name formData string true "Display name"
// @Param avatar formData file false "Avatar image (max 5MB)"
// @Success 200 {object} dto.JoinResponse
// @Failure 404 {object} middleware.ErrorResponse "Giveaway not found"
// @Failure 409 {object} middleware.ErrorResponse "Already joined"
// @Router /api/join/{id} [post]
func (h *GiveawayHandler) join(c *gin.Context) {
	input := &service.JoinInput{
		Name:        c.PostForm("name"),
		IP:          c.ClientIP(),
		Fingerprint: fingerprint.FromRequest(c.Request),
	}

	// A missing file is fine; the participant gets a stock avatar.
	if fh, err := c.FormFile("avatar"); err == nil {
		input.Avatar = fh
	}

	resp, err := h.service.Join(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List giveaways
// @Tags giveaways
// @Produce json
// @Success 200 {array} dto.GiveawayResponse
// @Router /api/giveaways [get]
func (h *GiveawayHandler) list(c *gin.Context) {
	giveaways, err := h.service.List(c.Request.Context())
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, giveaways)
}

// @Summary Get giveaway details
// @Description Returns the giveaway with participants, derived is_ended flag and, once ended, the winner.
// @Tags giveaways
// @Produce json
// @Param id path string true "Giveaway id"
// @Success 200 {object} dto.GiveawayDetailResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /api/giveaway/{id} [get]
func (h *GiveawayHandler) getByID(c *gin.Context) {
	detail, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// @Summary Giveaway leaderboard
// @Description Top participants by referral count, ties broken by earliest join.
// @Tags giveaways
// @Produce json
// @Param id path string true "Giveaway id"
// @Success 200 {array} models.Participant
// @Failure 404 {object} middleware.ErrorResponse
// @Router /api/leaderboard/{id} [get]
func (h *GiveawayHandler) leaderboard(c *gin.Context) {
	participants, err := h.service.Leaderboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// @Summary Global leaderboard
// @Description Top participants across all giveaways.
// @Tags giveaways
// @Produce json
// @Success 200 {array} dto.GlobalLeaderboardEntry
// @Router /api/global-leaderboard [get]
func (h *GiveawayHandler) globalLeaderboard(c *gin.Context) {
	entries, err := h.service.GlobalLeaderboard(c.Request.Context())
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary Giveaway countdown
// @Tags giveaways
// @Produce json
// @Param id path string true "Giveaway id"
// @Success 200 {object} dto.CountdownResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /api/countdown/{id} [get]
func (h *GiveawayHandler) countdown(c *gin.Context) {
	countdown, err := h.service.Countdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, countdown)
}

// @Summary My giveaways
// @Description Giveaways created from the caller's IP.
// @Tags giveaways
// @Produce json
// @Success 200 {array} dto.GiveawayResponse
// @Router /api/my-giveaways [get]
func (h *GiveawayHandler) myGiveaways(c *gin.Context) {
	giveaways, err := h.service.ListByCreator(c.Request.Context(), c.ClientIP())
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, giveaways)
}

// @Summary Platform stats
// @Tags giveaways
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Router /api/stats [get]
func (h *GiveawayHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Delete a giveaway
// @Description Only the creator's IP may delete. Removes the giveaway with all participants and referrals.
// @Tags giveaways
// @Produce json
// @Param id path string true "Giveaway id"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /api/delete/{id} [delete]
func (h *GiveawayHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.ClientIP()); err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// visit serves the public referral link. It credits the referrer when
// the visit is new and always sends the visitor on to the channel; for
// an unknown or ended giveaway it renders an informational page instead.
func (h *GiveawayHandler) visit(c *gin.Context) {
	outcome, err := h.service.Visit(
		c.Request.Context(),
		c.Param("id"),
		c.Query("ref"),
		c.ClientIP(),
		fingerprint.FromRequest(c.Request),
	)
	if err != nil {
		// No channel URL to fall back to; this is the one hard failure.
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	switch outcome.Status {
	case service.VisitNotFound:
		var page bytes.Buffer
		_ = h.renderer.NotFound(&page)
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", page.Bytes())
	case service.VisitEnded:
		var page bytes.Buffer
		_ = h.renderer.Ended(&page, &web.EndedPage{
			Giveaway: outcome.Giveaway,
			Winner:   outcome.Winner,
		})
		c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
	default:
		c.Redirect(http.StatusFound, outcome.Giveaway.ChannelURL)
	}
}
