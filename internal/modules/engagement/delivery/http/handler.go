package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	engagementDto "pressroom/internal/modules/engagement/dto"
	engagement "pressroom/internal/modules/engagement/service"
	"pressroom/internal/entity"
	"pressroom/pkg/response"
	"pressroom/pkg/validator"
)

type EngagementHandler struct {
	service engagement.EngagementService
}

func NewEngagementHandler(service engagement.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

func (h *EngagementHandler) Like(c *gin.Context) {
	h.vote(c, entity.VoteLike)
}

func (h *EngagementHandler) Dislike(c *gin.Context) {
	h.vote(c, entity.VoteDislike)
}

func (h *EngagementHandler) vote(c *gin.Context, direction int) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	summary, err := h.service.CastVote(c.Request.Context(), userID, articleID, direction)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *EngagementHandler) Rate(c *gin.Context) {
	var req engagementDto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	rating, err := h.service.Rate(c.Request.Context(), userID, articleID, req.Stars)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *EngagementHandler) ToggleBookmark(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	resp, err := h.service.ToggleBookmark(c.Request.Context(), userID, articleID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EngagementHandler) GetSummary(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), articleID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
