package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	articleDto "pressroom/internal/modules/article/dto"
	moderation "pressroom/internal/modules/moderation/service"
	"pressroom/pkg/response"
	"pressroom/pkg/validator"
)

type ModerationHandler struct {
	service moderation.ModerationService
}

func NewModerationHandler(service moderation.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

func (h *ModerationHandler) Queue(c *gin.Context) {
	actorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	articles, err := h.service.Queue(c.Request.Context(), actorID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

func (h *ModerationHandler) Approve(c *gin.Context) {
	actorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	if err := h.service.Approve(c.Request.Context(), actorID, articleID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article published"})
}

func (h *ModerationHandler) Unpublish(c *gin.Context) {
	var input articleDto.UnpublishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	actorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(input.ArticleIDs))
	for _, raw := range input.ArticleIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id: " + raw})
			return
		}
		ids = append(ids, id)
	}

	count, err := h.service.Unpublish(c.Request.Context(), actorID, ids)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, articleDto.UnpublishResponse{Unpublished: count})
}
