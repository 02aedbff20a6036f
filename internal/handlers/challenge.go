package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skrblv/bilimGO/internal/requestdata"
	"github.com/skrblv/bilimGO/internal/services"
	"github.com/skrblv/bilimGO/internal/types"
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
}

func NewChallengeHandler(challengeService services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (chh *ChallengeHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	challenges, err := chh.challengeService.ListMine(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, challenges)
}

func (chh *ChallengeHandler) Send(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	var req struct {
		ReceiverID uuid.UUID `json:"receiver_id"`
		LessonID   uuid.UUID `json:"lesson_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid request body"))
		return
	}
	challenge, err := chh.challengeService.Send(c.Request.Context(), rd.UserID, req.ReceiverID, req.LessonID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

func (chh *ChallengeHandler) Accept(c *gin.Context) {
	chh.respond(c, chh.challengeService.Accept)
}

func (chh *ChallengeHandler) Decline(c *gin.Context) {
	chh.respond(c, chh.challengeService.Decline)
}

func (chh *ChallengeHandler) respond(c *gin.Context, action func(ctx context.Context, userID, challengeID uuid.UUID) (*types.Challenge, error)) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid challenge id"))
		return
	}
	challenge, err := action(c.Request.Context(), rd.UserID, challengeID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, challenge)
}

func (chh *ChallengeHandler) SubmitResult(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid challenge id"))
		return
	}
	var req struct {
		TimeTaken *int `json:"time_taken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TimeTaken == nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("time_taken is required"))
		return
	}
	challenge, err := chh.challengeService.SubmitResult(c.Request.Context(), rd.UserID, challengeID, *req.TimeTaken)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, challenge)
}
