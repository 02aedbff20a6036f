package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skrblv/bilimGO/internal/requestdata"
	"github.com/skrblv/bilimGO/internal/services"
)

type FriendshipHandler struct {
	friendshipService services.FriendshipService
}

func NewFriendshipHandler(friendshipService services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

func (fh *FriendshipHandler) Requests(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	requests, err := fh.friendshipService.Requests(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, requests)
}

func (fh *FriendshipHandler) ListFriends(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	friends, err := fh.friendshipService.ListFriends(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, friends)
}

func (fh *FriendshipHandler) SendRequest(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid request body"))
		return
	}
	friendship, err := fh.friendshipService.SendRequest(c.Request.Context(), rd.UserID, req.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, friendship)
}

func (fh *FriendshipHandler) Accept(c *gin.Context) {
	fh.answer(c, fh.friendshipService.Accept)
}

func (fh *FriendshipHandler) Decline(c *gin.Context) {
	fh.answer(c, fh.friendshipService.Decline)
}

func (fh *FriendshipHandler) answer(c *gin.Context, action func(ctx context.Context, userID, friendshipID uuid.UUID) error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	friendshipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid request id"))
		return
	}
	if err := action(c.Request.Context(), rd.UserID, friendshipID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (fh *FriendshipHandler) Remove(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	friendID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid user id"))
		return
	}
	if err := fh.friendshipService.Remove(c.Request.Context(), rd.UserID, friendID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
