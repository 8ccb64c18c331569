package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type MessageController struct {
	messages *service.MessageService
}

func NewMessageController(messages *service.MessageService) *MessageController {
	return &MessageController{messages: messages}
}

func (h *MessageController) Create(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.MessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.messages.Create(c.Request.Context(), caller, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *MessageController) List(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	msgs, err := h.messages.List(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *MessageController) Reply(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MessageRequest
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.messages.Reply(c.Request.Context(), caller, id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (h *MessageController) MarkRead(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	msg, err := h.messages.MarkRead(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withMessage(msg, "message marked as read"))
}
