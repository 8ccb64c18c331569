package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type AssignmentController struct {
	assignments *service.AssignmentService
}

func NewAssignmentController(assignments *service.AssignmentService) *AssignmentController {
	return &AssignmentController{assignments: assignments}
}

func (h *AssignmentController) Create(c *gin.Context) {
	var req dto.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "vehicle assignment created", "assignment": a})
}

func (h *AssignmentController) List(c *gin.Context) {
	items, err := h.assignments.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *AssignmentController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.assignments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AssignmentController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.assignments.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle assignment updated", "assignment": a})
}

func (h *AssignmentController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.assignments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle assignment deleted"})
}
