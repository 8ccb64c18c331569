package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type StopController struct {
	stops *service.StopService
}

func NewStopController(stops *service.StopService) *StopController {
	return &StopController{stops: stops}
}

func (h *StopController) Create(c *gin.Context) {
	var req dto.CreateStopRequest
	if !bindJSON(c, &req) {
		return
	}
	stop, err := h.stops.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stop)
}

func (h *StopController) List(c *gin.Context) {
	stops, err := h.stops.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stops)
}

func (h *StopController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stop, err := h.stops.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stop)
}

func (h *StopController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStopRequest
	if !bindJSON(c, &req) {
		return
	}
	stop, err := h.stops.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stop)
}

func (h *StopController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.stops.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stop deleted successfully"})
}
