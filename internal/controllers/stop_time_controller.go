package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type StopTimeController struct {
	stopTimes *service.StopTimeService
}

func NewStopTimeController(stopTimes *service.StopTimeService) *StopTimeController {
	return &StopTimeController{stopTimes: stopTimes}
}

func (h *StopTimeController) Create(c *gin.Context) {
	var req dto.CreateStopTimeRequest
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.stopTimes.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *StopTimeController) List(c *gin.Context) {
	items, err := h.stopTimes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *StopTimeController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	st, err := h.stopTimes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ByTrip lists a trip's stop times in stop_sequence order.
func (h *StopTimeController) ByTrip(c *gin.Context) {
	tripID, ok := parseID(c, "tripId")
	if !ok {
		return
	}
	items, err := h.stopTimes.ByTrip(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *StopTimeController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStopTimeRequest
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.stopTimes.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *StopTimeController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.stopTimes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stop time deleted successfully"})
}
