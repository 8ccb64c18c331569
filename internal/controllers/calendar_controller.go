package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type CalendarController struct {
	calendars *service.CalendarService
}

func NewCalendarController(calendars *service.CalendarService) *CalendarController {
	return &CalendarController{calendars: calendars}
}

func (h *CalendarController) Create(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.CreateCalendarRequest
	if !bindJSON(c, &req) {
		return
	}
	cal, err := h.calendars.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cal)
}

func (h *CalendarController) List(c *gin.Context) {
	cals, err := h.calendars.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cals)
}

func (h *CalendarController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cal, err := h.calendars.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

func (h *CalendarController) Update(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCalendarRequest
	if !bindJSON(c, &req) {
		return
	}
	cal, err := h.calendars.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

func (h *CalendarController) Delete(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.calendars.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "calendar deleted successfully"})
}
