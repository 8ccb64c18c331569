package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type PermissionController struct {
	permissions *service.PermissionService
}

func NewPermissionController(permissions *service.PermissionService) *PermissionController {
	return &PermissionController{permissions: permissions}
}

func (h *PermissionController) AssignAgency(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.AgencyAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.permissions.AssignAgency(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "agency assigned to admin", "user": user})
}

func (h *PermissionController) UnassignAgency(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.AgencyAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.permissions.UnassignAgency(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "agency unassigned from admin", "user": user})
}

func (h *PermissionController) AssignRouteAgency(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.RouteAgencyRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.permissions.AssignRouteAgency(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withMessage(res, "route assigned to agency"))
}

func (h *PermissionController) UnassignRouteAgency(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.RouteAgencyRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.permissions.UnassignRouteAgency(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withMessage(res, "route unassigned from agency"))
}

func (h *PermissionController) AssignTripRoute(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.TripRouteRequest
	if !bindJSON(c, &req) {
		return
	}
	trip, err := h.permissions.AssignTripRoute(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip assigned to route", "trip": trip})
}

func (h *PermissionController) UnassignTripRoute(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.TripRouteRequest
	if !bindJSON(c, &req) {
		return
	}
	trip, err := h.permissions.UnassignTripRoute(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip unassigned from route", "trip": trip})
}
