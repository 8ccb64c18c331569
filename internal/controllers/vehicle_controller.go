package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type VehicleController struct {
	vehicles *service.VehicleService
}

func NewVehicleController(vehicles *service.VehicleService) *VehicleController {
	return &VehicleController{vehicles: vehicles}
}

func (h *VehicleController) Create(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}
	vehicle, err := h.vehicles.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (h *VehicleController) List(c *gin.Context) {
	vehicles, err := h.vehicles.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	vehicle, err := h.vehicles.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}
	vehicle, err := h.vehicles.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.vehicles.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted successfully"})
}

// Telemetry accepts a position and sensor report from the vehicle.
func (h *VehicleController) Telemetry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TelemetryRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.vehicles.Telemetry(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Positions returns recorded history, newest first. ?limit= caps the count.
func (h *VehicleController) Positions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid limit: "+raw)
			return
		}
		limit = n
	}
	positions, err := h.vehicles.Positions(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, positions)
}
