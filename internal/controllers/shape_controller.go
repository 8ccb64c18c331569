package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type ShapeController struct {
	shapes *service.ShapeService
}

func NewShapeController(shapes *service.ShapeService) *ShapeController {
	return &ShapeController{shapes: shapes}
}

func (h *ShapeController) Create(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.CreateShapeRequest
	if !bindJSON(c, &req) {
		return
	}
	shape, err := h.shapes.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shape)
}

func (h *ShapeController) List(c *gin.Context) {
	shapes, err := h.shapes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shapes)
}

// Summary lists {id, shape_id} pairs only.
func (h *ShapeController) Summary(c *gin.Context) {
	summary, err := h.shapes.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ShapeController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shape, err := h.shapes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shape)
}

func (h *ShapeController) ByShapeID(c *gin.Context) {
	shape, err := h.shapes.ByShapeID(c.Request.Context(), c.Param("shapeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shape)
}

func (h *ShapeController) GeoJSON(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	feature, err := h.shapes.GeoJSON(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, feature)
}

func (h *ShapeController) Update(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateShapeRequest
	if !bindJSON(c, &req) {
		return
	}
	shape, err := h.shapes.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shape)
}

func (h *ShapeController) Delete(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.shapes.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "shape deleted successfully"})
}
