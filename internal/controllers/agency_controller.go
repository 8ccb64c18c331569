package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type AgencyController struct {
	agencies *service.AgencyService
}

func NewAgencyController(agencies *service.AgencyService) *AgencyController {
	return &AgencyController{agencies: agencies}
}

func (h *AgencyController) Create(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.CreateAgencyRequest
	if !bindJSON(c, &req) {
		return
	}
	agency, err := h.agencies.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withMessage(agency, "agency created successfully"))
}

func (h *AgencyController) List(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	agencies, err := h.agencies.List(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, agencies)
}

func (h *AgencyController) Get(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	agency, err := h.agencies.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, agency)
}

// Update keeps the submitted key names so admins can be held to their
// field allow-list.
func (h *AgencyController) Update(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	var req dto.UpdateAgencyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	for k := range keys {
		req.Fields = append(req.Fields, k)
	}

	agency, err := h.agencies.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withMessage(agency, "agency updated successfully"))
}

func (h *AgencyController) Delete(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.agencies.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "agency deleted successfully"})
}
