package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_ops/internal/dto"
	"transit_ops/internal/service"
)

type AuthController struct {
	auth *service.AuthService
}

func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Session exchanges email and password for an access token.
func (h *AuthController) Session(c *gin.Context) {
	var req dto.SessionRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.auth.Session(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
