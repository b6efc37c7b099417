package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HughSean/MiniProgram-Backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthSvc
}

func NewAuthHandler(svc *service.AuthSvc) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Password string `json:"pwd" binding:"required"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(c.Request.Context(), in.Name, in.Password, in.Phone, in.Role)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "registered", gin.H{"user_id": u.ID, "name": u.Name, "role": u.Role})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Password string `json:"pwd" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, access, refresh, err := h.svc.Login(c.Request.Context(), in.Name, in.Password)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "login succeeded", gin.H{
		"user_id":       u.ID,
		"name":          u.Name,
		"role":          u.Role,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// POST /refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var in struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	access, err := h.svc.Refresh(c.Request.Context(), in.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "token refreshed", gin.H{"access_token": access})
}
