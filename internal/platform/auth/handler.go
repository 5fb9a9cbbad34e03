package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc AuthService }

// RegisterRoutes mounts /login on public and /register on admin.
func RegisterRoutes(public, admin gin.IRoutes, svc AuthService) {
	h := &AuthHandler{svc: svc}
	public.POST("/login", h.Login)
	admin.POST("/register", h.Register)
}

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		deny(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, ErrAuthFailed) {
			deny(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid id or password")
			return
		}
		deny(c, http.StatusInternalServerError, "INTERNAL", "login failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer"})
}

type RegisterRequest struct {
	ID       string  `json:"id" binding:"required"`
	Password string  `json:"password" binding:"required,min=8"`
	Role     *string `json:"role,omitempty"` // 未指定なら employee
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		deny(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body")
		return
	}

	role := RoleEmployee
	if req.Role != nil && *req.Role != "" {
		role = *req.Role
	}

	if err := h.svc.Register(c.Request.Context(), req.ID, req.Password, role); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			deny(c, http.StatusConflict, "CONFLICT", "id already exists")
		case errors.Is(err, ErrInvalidRole):
			deny(c, http.StatusBadRequest, "INVALID_ARGUMENT", "role must be admin, hr or employee")
		default:
			deny(c, http.StatusInternalServerError, "INTERNAL", "register failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": req.ID, "role": role})
}
