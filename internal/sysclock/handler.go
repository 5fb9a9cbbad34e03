package sysclock

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"SiteIntern-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the read endpoint on read and the write endpoints on
// write (callers pass router groups carrying their own auth middleware).
func RegisterRoutes(read, write gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	read.GET("/system-clock", h.Get)
	write.PUT("/system-clock", h.Update)
	write.POST("/system-clock/reset", h.Reset)
}

// GET /system-clock
func (h *Handler) Get(c *gin.Context) {
	v, err := h.svc.GetConfiguration(c.Request.Context())
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, v.toDTO())
}

// PUT /system-clock
func (h *Handler) Update(c *gin.Context) {
	var req UpdateClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorDTO{Error: ErrInvalid("invalid json or missing enabled")})
		return
	}
	v, err := h.svc.SetConfiguration(c.Request.Context(), *req.Enabled, req.CustomDatetime, auth.UserID(c))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, v.toDTO())
}

// POST /system-clock/reset
func (h *Handler) Reset(c *gin.Context) {
	v, err := h.svc.Reset(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, v.toDTO())
}
