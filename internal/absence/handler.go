package absence

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct{ det *Detector }

func RegisterRoutes(r gin.IRoutes, det *Detector) {
	h := &Handler{det: det}
	// 手動実行（取りこぼし日の再処理用）
	r.POST("/absence-detection/run", h.Run)
}

// POST /absence-detection/run {"date": "YYYY-MM-DD"}（省略時は昨日）
type RunRequest struct {
	Date *string `json:"date,omitempty"`
}

func (h *Handler) Run(c *gin.Context) {
	var req RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorDTO{Error: ErrInvalid("invalid json")})
			return
		}
	}

	target := h.det.Yesterday()
	if req.Date != nil && *req.Date != "" {
		t, err := time.ParseInLocation(DateLayout, *req.Date, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorDTO{Error: ErrInvalid("date must be YYYY-MM-DD")})
			return
		}
		if err := h.det.CheckTarget(t); err != nil {
			c.JSON(toHTTPStatus(err), errorFromErr(err))
			return
		}
		target = t
	}

	sum, err := h.det.Run(c.Request.Context(), target)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, sum)
}
