package workcalendar

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct{ feed *Feed }

func RegisterRoutes(r gin.IRoutes, feed *Feed) {
	h := &Handler{feed: feed}
	// カレンダーアプリ購読用（認証なし）
	r.GET("/calendar/days-off.ics", h.DaysOff)
}

// GET /calendar/days-off.ics?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) DaysOff(c *gin.Context) {
	from, to := h.feed.DefaultRange()
	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation(DateLayout, v, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorDTO{Error: ErrInvalid("from must be YYYY-MM-DD")})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation(DateLayout, v, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorDTO{Error: ErrInvalid("to must be YYYY-MM-DD")})
			return
		}
		to = t
	}

	body, err := h.feed.DaysOffICS(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.Header("Content-Disposition", `inline; filename="days-off.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}
