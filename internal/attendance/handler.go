package attendance

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// 打刻
	r.POST("/attendance/check-in", h.CheckIn)
	r.POST("/attendance/check-out", h.CheckOut)

	// 照会
	r.HEAD("/attendance", h.Exists)
	r.GET("/attendance", h.List)
	r.GET("/attendance/stats", h.Stats)
	r.GET("/attendance/export.csv", h.Export)
}

// ---------- handlers ----------

// POST /attendance/check-in
func (h *Handler) CheckIn(c *gin.Context) {
	var req ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorDTO{Error: ErrInvalid("invalid json or missing employee_id")})
		return
	}
	res, err := h.svc.ClockIn(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /attendance/check-out
func (h *Handler) CheckOut(c *gin.Context) {
	var req ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorDTO{Error: ErrInvalid("invalid json or missing employee_id")})
		return
	}
	res, err := h.svc.ClockOut(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

// HEAD /attendance?employee_id=&on=
// 200: 記録あり / 404: 記録なし（ボディなし）
func (h *Handler) Exists(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("employee_id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	ok, err := h.svc.Exists(c.Request.Context(), id, c.DefaultQuery("on", "today"))
	if err != nil {
		c.Status(toHTTPStatus(err))
		return
	}
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// GET /attendance
func (h *Handler) List(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}
	res, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /attendance/export.csv?charset=utf-8|windows-1252 （絞り込みは一覧と同じ）
func (h *Handler) Export(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}
	charset := c.DefaultQuery("charset", CharsetUTF8)
	body, err := h.svc.Export(c.Request.Context(), q, charset)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attendance.csv"`)
	c.Data(http.StatusOK, "text/csv; charset="+strings.ToLower(charset), body)
}

// bindListQuery reads the shared list/export filters; it writes the 400 itself.
func bindListQuery(c *gin.Context) (ListQuery, bool) {
	q := ListQuery{
		Limit:  parseIntDefault(c.Query("limit"), DefaultPageLimit),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Sort:   c.DefaultQuery("sort", DefaultSort),
	}
	if v := c.Query("employee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorDTO{Error: ErrInvalid("employee_id must be an integer")})
			return q, false
		}
		q.EmployeeID = &id
	}
	if v := c.Query("on"); v != "" {
		q.On = &v
	}
	if v := c.Query("from"); v != "" {
		q.From = &v
	}
	if v := c.Query("to"); v != "" {
		q.To = &v
	}
	if v := c.Query("status"); v != "" {
		st := Status(v)
		q.Status = &st
	}
	if v := c.Query("anomaly_only"); v == "true" || v == "1" {
		q.AnomalyOnly = true
	}
	return q, true
}

// GET /attendance/stats?from=&to=&status=&limit=
func (h *Handler) Stats(c *gin.Context) {
	req := StatsRequest{
		From:   c.Query("from"),
		To:     c.Query("to"),
		Status: Status(c.Query("status")),
		Limit:  parseIntDefault(c.Query("limit"), 10),
	}
	rows, err := h.svc.Stats(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	if rows == nil {
		rows = []StatsRow{}
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
