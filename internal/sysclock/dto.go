package sysclock

// PUT /system-clock
type UpdateClockRequest struct {
	Enabled        *bool   `json:"enabled" binding:"required"`
	CustomDatetime *string `json:"customDatetime"` // "YYYY-MM-DDTHH:MM" (UTC wall clock) or RFC 3339
}

type ClockResponse struct {
	Enabled           bool    `json:"enabled"`
	CustomDatetime    *string `json:"customDatetime"`
	ServerRefDatetime *string `json:"serverRefDatetime"`
	CurrentServerTime string  `json:"currentServerTime"`
	CurrentSystemTime *string `json:"currentSystemTime,omitempty"`
	OffsetMinutes     *int64  `json:"offsetMinutes,omitempty"`
	UpdatedAt         *string `json:"updatedAt"`
	UpdatedBy         *string `json:"updatedBy"`
}
