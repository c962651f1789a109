package request

import "time"

// ListTicketsRequest is the ticket history query string
type ListTicketsRequest struct {
	Page      int        `form:"page"`
	PerPage   int        `form:"per_page"`
	POSID     string     `form:"pos_id"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}
