package domain

// AdminStats aggregates directory and ticket counts for the admin view.
type AdminStats struct {
	TotalTickets    int                  `json:"total_tickets"`
	OpenTickets     int                  `json:"open_tickets"`
	TotalUsers      int                  `json:"total_users"`
	TotalCategories int                  `json:"total_categories"`
	ByStatus        map[TicketStatus]int `json:"by_status"`
}
