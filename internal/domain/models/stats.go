package models

// Dashboard statistics. Every count is an exact predicate-filtered
// cardinality, no approximation.

type AdminStats struct {
	TotalLabs            int `json:"total_labs"`
	TotalReservations    int `json:"total_reservations"`
	PendingRequests      int `json:"pending_requests"`
	ApprovedReservations int `json:"approved_reservations"`
}

type InstructorStats struct {
	MyReservations   int `json:"my_reservations"`
	UpcomingSessions int `json:"upcoming_sessions"`
	PendingRequests  int `json:"pending_requests"`
}

type StudentStats struct {
	AvailableLabs     int `json:"available_labs"`
	ScheduledSessions int `json:"scheduled_sessions"`
}
