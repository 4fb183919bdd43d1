package access

import "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"

// Action is a capability checked before any mutation or privileged read.
type Action string

const (
	ActionCreateLab          Action = "lab.create"
	ActionListLabs           Action = "lab.list"
	ActionCreateReservation  Action = "reservation.create"
	ActionApproveReservation Action = "reservation.approve"
	ActionRejectReservation  Action = "reservation.reject"
	ActionCancelReservation  Action = "reservation.cancel"
	ActionViewReservations   Action = "reservation.view"
	ActionViewStats          Action = "stats.view"
)

// CanPerform is a pure policy function. ownership applies to
// ownership-sensitive actions (cancelling a reservation) and is ignored
// elsewhere. Both switches are exhaustive over the closed enums; an unknown
// role or action is denied.
func CanPerform(role models.Role, action Action, owner bool) bool {
	switch role {
	case models.RoleAdmin:
		switch action {
		case ActionCreateLab, ActionListLabs,
			ActionApproveReservation, ActionRejectReservation, ActionCancelReservation,
			ActionViewReservations, ActionViewStats:
			return true
		case ActionCreateReservation:
			// Reservations are requested by the teaching side only.
			return false
		}
	case models.RoleInstructor:
		switch action {
		case ActionListLabs, ActionCreateReservation, ActionViewReservations, ActionViewStats:
			return true
		case ActionCancelReservation:
			return owner
		case ActionCreateLab, ActionApproveReservation, ActionRejectReservation:
			return false
		}
	case models.RoleStudent:
		switch action {
		case ActionListLabs, ActionViewReservations, ActionViewStats:
			return true
		case ActionCreateLab, ActionCreateReservation,
			ActionApproveReservation, ActionRejectReservation, ActionCancelReservation:
			return false
		}
	}

	return false
}
