package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/access"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
)

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		action  access.Action
		owner   bool
		allowed bool
	}{
		{"admin creates lab", models.RoleAdmin, access.ActionCreateLab, false, true},
		{"admin approves", models.RoleAdmin, access.ActionApproveReservation, false, true},
		{"admin rejects", models.RoleAdmin, access.ActionRejectReservation, false, true},
		{"admin cancels any reservation", models.RoleAdmin, access.ActionCancelReservation, false, true},
		{"admin cannot request reservation", models.RoleAdmin, access.ActionCreateReservation, false, false},

		{"instructor requests reservation", models.RoleInstructor, access.ActionCreateReservation, false, true},
		{"instructor cancels own", models.RoleInstructor, access.ActionCancelReservation, true, true},
		{"instructor cannot cancel others", models.RoleInstructor, access.ActionCancelReservation, false, false},
		{"instructor cannot approve", models.RoleInstructor, access.ActionApproveReservation, false, false},
		{"instructor cannot create lab", models.RoleInstructor, access.ActionCreateLab, false, false},

		{"student lists labs", models.RoleStudent, access.ActionListLabs, false, true},
		{"student views stats", models.RoleStudent, access.ActionViewStats, false, true},
		{"student cannot request reservation", models.RoleStudent, access.ActionCreateReservation, false, false},
		{"student cannot cancel even as owner", models.RoleStudent, access.ActionCancelReservation, true, false},

		{"unknown role denied", models.Role("ghost"), access.ActionListLabs, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, access.CanPerform(tt.role, tt.action, tt.owner))
		})
	}
}
