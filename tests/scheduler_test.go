package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/tests/suite"
)

// TestReservationFlow walks the full lifecycle over HTTP: an admin creates
// a lab, an instructor requests a slot, the admin approves it, a second
// overlapping request is refused, and the approved session shows up on the
// public schedule.
func TestReservationFlow(t *testing.T) {
	s := suite.New(t)

	adminToken := s.RegisterAndLogin("admin1", "admin")
	instructorToken := s.RegisterAndLogin("prof_cruz", "instructor")

	status, body := s.Do(http.MethodPost, "/api/labs", adminToken, map[string]any{
		"name":     "IT Lab 1",
		"location": "Main Building",
		"capacity": 40,
	})
	require.Equal(t, http.StatusCreated, status)
	labID := body["lab"].(map[string]any)["id"].(string)

	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	status, body = s.Do(http.MethodPost, "/api/reservations", instructorToken, map[string]any{
		"lab_id":        labID,
		"course_code":   "CS101",
		"course_name":   "Introduction to Computing",
		"section":       "A",
		"student_count": 35,
		"start_time":    start.Format(time.RFC3339),
		"end_time":      start.Add(2 * time.Hour).Format(time.RFC3339),
		"purpose":       "hands-on session",
	})
	require.Equal(t, http.StatusCreated, status)
	reservation := body["reservation"].(map[string]any)
	reservationID := reservation["id"].(string)
	assert.Equal(t, "pending", reservation["status"])
	assert.Equal(t, float64(120), reservation["duration_minutes"])

	// pending requests also block the slot
	status, body = s.Do(http.MethodPost, "/api/reservations", instructorToken, map[string]any{
		"lab_id":      labID,
		"course_code": "CS102",
		"course_name": "Programming 1",
		"section":     "B",
		"start_time":  start.Add(time.Hour).Format(time.RFC3339),
		"end_time":    start.Add(3 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, body["success"])

	status, body = s.Do(http.MethodPost, fmt.Sprintf("/api/reservations/%s/approve", reservationID), adminToken, map[string]any{
		"admin_notes": "approved for the semester",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", body["reservation"].(map[string]any)["status"])

	// the schedule is public, no token needed
	status, body = s.Do(http.MethodGet, "/api/schedule?date=2026-09-07", "", nil)
	require.Equal(t, http.StatusOK, status)
	schedule := body["schedule"].([]any)
	require.Len(t, schedule, 1)
	entry := schedule[0].(map[string]any)
	assert.Equal(t, "CS101", entry["course_code"])
	assert.Equal(t, "IT Lab 1", entry["lab_name"])
	assert.Equal(t, "Test User", entry["instructor_name"])
}

// TestRejectThenRebook verifies that a rejected request frees its slot.
func TestRejectThenRebook(t *testing.T) {
	s := suite.New(t)

	adminToken := s.RegisterAndLogin("admin2", "admin")
	instructorToken := s.RegisterAndLogin("prof_reyes", "instructor")

	status, body := s.Do(http.MethodPost, "/api/labs", adminToken, map[string]any{"name": "IT Lab 2"})
	require.Equal(t, http.StatusCreated, status)
	labID := body["lab"].(map[string]any)["id"].(string)

	start := time.Date(2026, 9, 8, 13, 0, 0, 0, time.UTC)
	request := map[string]any{
		"lab_id":      labID,
		"course_code": "IT205",
		"course_name": "Networking",
		"section":     "C",
		"start_time":  start.Format(time.RFC3339),
		"end_time":    start.Add(time.Hour).Format(time.RFC3339),
	}

	status, body = s.Do(http.MethodPost, "/api/reservations", instructorToken, request)
	require.Equal(t, http.StatusCreated, status)
	firstID := body["reservation"].(map[string]any)["id"].(string)

	// rejection without a reason is refused
	status, _ = s.Do(http.MethodPost, fmt.Sprintf("/api/reservations/%s/reject", firstID), adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.Do(http.MethodPost, fmt.Sprintf("/api/reservations/%s/reject", firstID), adminToken, map[string]any{
		"rejection_reason": "room under maintenance",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "rejected", body["reservation"].(map[string]any)["status"])

	// same slot can be requested again
	status, _ = s.Do(http.MethodPost, "/api/reservations", instructorToken, request)
	assert.Equal(t, http.StatusCreated, status)
}

func TestAccessControl(t *testing.T) {
	s := suite.New(t)

	adminToken := s.RegisterAndLogin("admin3", "admin")
	instructorToken := s.RegisterAndLogin("prof_diaz", "instructor")
	studentToken := s.RegisterAndLogin("student1", "student")

	status, body := s.Do(http.MethodPost, "/api/labs", adminToken, map[string]any{"name": "IT Lab 3"})
	require.Equal(t, http.StatusCreated, status)
	labID := body["lab"].(map[string]any)["id"].(string)

	start := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)
	request := map[string]any{
		"lab_id":      labID,
		"course_code": "CS101",
		"course_name": "Introduction to Computing",
		"section":     "A",
		"start_time":  start.Format(time.RFC3339),
		"end_time":    start.Add(time.Hour).Format(time.RFC3339),
	}

	// students cannot request reservations
	status, _ = s.Do(http.MethodPost, "/api/reservations", studentToken, request)
	assert.Equal(t, http.StatusForbidden, status)

	// instructors cannot create labs
	status, _ = s.Do(http.MethodPost, "/api/labs", instructorToken, map[string]any{"name": "Rogue Lab"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.Do(http.MethodPost, "/api/reservations", instructorToken, request)
	require.Equal(t, http.StatusCreated, status)
	reservationID := body["reservation"].(map[string]any)["id"].(string)

	// instructors cannot approve, not even their own request
	status, _ = s.Do(http.MethodPost, fmt.Sprintf("/api/reservations/%s/approve", reservationID), instructorToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// unauthenticated requests are rejected
	status, _ = s.Do(http.MethodGet, "/api/reservations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestStudentVisibility(t *testing.T) {
	s := suite.New(t)

	adminToken := s.RegisterAndLogin("admin4", "admin")
	instructorToken := s.RegisterAndLogin("prof_lim", "instructor")
	studentToken := s.RegisterAndLogin("student2", "student")

	status, body := s.Do(http.MethodPost, "/api/labs", adminToken, map[string]any{"name": "IT Lab 4"})
	require.Equal(t, http.StatusCreated, status)
	labID := body["lab"].(map[string]any)["id"].(string)

	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	for i, section := range []string{"A", "B"} {
		slot := start.Add(time.Duration(i*2) * time.Hour)
		status, body = s.Do(http.MethodPost, "/api/reservations", instructorToken, map[string]any{
			"lab_id":      labID,
			"course_code": "CS101",
			"course_name": "Introduction to Computing",
			"section":     section,
			"start_time":  slot.Format(time.RFC3339),
			"end_time":    slot.Add(time.Hour).Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, status)

		// only the first one gets approved
		if i == 0 {
			id := body["reservation"].(map[string]any)["id"].(string)
			status, _ = s.Do(http.MethodPost, fmt.Sprintf("/api/reservations/%s/approve", id), adminToken, nil)
			require.Equal(t, http.StatusOK, status)
		}
	}

	// students see approved reservations only
	status, body = s.Do(http.MethodGet, "/api/reservations", studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	visible := body["reservations"].([]any)
	require.Len(t, visible, 1)
	assert.Equal(t, "approved", visible[0].(map[string]any)["status"])

	// the instructor sees both of their requests
	status, body = s.Do(http.MethodGet, "/api/reservations", instructorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["reservations"].([]any), 2)
}

func TestTaskCRUDOverHTTP(t *testing.T) {
	s := suite.New(t)

	token := s.RegisterAndLogin("prof_tan", "instructor")

	status, body := s.Do(http.MethodPost, "/api/tasks", token, map[string]any{
		"title":    "prepare lab manual",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, status)
	taskID := body["task"].(map[string]any)["id"].(string)

	status, body = s.Do(http.MethodPut, "/api/tasks/"+taskID, token, map[string]any{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, status)
	task := body["task"].(map[string]any)
	assert.Equal(t, "completed", task["status"])
	assert.NotNil(t, task["completed_at"])

	status, body = s.Do(http.MethodGet, "/api/tasks/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_tasks"])
	assert.Equal(t, float64(1), stats["completed_tasks"])

	status, _ = s.Do(http.MethodDelete, "/api/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.Do(http.MethodGet, "/api/tasks/"+taskID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatsEndpoint(t *testing.T) {
	s := suite.New(t)

	adminToken := s.RegisterAndLogin("admin5", "admin")

	status, _ := s.Do(http.MethodPost, "/api/labs", adminToken, map[string]any{"name": "IT Lab 5"})
	require.Equal(t, http.StatusCreated, status)

	status, body := s.Do(http.MethodGet, "/api/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_labs"])
	assert.Equal(t, float64(0), stats["pending_requests"])
}

func TestHealth(t *testing.T) {
	s := suite.New(t)

	status, body := s.Do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}
