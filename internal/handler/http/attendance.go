package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	GetMyStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeClockRequest(w, r)
	if !ok {
		return
	}

	event, err := h.attendanceService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", event)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeClockRequest(w, r)
	if !ok {
		return
	}

	event, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked out successfully", event)
}

// decodeClockRequest reads optional coordinates. An empty body is a punch
// without location.
func decodeClockRequest(w http.ResponseWriter, r *http.Request) (attendance.ClockRequest, bool) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return attendance.ClockRequest{}, false
	}

	var req attendance.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		slog.Error("Clock request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return attendance.ClockRequest{}, false
	}
	req.UserID = actor.UserID
	return req, true
}

// Import implements AttendanceHandler.
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	var req attendance.ImportEventsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Import decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Import(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Events imported", result)
}

// GetMyStatus implements AttendanceHandler. Without ?date= it reports today.
func (h *attendanceHandlerImpl) GetMyStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	status, err := h.attendanceService.GetDailyStatus(r.Context(), actor.UserID, r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}
