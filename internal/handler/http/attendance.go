package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	TakeBreak(w http.ResponseWriter, r *http.Request)
	Resume(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
	AutoClose(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

type transitionFunc func(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error)

// transition runs a session operation for the caller and writes the record.
func transition(w http.ResponseWriter, r *http.Request, message string, fn transitionFunc) {
	employeeID, ok := middleware.ActorID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrMissingActor)
		return
	}

	result, err := fn(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.ActorID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrMissingActor)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// TakeBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) TakeBreak(w http.ResponseWriter, r *http.Request) {
	transition(w, r, "Break started", h.attendanceService.TakeBreak)
}

// Resume implements AttendanceHandler.
func (h *attendanceHandlerImpl) Resume(w http.ResponseWriter, r *http.Request) {
	transition(w, r, "Break ended", h.attendanceService.Resume)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	transition(w, r, "Check out successful", h.attendanceService.CheckOut)
}

// GetToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.ActorID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrMissingActor)
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseFilter(r *http.Request) attendance.AttendanceFilter {
	query := r.URL.Query()
	return attendance.AttendanceFilter{
		EmployeeID: query.Get("employee_id"),
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrMissingActor)
		return
	}

	records, err := h.attendanceService.ListAttendance(r.Context(), actorID, parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrMissingActor)
		return
	}

	summary, err := h.attendanceService.GetAttendanceSummary(r.Context(), actorID, parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// Reconcile implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	day, ok := validator.IsValidDate(r.URL.Query().Get("date"))
	if !ok {
		response.BadRequest(w, "Query parameter 'date' must be in YYYY-MM-DD format", nil)
		return
	}

	marked, err := h.attendanceService.ReconcileAbsences(r.Context(), day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absences reconciled", map[string]int{"marked": marked})
}

// AutoClose implements AttendanceHandler.
func (h *attendanceHandlerImpl) AutoClose(w http.ResponseWriter, r *http.Request) {
	closed, err := h.attendanceService.AutoCloseStale(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Stale sessions closed", map[string]int{"closed": closed})
}
