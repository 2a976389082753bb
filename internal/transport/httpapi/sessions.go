package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agendei/internal/client/appointments"
	"agendei/internal/domain"
	"agendei/internal/service/booking"
)

type bookingService interface {
	StartSession(ctx context.Context, in booking.StartInput) (*booking.Session, error)
	Session(id uuid.UUID) (*booking.Session, error)
	Confirm(ctx context.Context, id uuid.UUID) error
	EndSession(id uuid.UUID) error
}

// SessionsHandler exposes the booking dialog over JSON. One session per open
// dialog; every state transition is a POST against the session.
type SessionsHandler struct {
	svc bookingService
	log *slog.Logger
}

func NewSessionsHandler(svc bookingService, log *slog.Logger) *SessionsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SessionsHandler{
		svc: svc,
		log: log.With(slog.String("component", "httpapi.sessions")),
	}
}

type createSessionRequest struct {
	ServiceName string `json:"serviceName"`
	UserID      int64  `json:"userId"`
	TicketID    int64  `json:"ticketId"`
}

type selectProfessionalRequest struct {
	ProfessionalID int64 `json:"professionalId"`
}

type selectDateRequest struct {
	Day int `json:"day"`
}

type selectSlotRequest struct {
	Slot string `json:"slot"`
}

type scheduleResponse struct {
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Weekday    string `json:"weekday"`
	WeekdayKey string `json:"weekdayKey"`
}

type professionalResponse struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"name"`
	Profession         string             `json:"profession"`
	AppointmentSpacing string             `json:"appointmentSpacing"`
	Schedules          []scheduleResponse `json:"schedules"`
}

type calendarResponse struct {
	Month       int `json:"month"`
	Year        int `json:"year"`
	DaysInMonth int `json:"daysInMonth"`
}

type selectionResponse struct {
	ProfessionalID *int64 `json:"professionalId"`
	Date           string `json:"date,omitempty"`
	Slot           string `json:"slot,omitempty"`
}

type sessionResponse struct {
	ID             string                 `json:"id"`
	ServiceName    string                 `json:"serviceName"`
	Professionals  []professionalResponse `json:"professionals"`
	Calendar       calendarResponse       `json:"calendar"`
	Selection      selectionResponse      `json:"selection"`
	AvailableSlots []string               `json:"availableSlots"`
	CanConfirm     bool                   `json:"canConfirm"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.svc.StartSession(r.Context(), booking.StartInput{
		ServiceName: req.ServiceName,
		UserID:      req.UserID,
		TicketID:    req.TicketID,
	})
	if err != nil {
		h.mapError(w, r, "StartSession", err)
		return
	}

	h.log.Info("session started",
		slog.String("session_id", sess.ID.String()),
		slog.String("service_name", sess.ServiceName),
	)
	h.writeSession(w, http.StatusCreated, sess)
}

func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *SessionsHandler) SelectProfessional(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req selectProfessionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sess.SelectProfessional(req.ProfessionalID); err != nil {
		h.mapError(w, r, "SelectProfessional", err)
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *SessionsHandler) NavigatePrevious(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, booking.DirectionPrevious)
}

func (h *SessionsHandler) NavigateNext(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, booking.DirectionNext)
}

func (h *SessionsHandler) navigate(w http.ResponseWriter, r *http.Request, dir booking.Direction) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.NavigateMonth(dir); err != nil {
		h.mapError(w, r, "NavigateMonth", err)
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *SessionsHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req selectDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sess.SelectDate(req.Day); err != nil {
		h.mapError(w, r, "SelectDate", err)
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *SessionsHandler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req selectSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sess.SelectSlot(req.Slot); err != nil {
		h.mapError(w, r, "SelectSlot", err)
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *SessionsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Confirm(r.Context(), id); err != nil {
		h.mapError(w, r, "Confirm", err)
		return
	}

	sess, err := h.svc.Session(id)
	if err != nil {
		h.mapError(w, r, "Confirm", err)
		return
	}
	h.log.Info("appointment submitted", slog.String("session_id", id.String()))
	h.writeSession(w, http.StatusOK, sess)
}

func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.svc.EndSession(id); err != nil {
		h.mapError(w, r, "EndSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionsHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionsHandler) session(w http.ResponseWriter, r *http.Request) (*booking.Session, bool) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return nil, false
	}
	sess, err := h.svc.Session(id)
	if err != nil {
		h.mapError(w, r, "Session", err)
		return nil, false
	}
	return sess, true
}

func (h *SessionsHandler) mapError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := h.log.With(slog.String("op", op))

	var vErr *booking.ValidationError
	var remote *appointments.RemoteError
	switch {
	case errors.As(err, &vErr):
		h.writeError(w, r, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, booking.ErrSessionNotFound):
		h.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrUnknownProfessional),
		errors.Is(err, booking.ErrInvalidDay),
		errors.Is(err, booking.ErrStaleSlot),
		errors.Is(err, booking.ErrIncompleteSelection):
		h.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, booking.ErrSubmissionInFlight):
		log.Info("confirmation already in flight")
		h.writeError(w, r, http.StatusConflict, err.Error())
	case errors.As(err, &remote):
		log.Warn("booking service rejected appointment",
			slog.Int("remote_status", remote.StatusCode),
			slog.String("remote_message", remote.Message),
		)
		h.writeError(w, r, http.StatusBadGateway, remote.Error())
	case errors.Is(err, appointments.ErrUnavailable):
		log.Warn("booking service unreachable", slog.Any("err", err))
		h.writeError(w, r, http.StatusBadGateway, "could not reach the booking service; try again")
	default:
		log.Error("unexpected error", slog.Any("err", err))
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (h *SessionsHandler) writeError(w http.ResponseWriter, _ *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: msg})
}

func (h *SessionsHandler) writeSession(w http.ResponseWriter, status int, sess *booking.Session) {
	v := sess.View()

	out := sessionResponse{
		ID:          v.ID.String(),
		ServiceName: v.ServiceName,
		Professionals: func() []professionalResponse {
			ps := make([]professionalResponse, 0, len(v.Professionals))
			for _, p := range v.Professionals {
				ps = append(ps, toProfessionalResponse(p))
			}
			return ps
		}(),
		Calendar: calendarResponse{
			Month:       v.Cursor.Month,
			Year:        v.Cursor.Year,
			DaysInMonth: v.Cursor.DaysInMonth(),
		},
		Selection: selectionResponse{
			ProfessionalID: v.ProfessionalID,
			Date:           v.Date,
			Slot:           v.Slot,
		},
		AvailableSlots: v.Slots,
		CanConfirm:     v.CanConfirm,
	}
	if out.AvailableSlots == nil {
		out.AvailableSlots = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(out)
}

func toProfessionalResponse(p domain.Professional) professionalResponse {
	schedules := make([]scheduleResponse, 0, len(p.Schedules))
	for _, s := range p.Schedules {
		schedules = append(schedules, scheduleResponse{
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			Weekday:    s.Weekday,
			WeekdayKey: s.WeekdayKey,
		})
	}
	return professionalResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Profession:         p.Profession,
		AppointmentSpacing: p.AppointmentSpacing,
		Schedules:          schedules,
	}
}
