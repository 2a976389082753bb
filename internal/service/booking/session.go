package booking

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"agendei/internal/client/appointments"
	"agendei/internal/domain"
)

// Direction is a calendar month navigation direction.
type Direction string

const (
	DirectionPrevious Direction = "previous"
	DirectionNext     Direction = "next"
)

// CalendarCursor is the month the calendar is showing. Month is zero-based
// (0 = January), matching the calendar grid it drives. The cursor is
// navigation state only; it is independent of the selection.
type CalendarCursor struct {
	Month int
	Year  int
}

func (c CalendarCursor) previous() CalendarCursor {
	if c.Month == 0 {
		return CalendarCursor{Month: 11, Year: c.Year - 1}
	}
	return CalendarCursor{Month: c.Month - 1, Year: c.Year}
}

func (c CalendarCursor) next() CalendarCursor {
	if c.Month == 11 {
		return CalendarCursor{Month: 0, Year: c.Year + 1}
	}
	return CalendarCursor{Month: c.Month + 1, Year: c.Year}
}

// DaysInMonth exploits time.Date normalization: day zero of the following
// month is the last day of this one.
func (c CalendarCursor) DaysInMonth() int {
	return time.Date(c.Year, time.Month(c.Month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Selection is the in-progress (professional, date, slot) triple. Date and
// Slot are only meaningful while Professional is set.
type Selection struct {
	Professional *domain.Professional
	Date         time.Time // civil date at UTC midnight; zero means none
	Slot         string    // "" means none
}

// Session holds one booking dialog's state: the roster it was opened with,
// the calendar cursor, the selection, and the slot list derived from
// (professional, date). All transitions go through the session mutex; a
// pending confirmation blocks every other mutation.
type Session struct {
	ID          uuid.UUID
	ServiceName string
	UserID      int64
	TicketID    int64

	mu            sync.Mutex
	professionals []domain.Professional
	cursor        CalendarCursor
	selection     Selection
	slots         []string
	submitting    bool
}

func newSession(serviceName string, userID, ticketID int64, roster []domain.Professional, now time.Time) *Session {
	return &Session{
		ID:            uuid.New(),
		ServiceName:   serviceName,
		UserID:        userID,
		TicketID:      ticketID,
		professionals: roster,
		cursor: CalendarCursor{
			Month: int(now.Month()) - 1,
			Year:  now.Year(),
		},
	}
}

// SelectProfessional picks a professional from the session roster and
// collapses any later selection state: date, slot and the derived slot list
// are cleared so nothing stale survives the change.
func (s *Session) SelectProfessional(professionalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInFlight
	}

	for i := range s.professionals {
		if s.professionals[i].ID == professionalID {
			s.selection = Selection{Professional: &s.professionals[i]}
			s.slots = nil
			return nil
		}
	}
	return ErrUnknownProfessional
}

func (s *Session) NavigateMonth(dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInFlight
	}

	switch dir {
	case DirectionPrevious:
		s.cursor = s.cursor.previous()
	case DirectionNext:
		s.cursor = s.cursor.next()
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}
	return nil
}

// SelectDate picks a day of the cursor's month, clears the slot, and
// recomputes the slot list when a professional is chosen. The list is always
// replaced wholesale, never patched.
func (s *Session) SelectDate(day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInFlight
	}

	if day < 1 || day > s.cursor.DaysInMonth() {
		return ErrInvalidDay
	}

	s.selection.Date = time.Date(s.cursor.Year, time.Month(s.cursor.Month+1), day, 0, 0, 0, 0, time.UTC)
	s.selection.Slot = ""
	if s.selection.Professional != nil {
		s.slots = domain.ComputeSlots(*s.selection.Professional, s.selection.Date)
	} else {
		s.slots = nil
	}
	return nil
}

// SelectSlot accepts only a member of the current slot list, so a slot
// computed against an earlier (professional, date) pair can never be chosen.
func (s *Session) SelectSlot(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInFlight
	}

	for _, candidate := range s.slots {
		if candidate == slot {
			s.selection.Slot = slot
			return nil
		}
	}
	return ErrStaleSlot
}

func (s *Session) CanConfirm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canConfirmLocked()
}

func (s *Session) canConfirmLocked() bool {
	return s.selection.Professional != nil && !s.selection.Date.IsZero() && s.selection.Slot != ""
}

// Cancel dismisses the dialog: selection and derived slots reset to empty,
// cursor untouched.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInFlight
	}
	s.resetSelectionLocked()
	return nil
}

func (s *Session) resetSelectionLocked() {
	s.selection = Selection{}
	s.slots = nil
}

// buildCommand serializes the selection into the outbound create-appointment
// command. The chosen slot is combined with the date and a literal "Z"
// marker, so the locally-displayed time is reinterpreted as UTC; this matches
// the remote contract as observed and is deliberately not configurable.
func (s *Session) buildCommand() (appointments.CreateAppointmentCommand, error) {
	raw := fmt.Sprintf("%sT%s:00Z", s.selection.Date.Format("2006-01-02"), s.selection.Slot)
	instant, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return appointments.CreateAppointmentCommand{}, fmt.Errorf("scheduled instant %q: %w", raw, err)
	}
	return appointments.CreateAppointmentCommand{
		ScheduledDate: instant.UTC().Format(time.RFC3339),
		Description:   "Appointment with " + strings.TrimSpace(s.selection.Professional.Name),
		Status:        "pending",
		UserID:        s.UserID,
		TicketID:      s.TicketID,
	}, nil
}

// SessionView is an immutable snapshot for transports.
type SessionView struct {
	ID             uuid.UUID
	ServiceName    string
	Professionals  []domain.Professional
	Cursor         CalendarCursor
	ProfessionalID *int64
	Date           string // "2006-01-02", empty when unset
	Slot           string
	Slots          []string
	CanConfirm     bool
	Submitting     bool
}

func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		ID:            s.ID,
		ServiceName:   s.ServiceName,
		Professionals: s.professionals,
		Cursor:        s.cursor,
		Slot:          s.selection.Slot,
		Slots:         append([]string(nil), s.slots...),
		CanConfirm:    s.canConfirmLocked(),
		Submitting:    s.submitting,
	}
	if s.selection.Professional != nil {
		id := s.selection.Professional.ID
		v.ProfessionalID = &id
	}
	if !s.selection.Date.IsZero() {
		v.Date = s.selection.Date.Format("2006-01-02")
	}
	return v
}
