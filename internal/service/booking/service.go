package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"agendei/internal/client/appointments"
	"agendei/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Submitter is the outbound booking collaborator. It is the only external
// call the controller makes; everything else is synchronous state.
type Submitter interface {
	Create(ctx context.Context, cmd appointments.CreateAppointmentCommand) error
}

// Service owns the live booking sessions. Each session is an independent
// state machine; the service adds the roster lookup on entry and the
// submission boundary on confirm.
type Service struct {
	dir       store.ProfessionalDirectory
	submitter Submitter
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewService(dir store.ProfessionalDirectory, submitter Submitter) *Service {
	return &Service{
		dir:       dir,
		submitter: submitter,
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

type StartInput struct {
	ServiceName string
	UserID      int64
	TicketID    int64
}

// StartSession opens a booking dialog: the roster for the service is fetched
// once and the calendar cursor starts at the current month.
func (s *Service) StartSession(ctx context.Context, in StartInput) (*Session, error) {
	name := strings.TrimSpace(in.ServiceName)
	if name == "" {
		return nil, validationError("service_name is required")
	}

	roster, err := s.dir.ListByService(ctx, name)
	if err != nil {
		return nil, err
	}

	sess := newSession(name, in.UserID, in.TicketID, roster, s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *Service) Session(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Confirm submits the session's selection to the booking collaborator. On
// success the selection resets (the dialog closes); on failure it is left
// untouched so the user can retry without re-selecting.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) error {
	sess, err := s.Session(id)
	if err != nil {
		return err
	}
	return sess.confirm(ctx, s.submitter)
}

// EndSession cancels the dialog and drops the session. A session with a
// confirmation in flight cannot be ended.
func (s *Service) EndSession(id uuid.UUID) error {
	sess, err := s.Session(id)
	if err != nil {
		return err
	}
	if err := sess.Cancel(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *Session) confirm(ctx context.Context, submitter Submitter) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if !s.canConfirmLocked() {
		s.mu.Unlock()
		return ErrIncompleteSelection
	}
	cmd, err := s.buildCommand()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	// Guard against double submission: the flag blocks every other
	// transition until the remote call resolves.
	s.submitting = true
	s.mu.Unlock()

	err = submitter.Create(ctx, cmd)

	s.mu.Lock()
	s.submitting = false
	if err == nil {
		s.resetSelectionLocked()
	}
	s.mu.Unlock()
	return err
}
