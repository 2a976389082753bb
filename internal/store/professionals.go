package store

import (
	"context"

	"agendei/internal/domain"
)

// ProfessionalDirectory is the upstream lookup that supplies the bookable
// professionals for a service. Implementations are read-only; an unknown
// service yields an empty roster, not an error.
type ProfessionalDirectory interface {
	ListByService(ctx context.Context, serviceName string) ([]domain.Professional, error)
}
