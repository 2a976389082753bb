package postgres

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"agendei/internal/domain"
)

type ProfessionalsRepo struct {
	db *bun.DB
}

func NewProfessionalsRepo(db *bun.DB) *ProfessionalsRepo {
	return &ProfessionalsRepo{db: db}
}

// ListByService returns the roster for a service with schedules loaded, in
// the upstream directory's order. Schedule order within a professional is
// preserved so that first-match weekday lookup stays deterministic.
func (r *ProfessionalsRepo) ListByService(ctx context.Context, serviceName string) ([]domain.Professional, error) {
	var rows []domain.Professional
	err := r.db.NewSelect().
		Model(&rows).
		Where("lower(service_name) = ?", strings.ToLower(strings.TrimSpace(serviceName))).
		Relation("Schedules", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("id ASC")
		}).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
