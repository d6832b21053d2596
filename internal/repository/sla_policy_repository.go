package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SLAPolicyRepository stores the time budgets per priority tier.
type SLAPolicyRepository interface {
	GetByPriority(ctx context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error)
	ListAll(ctx context.Context) ([]domain.SLAPolicy, error)
	Upsert(ctx context.Context, policy *domain.SLAPolicy) error
}

type slaPolicyRepository struct {
	pool *pgxpool.Pool
}

// NewSLAPolicyRepository builds repository.
func NewSLAPolicyRepository(pool *pgxpool.Pool) SLAPolicyRepository {
	return &slaPolicyRepository{pool: pool}
}

func (r *slaPolicyRepository) GetByPriority(ctx context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error) {
	const query = `
        SELECT priority, response_minutes, resolution_minutes, updated_at
        FROM sla_policies WHERE priority=$1`
	var policy domain.SLAPolicy
	if err := r.pool.QueryRow(ctx, query, priority).Scan(
		&policy.Priority,
		&policy.ResponseMinutes,
		&policy.ResolutionMinutes,
		&policy.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *slaPolicyRepository) ListAll(ctx context.Context) ([]domain.SLAPolicy, error) {
	const query = `
        SELECT priority, response_minutes, resolution_minutes, updated_at
        FROM sla_policies ORDER BY resolution_minutes ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAPolicy
	for rows.Next() {
		var policy domain.SLAPolicy
		if err := rows.Scan(
			&policy.Priority,
			&policy.ResponseMinutes,
			&policy.ResolutionMinutes,
			&policy.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, policy)
	}
	return result, rows.Err()
}

func (r *slaPolicyRepository) Upsert(ctx context.Context, policy *domain.SLAPolicy) error {
	const query = `
        INSERT INTO sla_policies (priority, response_minutes, resolution_minutes)
        VALUES ($1,$2,$3)
        ON CONFLICT (priority) DO UPDATE SET
            response_minutes=EXCLUDED.response_minutes,
            resolution_minutes=EXCLUDED.resolution_minutes,
            updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		policy.Priority,
		policy.ResponseMinutes,
		policy.ResolutionMinutes,
	).Scan(&policy.UpdatedAt)
}
