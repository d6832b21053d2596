package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EscalationRepository stores SLA threshold crossings.
type EscalationRepository interface {
	Create(ctx context.Context, escalation *domain.Escalation) error
	GetByID(ctx context.Context, id string) (*domain.Escalation, error)
	ExistsForTicketLevel(ctx context.Context, ticketID string, level domain.EscalationLevel) (bool, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Escalation, error)
	ListUnacknowledged(ctx context.Context, limit, offset int) ([]domain.Escalation, error)
	MarkAcknowledged(ctx context.Context, id, userID string) error
}

type escalationRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRepository builds repository.
func NewEscalationRepository(pool *pgxpool.Pool) EscalationRepository {
	return &escalationRepository{pool: pool}
}

const escalationColumns = `id, ticket_id, level, percentage_used, escalated_at,
               acknowledged, acknowledged_by, acknowledged_at`

func (r *escalationRepository) Create(ctx context.Context, escalation *domain.Escalation) error {
	const query = `
        INSERT INTO escalations (ticket_id, level, percentage_used)
        VALUES ($1,$2,$3)
        RETURNING id, escalated_at`
	return r.pool.QueryRow(ctx, query,
		escalation.TicketID,
		escalation.Level,
		escalation.PercentageUsed,
	).Scan(&escalation.ID, &escalation.EscalatedAt)
}

func (r *escalationRepository) GetByID(ctx context.Context, id string) (*domain.Escalation, error) {
	query := `SELECT ` + escalationColumns + ` FROM escalations WHERE id=$1`
	var esc domain.Escalation
	if err := scanEscalation(r.pool.QueryRow(ctx, query, id), &esc); err != nil {
		return nil, err
	}
	return &esc, nil
}

func (r *escalationRepository) ExistsForTicketLevel(ctx context.Context, ticketID string, level domain.EscalationLevel) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM escalations WHERE ticket_id=$1 AND level=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID, level).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *escalationRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Escalation, error) {
	query := `SELECT ` + escalationColumns + ` FROM escalations WHERE ticket_id=$1 ORDER BY escalated_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEscalations(rows)
}

func (r *escalationRepository) ListUnacknowledged(ctx context.Context, limit, offset int) ([]domain.Escalation, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + escalationColumns + ` FROM escalations
              WHERE acknowledged=FALSE ORDER BY escalated_at ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEscalations(rows)
}

func (r *escalationRepository) MarkAcknowledged(ctx context.Context, id, userID string) error {
	const query = `
        UPDATE escalations SET acknowledged=TRUE, acknowledged_by=$1, acknowledged_at=NOW()
        WHERE id=$2 AND acknowledged=FALSE`
	cmd, err := r.pool.Exec(ctx, query, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanEscalation(row pgx.Row, esc *domain.Escalation) error {
	return row.Scan(
		&esc.ID,
		&esc.TicketID,
		&esc.Level,
		&esc.PercentageUsed,
		&esc.EscalatedAt,
		&esc.Acknowledged,
		&esc.AcknowledgedBy,
		&esc.AcknowledgedAt,
	)
}

func scanEscalations(rows pgx.Rows) ([]domain.Escalation, error) {
	var result []domain.Escalation
	for rows.Next() {
		var esc domain.Escalation
		if err := scanEscalation(rows, &esc); err != nil {
			return nil, err
		}
		result = append(result, esc)
	}
	return result, rows.Err()
}
