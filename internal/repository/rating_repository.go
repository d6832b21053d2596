package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RatingRepository stores ticket satisfaction ratings.
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error)
	ExistsForTicket(ctx context.Context, ticketID string) (bool, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]domain.Rating, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository builds repository.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	const query = `
        INSERT INTO ratings (ticket_id, rating, comment, rated_by, resolution_hours)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		rating.TicketID,
		rating.Rating,
		rating.Comment,
		rating.RatedBy,
		rating.ResolutionHours,
	).Scan(&rating.ID, &rating.CreatedAt)
}

func (r *ratingRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error) {
	const query = `
        SELECT id, ticket_id, rating, comment, rated_by, resolution_hours, created_at
        FROM ratings WHERE ticket_id=$1`
	var rating domain.Rating
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&rating.ID,
		&rating.TicketID,
		&rating.Rating,
		&rating.Comment,
		&rating.RatedBy,
		&rating.ResolutionHours,
		&rating.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ExistsForTicket(ctx context.Context, ticketID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM ratings WHERE ticket_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ratingRepository) ListInRange(ctx context.Context, from, to time.Time) ([]domain.Rating, error) {
	const query = `
        SELECT id, ticket_id, rating, comment, rated_by, resolution_hours, created_at
        FROM ratings WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.TicketID,
			&rating.Rating,
			&rating.Comment,
			&rating.RatedBy,
			&rating.ResolutionHours,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rating)
	}
	return result, rows.Err()
}
