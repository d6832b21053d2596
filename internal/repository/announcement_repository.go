package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AnnouncementRepository stores broadcast banners.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *domain.Announcement) error
	Update(ctx context.Context, announcement *domain.Announcement) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Announcement, error)
	ListActiveAt(ctx context.Context, now time.Time) ([]domain.Announcement, error)
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository builds repository.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

const announcementColumns = `id, title, body, type, start_at, end_at, is_active,
               created_by, created_at, updated_at`

func (r *announcementRepository) Create(ctx context.Context, announcement *domain.Announcement) error {
	const query = `
        INSERT INTO announcements (title, body, type, start_at, end_at, is_active, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		announcement.Title,
		announcement.Body,
		announcement.Type,
		announcement.StartAt,
		announcement.EndAt,
		announcement.IsActive,
		announcement.CreatedBy,
	).Scan(&announcement.ID, &announcement.CreatedAt, &announcement.UpdatedAt)
}

func (r *announcementRepository) Update(ctx context.Context, announcement *domain.Announcement) error {
	const query = `
        UPDATE announcements SET title=$1, body=$2, type=$3, start_at=$4, end_at=$5,
            is_active=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		announcement.Title,
		announcement.Body,
		announcement.Type,
		announcement.StartAt,
		announcement.EndAt,
		announcement.IsActive,
		announcement.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id=$1`
	var ann domain.Announcement
	if err := scanAnnouncement(r.pool.QueryRow(ctx, query, id), &ann); err != nil {
		return nil, err
	}
	return &ann, nil
}

func (r *announcementRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Announcement, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + announcementColumns + ` FROM announcements
              ORDER BY start_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnnouncements(rows)
}

// ListActiveAt returns announcements inside their visibility window.
func (r *announcementRepository) ListActiveAt(ctx context.Context, now time.Time) ([]domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements
              WHERE is_active=TRUE AND start_at <= $1 AND end_at >= $1
              ORDER BY start_at DESC`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnnouncements(rows)
}

func scanAnnouncement(row pgx.Row, ann *domain.Announcement) error {
	return row.Scan(
		&ann.ID,
		&ann.Title,
		&ann.Body,
		&ann.Type,
		&ann.StartAt,
		&ann.EndAt,
		&ann.IsActive,
		&ann.CreatedBy,
		&ann.CreatedAt,
		&ann.UpdatedAt,
	)
}

func scanAnnouncements(rows pgx.Rows) ([]domain.Announcement, error) {
	var result []domain.Announcement
	for rows.Next() {
		var ann domain.Announcement
		if err := scanAnnouncement(rows, &ann); err != nil {
			return nil, err
		}
		result = append(result, ann)
	}
	return result, rows.Err()
}
