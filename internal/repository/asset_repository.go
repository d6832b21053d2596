package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AssetFilter narrows asset listings.
type AssetFilter struct {
	Statuses     []domain.AssetStatus
	Type         *string
	AssignedToID *string
	Limit        int
	Offset       int
}

// AssetRepository encapsulates inventory persistence.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	Update(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	GetByTag(ctx context.Context, tag string) (*domain.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]domain.Asset, error)
}

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository instantiates repository.
func NewAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &assetRepository{pool: pool}
}

const assetColumns = `id, asset_tag, name, type, status, assigned_to_id, assigned_to_name,
               notes, created_at, updated_at`

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	const query = `
        INSERT INTO assets (asset_tag, name, type, status, assigned_to_id, assigned_to_name, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		asset.AssetTag,
		asset.Name,
		asset.Type,
		asset.Status,
		asset.AssignedToID,
		asset.AssignedToName,
		asset.Notes,
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
}

func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	const query = `
        UPDATE assets SET asset_tag=$1, name=$2, type=$3, status=$4, assigned_to_id=$5,
            assigned_to_name=$6, notes=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		asset.AssetTag,
		asset.Name,
		asset.Type,
		asset.Status,
		asset.AssignedToID,
		asset.AssignedToName,
		asset.Notes,
		asset.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *assetRepository) GetByTag(ctx context.Context, tag string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_tag=$1`
	return r.fetchSingle(ctx, query, tag)
}

func (r *assetRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Asset, error) {
	var asset domain.Asset
	if err := scanAsset(r.pool.QueryRow(ctx, query, arg), &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, filter AssetFilter) ([]domain.Asset, error) {
	base := `SELECT ` + assetColumns + ` FROM assets`
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Type != nil && *filter.Type != "" {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY asset_tag ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := scanAsset(rows, &asset); err != nil {
			return nil, err
		}
		result = append(result, asset)
	}
	return result, rows.Err()
}

func scanAsset(row pgx.Row, asset *domain.Asset) error {
	return row.Scan(
		&asset.ID,
		&asset.AssetTag,
		&asset.Name,
		&asset.Type,
		&asset.Status,
		&asset.AssignedToID,
		&asset.AssignedToName,
		&asset.Notes,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
}
