package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-console/internal/domain"
)

// PlanRepository handles persistence for service plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) error
	ListEnabled(ctx context.Context) ([]domain.Plan, error)
	Count(ctx context.Context) (int64, error)
}

type planRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository instantiates the repository.
func NewPlanRepository(pool *pgxpool.Pool) PlanRepository {
	return &planRepository{pool: pool}
}

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	const query = `
        INSERT INTO plans (name, bandwidth_name, plan_type, price, validity_days, enabled, description)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		plan.Name,
		plan.BandwidthName,
		plan.Type,
		plan.Price,
		plan.ValidityDays,
		plan.Enabled,
		plan.Description,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
}

func (r *planRepository) ListEnabled(ctx context.Context) ([]domain.Plan, error) {
	const query = `
        SELECT id, name, bandwidth_name, plan_type, price, validity_days, enabled, description, created_at, updated_at
        FROM plans WHERE enabled ORDER BY price ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Plan
	for rows.Next() {
		var plan domain.Plan
		if err := rows.Scan(
			&plan.ID,
			&plan.Name,
			&plan.BandwidthName,
			&plan.Type,
			&plan.Price,
			&plan.ValidityDays,
			&plan.Enabled,
			&plan.Description,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, plan)
	}
	return result, rows.Err()
}

func (r *planRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plans`).Scan(&count)
	return count, err
}
