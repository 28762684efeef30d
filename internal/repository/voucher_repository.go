package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-console/internal/domain"
)

// VoucherRepository handles persistence for prepaid access vouchers.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *domain.Voucher) error
	ListByOwner(ctx context.Context, username string, limit int) ([]domain.Voucher, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.VoucherStatus) (int64, error)
}

type voucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository instantiates the repository.
func NewVoucherRepository(pool *pgxpool.Pool) VoucherRepository {
	return &voucherRepository{pool: pool}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *domain.Voucher) error {
	const query = `
        INSERT INTO vouchers (code, plan_id, owner_username, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, generated_at`

	return r.pool.QueryRow(ctx, query,
		voucher.Code,
		voucher.PlanID,
		voucher.OwnerUsername,
		voucher.Status,
	).Scan(&voucher.ID, &voucher.GeneratedAt)
}

func (r *voucherRepository) ListByOwner(ctx context.Context, username string, limit int) ([]domain.Voucher, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT id, code, plan_id, owner_username, status, generated_at, used_at
        FROM vouchers WHERE owner_username=$1 ORDER BY generated_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Voucher
	for rows.Next() {
		var voucher domain.Voucher
		if err := rows.Scan(
			&voucher.ID,
			&voucher.Code,
			&voucher.PlanID,
			&voucher.OwnerUsername,
			&voucher.Status,
			&voucher.GeneratedAt,
			&voucher.UsedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, voucher)
	}
	return result, rows.Err()
}

func (r *voucherRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers`).Scan(&count)
	return count, err
}

func (r *voucherRepository) CountByStatus(ctx context.Context, status domain.VoucherStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers WHERE status=$1`, status).Scan(&count)
	return count, err
}
