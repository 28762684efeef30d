package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-console/internal/domain"
)

// RouterDeviceRepository handles persistence for managed network devices.
type RouterDeviceRepository interface {
	Create(ctx context.Context, device *domain.RouterDevice) error
	List(ctx context.Context) ([]domain.RouterDevice, error)
	Count(ctx context.Context) (int64, error)
}

type routerDeviceRepository struct {
	pool *pgxpool.Pool
}

// NewRouterDeviceRepository instantiates the repository.
func NewRouterDeviceRepository(pool *pgxpool.Pool) RouterDeviceRepository {
	return &routerDeviceRepository{pool: pool}
}

func (r *routerDeviceRepository) Create(ctx context.Context, device *domain.RouterDevice) error {
	const query = `
        INSERT INTO router_devices (name, ip_address, username, password_hash, description, enabled)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		device.Name,
		device.IPAddress,
		device.Username,
		device.PasswordHash,
		device.Description,
		device.Enabled,
	).Scan(&device.ID, &device.CreatedAt, &device.UpdatedAt)
}

func (r *routerDeviceRepository) List(ctx context.Context) ([]domain.RouterDevice, error) {
	const query = `
        SELECT id, name, ip_address, username, password_hash, description, enabled, created_at, updated_at
        FROM router_devices ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RouterDevice
	for rows.Next() {
		var device domain.RouterDevice
		if err := rows.Scan(
			&device.ID,
			&device.Name,
			&device.IPAddress,
			&device.Username,
			&device.PasswordHash,
			&device.Description,
			&device.Enabled,
			&device.CreatedAt,
			&device.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, device)
	}
	return result, rows.Err()
}

func (r *routerDeviceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM router_devices`).Scan(&count)
	return count, err
}
