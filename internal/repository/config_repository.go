package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-console/internal/domain"
)

// ConfigRepository handles persistence for application settings.
type ConfigRepository interface {
	Get(ctx context.Context, setting string) (string, error)
	// Ensure inserts the setting with value when the key does not exist yet.
	// Existing rows are never overwritten, which makes seeding idempotent
	// and safe under concurrent invocation.
	Ensure(ctx context.Context, setting, value string) error
	GetAll(ctx context.Context) ([]domain.ConfigEntry, error)
}

type configRepository struct {
	pool *pgxpool.Pool
}

// NewConfigRepository instantiates the repository.
func NewConfigRepository(pool *pgxpool.Pool) ConfigRepository {
	return &configRepository{pool: pool}
}

func (r *configRepository) Get(ctx context.Context, setting string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM app_config WHERE setting=$1`, setting).Scan(&value)
	return value, err
}

func (r *configRepository) Ensure(ctx context.Context, setting, value string) error {
	const query = `
        INSERT INTO app_config (setting, value) VALUES ($1,$2)
        ON CONFLICT (setting) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, setting, value)
	return err
}

func (r *configRepository) GetAll(ctx context.Context) ([]domain.ConfigEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT setting, value FROM app_config ORDER BY setting`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ConfigEntry
	for rows.Next() {
		var entry domain.ConfigEntry
		if err := rows.Scan(&entry.Setting, &entry.Value); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
