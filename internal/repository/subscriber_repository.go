package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-console/internal/domain"
)

// SubscriberRepository handles persistence for billed subscribers.
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *domain.Subscriber) error
	GetByID(ctx context.Context, id int64) (*domain.Subscriber, error)
	GetByUsername(ctx context.Context, username string) (*domain.Subscriber, error)
	List(ctx context.Context, limit, offset int) ([]domain.Subscriber, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.AccountStatus) (int64, error)
}

type subscriberRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriberRepository instantiates the repository.
func NewSubscriberRepository(pool *pgxpool.Pool) SubscriberRepository {
	return &subscriberRepository{pool: pool}
}

const subscriberColumns = `id, username, password_hash, fullname, email, phone, address, city, status, balance, created_at, updated_at`

func scanSubscriber(row pgx.Row) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	if err := row.Scan(
		&sub.ID,
		&sub.Username,
		&sub.PasswordHash,
		&sub.FullName,
		&sub.Email,
		&sub.Phone,
		&sub.Address,
		&sub.City,
		&sub.Status,
		&sub.Balance,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	const query = `
        INSERT INTO subscribers (username, password_hash, fullname, email, phone, address, city, status, balance)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		subscriber.Username,
		subscriber.PasswordHash,
		subscriber.FullName,
		subscriber.Email,
		subscriber.Phone,
		subscriber.Address,
		subscriber.City,
		subscriber.Status,
		subscriber.Balance,
	).Scan(&subscriber.ID, &subscriber.CreatedAt, &subscriber.UpdatedAt)
}

func (r *subscriberRepository) GetByID(ctx context.Context, id int64) (*domain.Subscriber, error) {
	const query = `SELECT ` + subscriberColumns + ` FROM subscribers WHERE id=$1`
	return scanSubscriber(r.pool.QueryRow(ctx, query, id))
}

func (r *subscriberRepository) GetByUsername(ctx context.Context, username string) (*domain.Subscriber, error) {
	const query = `SELECT ` + subscriberColumns + ` FROM subscribers WHERE username=$1`
	return scanSubscriber(r.pool.QueryRow(ctx, query, username))
}

func (r *subscriberRepository) List(ctx context.Context, limit, offset int) ([]domain.Subscriber, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `SELECT ` + subscriberColumns + ` FROM subscribers ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sub)
	}
	return result, rows.Err()
}

func (r *subscriberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&count)
	return count, err
}

func (r *subscriberRepository) CountByStatus(ctx context.Context, status domain.AccountStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers WHERE status=$1`, status).Scan(&count)
	return count, err
}
