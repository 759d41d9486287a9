package court

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Court, error)
	List(ctx context.Context, filter Filter) ([]*Court, error)
	// Upsert creates the court or renames it in place, keyed by id.
	Upsert(ctx context.Context, c *Court) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Court, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "sport", "created_at").
		From("public.courts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get court query failed: %w", err)
	}

	var c Court
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Sport, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get court failed: %w", err)
	}
	return &c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Court, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "name", "sport", "created_at").
		From("public.courts").
		OrderBy("id ASC")

	if filter.Sport != "" {
		query = query.Where(squirrel.Eq{"sport": filter.Sport})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list courts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list courts failed: %w", err)
	}
	defer rows.Close()

	var courts []*Court
	for rows.Next() {
		var c Court
		if err := rows.Scan(&c.ID, &c.Name, &c.Sport, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan court failed: %w", err)
		}
		courts = append(courts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courts failed: %w", err)
	}

	return courts, nil
}

func (r *pgxRepository) Upsert(ctx context.Context, c *Court) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.courts").
		Columns("id", "name", "sport").
		Values(c.ID, c.Name, c.Sport).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, sport = EXCLUDED.sport RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert court query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.CreatedAt); err != nil {
		return fmt.Errorf("upsert court failed: %w", err)
	}
	return nil
}
