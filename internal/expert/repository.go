package expert

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, e *Expert) error
	GetByID(ctx context.Context, id string) (*Expert, error)
	List(ctx context.Context, filter Filter) ([]*Expert, int, error)
	Update(ctx context.Context, e *Expert) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) Create(ctx context.Context, e *Expert) error {
	query, args, err := psql.Insert("public.experts").
		Columns("user_id", "name", "specialty", "is_active").
		Values(e.UserID, e.Name, e.Specialty, e.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create expert query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return mapWriteError("create expert", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Expert, error) {
	query, args, err := psql.Select("id", "user_id", "name", "specialty", "is_active", "created_at").
		From("public.experts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get expert query failed: %w", err)
	}

	var e Expert
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&e.ID, &e.UserID, &e.Name, &e.Specialty, &e.IsActive, &e.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get expert failed: %w", err)
	}
	return &e, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Expert, int, error) {
	query := psql.Select(
		"id", "user_id", "name", "specialty", "is_active", "created_at",
		"count(*) OVER() as total_count",
	).From("public.experts")

	if filter.Specialty != "" {
		query = query.Where(squirrel.ILike{"specialty": "%" + filter.Specialty + "%"})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("name ASC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list experts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list experts failed: %w", err)
	}
	defer rows.Close()

	var result []*Expert
	var total int
	for rows.Next() {
		var e Expert
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Name, &e.Specialty, &e.IsActive, &e.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan expert failed: %w", err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate experts failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, e *Expert) error {
	query, args, err := psql.Update("public.experts").
		Set("user_id", e.UserID).
		Set("name", e.Name).
		Set("specialty", e.Specialty).
		Set("is_active", e.IsActive).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update expert query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError("update expert", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.experts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expert failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrUserAssigned
		case pgerrcode.ForeignKeyViolation:
			return ErrInvalidUser
		}
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
