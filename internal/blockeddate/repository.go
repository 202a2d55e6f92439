package blockeddate

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
)

type Repository interface {
	Create(ctx context.Context, b *BlockedDate) error
	GetByID(ctx context.Context, id string) (*BlockedDate, error)
	ListByExpert(ctx context.Context, expertID string, filter Filter) ([]*BlockedDate, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// blocked_date is a DATE column; it travels as text to keep the yyyy-MM-dd form.
var columns = []string{"id", "expert_id", "to_char(blocked_date, 'YYYY-MM-DD')", "reason", "created_at"}

func (r *pgxRepository) Create(ctx context.Context, b *BlockedDate) error {
	query, args, err := psql.Insert("public.blocked_dates").
		Columns("expert_id", "blocked_date", "reason").
		Values(b.ExpertID, squirrel.Expr("?::date", b.Date), b.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create blocked date query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return ErrAlreadyBlocked
			case pgerrcode.ForeignKeyViolation:
				return expert.ErrNotFound
			}
		}
		return fmt.Errorf("create blocked date failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*BlockedDate, error) {
	query, args, err := psql.Select(columns...).
		From("public.blocked_dates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get blocked date query failed: %w", err)
	}

	var b BlockedDate
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.ExpertID, &b.Date, &b.Reason, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blocked date failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) ListByExpert(ctx context.Context, expertID string, filter Filter) ([]*BlockedDate, error) {
	q := psql.Select(columns...).
		From("public.blocked_dates").
		Where(squirrel.Eq{"expert_id": expertID})
	if filter.From != "" {
		q = q.Where(squirrel.Expr("blocked_date >= ?::date", filter.From))
	}
	if filter.To != "" {
		q = q.Where(squirrel.Expr("blocked_date <= ?::date", filter.To))
	}

	query, args, err := q.OrderBy("blocked_date ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list blocked dates query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates failed: %w", err)
	}
	defer rows.Close()

	out := []*BlockedDate{}
	for rows.Next() {
		var b BlockedDate
		if err := rows.Scan(&b.ID, &b.ExpertID, &b.Date, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blocked date failed: %w", err)
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked dates failed: %w", err)
	}
	return out, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.blocked_dates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blocked date failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
