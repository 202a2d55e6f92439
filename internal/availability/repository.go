package availability

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
	Create(ctx context.Context, r *Rule) error
	GetByID(ctx context.Context, id string) (*Rule, error)
	// ListByExpert returns rules ordered by id.
	ListByExpert(ctx context.Context, expertID string, activeOnly bool) ([]*Rule, error)
	Update(ctx context.Context, r *Rule) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var ruleColumns = []string{
	"id", "expert_id", "day_of_week", "start_time", "end_time",
	"slot_duration", "buffer_time", "is_active", "created_at", "updated_at",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRule(row scanner) (*Rule, error) {
	var r Rule
	err := row.Scan(
		&r.ID, &r.ExpertID, &r.DayOfWeek, &r.StartTime, &r.EndTime,
		&r.SlotDuration, &r.BufferTime, &r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *pgxRepository) Create(ctx context.Context, rule *Rule) error {
	query, args, err := psql.Insert("public.availability_rules").
		Columns("expert_id", "day_of_week", "start_time", "end_time", "slot_duration", "buffer_time", "is_active").
		Values(rule.ExpertID, rule.DayOfWeek, rule.StartTime, rule.EndTime, rule.SlotDuration, rule.BufferTime, rule.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create rule query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return mapWriteError("create rule", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Rule, error) {
	query, args, err := psql.Select(ruleColumns...).
		From("public.availability_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get rule query failed: %w", err)
	}

	rule, err := scanRule(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rule failed: %w", err)
	}
	return rule, nil
}

func (r *pgxRepository) ListByExpert(ctx context.Context, expertID string, activeOnly bool) ([]*Rule, error) {
	q := psql.Select(ruleColumns...).
		From("public.availability_rules").
		Where(squirrel.Eq{"expert_id": expertID})
	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := q.OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list rules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rules failed: %w", err)
	}
	defer rows.Close()

	rules := []*Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rule failed: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules failed: %w", err)
	}
	return rules, nil
}

func (r *pgxRepository) Update(ctx context.Context, rule *Rule) error {
	query, args, err := psql.Update("public.availability_rules").
		Set("day_of_week", rule.DayOfWeek).
		Set("start_time", rule.StartTime).
		Set("end_time", rule.EndTime).
		Set("slot_duration", rule.SlotDuration).
		Set("buffer_time", rule.BufferTime).
		Set("is_active", rule.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rule.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update rule query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rule.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return mapWriteError("update rule", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.availability_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule failed: %w", err)
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
			return ErrDuplicateActiveRule
		case pgerrcode.ForeignKeyViolation:
			return expert.ErrNotFound
		case pgerrcode.CheckViolation:
			return ErrInvalidRange
		}
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
