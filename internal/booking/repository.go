package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
)

type Repository interface {
	// Create inserts the booking only if it overlaps no live booking of the expert.
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id string) error

	// ListForCalendar returns the expert's non-cancelled bookings between from and to inclusive.
	ListForCalendar(ctx context.Context, expertID, from, to string) ([]slot.Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const bookingDate = "to_char(b.booking_date, 'YYYY-MM-DD')"

func selectBookings(extra ...string) squirrel.SelectBuilder {
	cols := []string{
		"b.id", "b.expert_id", "e.name", "b.user_id", "COALESCE(u.display_name, u.email)",
		bookingDate, "b.start_time", "b.end_time", "b.status", "b.notes", "b.created_at", "b.updated_at",
	}
	return psql.Select(append(cols, extra...)...).
		From("public.bookings b").
		Join("public.experts e ON b.expert_id = e.id").
		Join("public.users u ON b.user_id = u.id")
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("expert_id", "user_id", "booking_date", "start_time", "end_time", "status", "notes").
		Values(b.ExpertID, b.UserID, squirrel.Expr("?::date", b.Date), b.StartTime, b.EndTime, b.Status, b.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapWriteError("create booking", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.ExpertID, &b.ExpertName, &b.UserID, &b.UserName,
		&b.Date, &b.StartTime, &b.EndTime, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := selectBookings("count(*) OVER() as total_count")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.PartyUserID != "" {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"b.user_id": filter.PartyUserID},
			squirrel.Eq{"e.user_id": filter.PartyUserID},
		})
	}
	if filter.ExpertID != "" {
		query = query.Where(squirrel.Eq{"b.expert_id": filter.ExpertID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.DateFrom != "" {
		query = query.Where(squirrel.Expr("b.booking_date >= ?::date", filter.DateFrom))
	}
	if filter.DateTo != "" {
		query = query.Where(squirrel.Expr("b.booking_date <= ?::date", filter.DateTo))
	}

	orderDir := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		orderDir = "ASC"
	}
	query = query.OrderBy("b.booking_date "+orderDir, "b.start_time "+orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.ExpertID, &b.ExpertName, &b.UserID, &b.UserName,
			&b.Date, &b.StartTime, &b.EndTime, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return mapWriteError("update booking", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListForCalendar(ctx context.Context, expertID, from, to string) ([]slot.Booking, error) {
	query, args, err := psql.Select("to_char(booking_date, 'YYYY-MM-DD')", "start_time", "end_time", "status").
		From("public.bookings").
		Where(squirrel.Eq{"expert_id": expertID}).
		Where(squirrel.NotEq{"status": string(StatusCancelled)}).
		Where(squirrel.Expr("booking_date BETWEEN ?::date AND ?::date", from, to)).
		OrderBy("booking_date", "start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build calendar bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list calendar bookings failed: %w", err)
	}
	defer rows.Close()

	out := []slot.Booking{}
	for rows.Next() {
		var b slot.Booking
		if err := rows.Scan(&b.Date, &b.StartTime, &b.EndTime, &b.Status); err != nil {
			return nil, fmt.Errorf("scan calendar booking failed: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendar bookings failed: %w", err)
	}
	return out, nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ExclusionViolation, pgerrcode.UniqueViolation:
			return ErrSlotTaken
		case pgerrcode.CheckViolation:
			return ErrInvalidStatus
		}
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
