package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shareit-go/shareit-backend/internal/item"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, f Filter) ([]*Booking, error)

	// UpdateStatusIfWaiting performs the WAITING -> terminal transition as a
	// compare-and-swap on the status column. It reports false when the booking
	// was not in WAITING at update time, which serializes concurrent decisions
	// on the same booking.
	UpdateStatusIfWaiting(ctx context.Context, id string, status Status) (bool, error)

	// item.BookingSummarizer
	LastForItem(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, error)
	NextForItem(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, error)
	HasPastApproved(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, f Filter) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")

	if f.BookerID != "" {
		query = query.Where(squirrel.Eq{"b.booker_id": f.BookerID})
	}
	if f.ItemIDs != nil {
		query = query.Where(squirrel.Eq{"b.item_id": f.ItemIDs})
	}
	if f.Status != nil {
		query = query.Where(squirrel.Eq{"b.status": *f.Status})
	}
	if f.CurrentAt != nil {
		query = query.Where(squirrel.LtOrEq{"b.start_time": *f.CurrentAt})
		query = query.Where(squirrel.GtOrEq{"b.end_time": *f.CurrentAt})
	}
	if f.EndBefore != nil {
		query = query.Where(squirrel.Lt{"b.end_time": *f.EndBefore})
	}
	if f.StartAfter != nil {
		query = query.Where(squirrel.Gt{"b.start_time": *f.StartAfter})
	}

	query = query.OrderBy("b.start_time DESC", "b.created_at ASC")

	if f.Size > 0 {
		query = query.Offset(uint64(f.From)).Limit(uint64(f.Size))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
			&b.Start, &b.End, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) UpdateStatusIfWaiting(ctx context.Context, id string, status Status) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Where(squirrel.Eq{"id": id, "status": StatusWaiting}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *pgxRepository) LastForItem(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, error) {
	return r.refForItem(ctx, itemID, squirrel.Lt{"start_time": now}, "start_time DESC")
}

func (r *pgxRepository) NextForItem(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, error) {
	return r.refForItem(ctx, itemID, squirrel.Gt{"start_time": now}, "start_time ASC")
}

func (r *pgxRepository) refForItem(ctx context.Context, itemID string, timePred squirrel.Sqlizer, order string) (*item.BookingRef, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "start_time", "end_time", "booker_id").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID, "status": StatusApproved}).
		Where(timePred).
		OrderBy(order).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking summary query failed: %w", err)
	}

	var ref item.BookingRef
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&ref.ID, &ref.Start, &ref.End, &ref.BookerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking summary failed: %w", err)
	}
	return &ref, nil
}

func (r *pgxRepository) HasPastApproved(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID, "status": StatusApproved}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build past approved query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check past approved failed: %w", err)
	}
	return exists, nil
}
