package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, req *ItemRequest) error
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	// ListByRequester returns the user's own requests, newest first.
	ListByRequester(ctx context.Context, requesterID string) ([]*ItemRequest, error)
	// ListOthers returns requests from all other users, newest first.
	ListOthers(ctx context.Context, excludeUserID string, offset, limit int) ([]*ItemRequest, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, req *ItemRequest) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.item_requests").
		Columns("requester_id", "description").
		Values(req.RequesterID, req.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item request query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "requester_id", "description", "created_at").
		From("public.item_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item request query failed: %w", err)
	}

	var req ItemRequest
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&req.ID, &req.RequesterID, &req.Description, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) ListByRequester(ctx context.Context, requesterID string) ([]*ItemRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "requester_id", "description", "created_at").
		From("public.item_requests").
		Where(squirrel.Eq{"requester_id": requesterID}).
		OrderBy("created_at DESC")

	return r.listRequests(ctx, query)
}

func (r *pgxRepository) ListOthers(ctx context.Context, excludeUserID string, offset, limit int) ([]*ItemRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "requester_id", "description", "created_at").
		From("public.item_requests").
		Where(squirrel.NotEq{"requester_id": excludeUserID}).
		OrderBy("created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	return r.listRequests(ctx, query)
}

func (r *pgxRepository) listRequests(ctx context.Context, query squirrel.SelectBuilder) ([]*ItemRequest, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list item requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list item requests failed: %w", err)
	}
	defer rows.Close()

	var requests []*ItemRequest
	for rows.Next() {
		var req ItemRequest
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.Description, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item request failed: %w", err)
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}
