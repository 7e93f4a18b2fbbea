package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, it *Item) error
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Item, error)
	IDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, error)
	ListByRequest(ctx context.Context, requestID string) ([]*Item, error)
	SetImage(ctx context.Context, id string, imagePath, contentType, thumbnailPath *string) error

	CreateComment(ctx context.Context, c *Comment) error
	ListCommentsByItem(ctx context.Context, itemID string) ([]Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var itemColumns = []string{
	"id", "owner_id", "name", "description", "available",
	"request_id", "image_path", "image_content_type", "thumbnail_path", "created_at",
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.Available,
		&it.RequestID, &it.ImagePath, &it.ImageContentType, &it.ThumbnailPath, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.items").
		Columns("owner_id", "name", "description", "available", "request_id").
		Values(it.OwnerID, it.Name, it.Description, it.Available, it.RequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&it.ID, &it.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("available", it.Available).
		Where(squirrel.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	return r.listItems(ctx, query)
}

func (r *pgxRepository) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id").
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item ids query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list item ids failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *pgxRepository) Search(ctx context.Context, text string, offset, limit int) ([]*Item, error) {
	pattern := "%" + text + "%"

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("created_at ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	return r.listItems(ctx, query)
}

func (r *pgxRepository) ListByRequest(ctx context.Context, requestID string) ([]*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("created_at ASC")

	return r.listItems(ctx, query)
}

func (r *pgxRepository) listItems(ctx context.Context, query squirrel.SelectBuilder) ([]*Item, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgxRepository) SetImage(ctx context.Context, id string, imagePath, contentType, thumbnailPath *string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.items").
		Set("image_path", imagePath).
		Set("image_content_type", contentType).
		Set("thumbnail_path", thumbnailPath).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set item image query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set item image failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CreateComment(ctx context.Context, c *Comment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.comments").
		Columns("item_id", "author_id", "text").
		Values(c.ItemID, c.AuthorID, c.Text).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt)
}

func (r *pgxRepository) ListCommentsByItem(ctx context.Context, itemID string) ([]Comment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"c.id", "c.item_id", "c.author_id", "u.name", "c.text", "c.created_at",
	).
		From("public.comments c").
		Join("public.users u ON c.author_id = u.id").
		Where(squirrel.Eq{"c.item_id": itemID}).
		OrderBy("c.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
