package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/easy-books/easy-books-server/internal/model"
)

const itemColumns = "id, owner_id, payload, version, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

// ItemRepository stores owned items of one resource kind. Every statement
// matches on both id and owner_id.
type ItemRepository[P any] struct {
	db    *Connection
	kind  model.ResourceKind
	table string
}

func NewItemRepository[P any](db *Connection, kind model.ResourceKind) *ItemRepository[P] {
	return &ItemRepository[P]{
		db:    db,
		kind:  kind,
		table: pgx.Identifier{kind.Table}.Sanitize(),
	}
}

func (r *ItemRepository[P]) Create(ctx context.Context, item model.Item[P]) (model.Item[P], error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	payload, err := json.Marshal(item.Payload)
	if err != nil {
		return model.Item[P]{}, fmt.Errorf("failed to encode %s payload: %w", r.kind.Name, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, owner_id, payload, version, created_at, updated_at)
			  VALUES ($1, $2, $3::jsonb, 1, now(), now())
			  RETURNING %s`, r.table, itemColumns)

	created, err := r.scan(r.db.QueryRowContext(ctx, query, item.ID, item.OwnerID, string(payload)))
	if err != nil {
		return model.Item[P]{}, fmt.Errorf("failed to create %s: %w", r.kind.Name, classify(err))
	}

	return created, nil
}

func (r *ItemRepository[P]) Get(ctx context.Context, ownerID, id uuid.UUID) (model.Item[P], error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND owner_id = $2`, itemColumns, r.table)

	item, err := r.scan(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item[P]{}, model.ErrNotFound
		}
		return model.Item[P]{}, fmt.Errorf("failed to get %s: %w", r.kind.Name, classify(err))
	}

	return item, nil
}

// List returns one page of the owner's items and the owner's total item count.
func (r *ItemRepository[P]) List(ctx context.Context, ownerID uuid.UUID, params model.ListParams) ([]model.Item[P], int, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE owner_id = $1`, r.table)
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", r.kind.Name, classify(err))
	}

	orderBy := model.OrderByCreatedAt
	if params.OrderBy == model.OrderByUpdatedAt {
		orderBy = model.OrderByUpdatedAt
	}
	direction := "ASC"
	if params.Descending {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE owner_id = $1
			  ORDER BY %s %s, id %s
			  LIMIT $2 OFFSET $3`, itemColumns, r.table, orderBy, direction, direction)

	// LIMIT NULL returns every row.
	var limit any
	if params.Limit > 0 {
		limit = params.Limit
	}

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", r.kind.Name, classify(err))
	}
	defer rows.Close()

	items := make([]model.Item[P], 0, max(params.Limit, 0))
	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan %s: %w", r.kind.Name, classify(err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate %s: %w", r.kind.Name, classify(err))
	}

	return items, total, nil
}

// Update locks the row, checks the expected version, and writes the payload
// produced by mutate with version incremented, all in one transaction.
// Errors returned by mutate are passed through unchanged.
func (r *ItemRepository[P]) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	expectedVersion *int64,
	mutate func(model.Item[P]) (P, error),
) (model.Item[P], error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND owner_id = $2 FOR UPDATE`, itemColumns, r.table)
	updateQuery := fmt.Sprintf(`UPDATE %s SET payload = $1::jsonb, version = version + 1, updated_at = now()
			  WHERE id = $2 AND owner_id = $3 AND version = $4
			  RETURNING %s`, r.table, itemColumns)

	var updated model.Item[P]
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		current, err := r.scan(tx.QueryRowContext(ctx, lockQuery, id, ownerID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrNotFound
			}
			return fmt.Errorf("failed to lock %s: %w", r.kind.Name, classify(err))
		}

		if expectedVersion != nil && *expectedVersion != current.Version {
			return model.ErrVersionConflict
		}

		next, err := mutate(current)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", r.kind.Name, err)
		}

		updated, err = r.scan(tx.QueryRowContext(ctx, updateQuery, string(payload), id, ownerID, current.Version))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrNotFound
			}
			return fmt.Errorf("failed to update %s: %w", r.kind.Name, classify(err))
		}

		return nil
	})
	if err != nil {
		return model.Item[P]{}, err
	}

	return updated, nil
}

func (r *ItemRepository[P]) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, r.table)

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.kind.Name, classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ItemRepository[P]) scan(row rowScanner) (model.Item[P], error) {
	var item model.Item[P]
	var payload []byte

	if err := row.Scan(&item.ID, &item.OwnerID, &payload, &item.Version, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return model.Item[P]{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&item.Payload); err != nil {
		return model.Item[P]{}, fmt.Errorf("failed to decode %s payload: %w", r.kind.Name, err)
	}

	return item, nil
}
