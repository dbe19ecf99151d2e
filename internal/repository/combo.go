package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastbite/fastbite-api/internal/domain/combo"
)

const (
	comboColumns = `id, name, description, image_url, is_available,
		original_price, discount_amount, final_price, created_at, updated_at`

	getComboByIDSQL = `SELECT ` + comboColumns + ` FROM combos WHERE id = $1`

	listCombosSQL = `SELECT ` + comboColumns + ` FROM combos
		WHERE NOT $1 OR is_available ORDER BY name`

	getComboItemsSQL = `SELECT product_id, quantity
		FROM combo_items WHERE combo_id = $1 ORDER BY id`

	insertComboSQL = `INSERT INTO combos (
			name, description, image_url, is_available,
			original_price, discount_amount, final_price
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	updateComboSQL = `UPDATE combos SET
			name = $2, description = $3, image_url = $4, is_available = $5,
			original_price = $6, discount_amount = $7, final_price = $8,
			updated_at = now()
		WHERE id = $1`

	deleteComboItemsSQL = `DELETE FROM combo_items WHERE combo_id = $1`

	insertComboItemSQL = `INSERT INTO combo_items (combo_id, product_id, quantity)
		VALUES ($1, $2, $3)`

	deleteComboSQL = `DELETE FROM combos WHERE id = $1`
)

var _ combo.Repository = (*ComboRepository)(nil)

// ComboRepository implements combo.Repository backed by PostgreSQL.
type ComboRepository struct {
	pool *pgxpool.Pool
}

// NewComboRepository returns a ComboRepository that uses the given pool.
func NewComboRepository(pool *pgxpool.Pool) *ComboRepository {
	return &ComboRepository{pool: pool}
}

// Create inserts the combo and its items in one transaction.
func (r *ComboRepository) Create(ctx context.Context, c *combo.Combo) (int64, error) {
	var id int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertComboSQL,
			c.Name, c.Description, c.ImageURL, c.Available,
			c.OriginalPrice, c.DiscountAmount, c.FinalPrice,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("inserting combo: %w", err)
		}
		return insertComboItems(ctx, tx, id, c.Items)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites the combo row and replaces its item list wholesale
// (delete all, reinsert) in one transaction.
func (r *ComboRepository) Update(ctx context.Context, c *combo.Combo) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateComboSQL,
			c.ID, c.Name, c.Description, c.ImageURL, c.Available,
			c.OriginalPrice, c.DiscountAmount, c.FinalPrice,
		)
		if err != nil {
			return fmt.Errorf("updating combo %d: %w", c.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return combo.ErrNotFound
		}

		if _, err := tx.Exec(ctx, deleteComboItemsSQL, c.ID); err != nil {
			return fmt.Errorf("clearing items of combo %d: %w", c.ID, err)
		}
		return insertComboItems(ctx, tx, c.ID, c.Items)
	})
}

func insertComboItems(ctx context.Context, tx pgx.Tx, comboID int64, items []combo.Item) error {
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(insertComboItemSQL, comboID, item.ProductID, item.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting items of combo %d: %w", comboID, err)
	}
	return nil
}

// GetByID returns a combo with its items.
func (r *ComboRepository) GetByID(ctx context.Context, id int64) (*combo.Combo, error) {
	rows, err := r.pool.Query(ctx, getComboByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting combo %d: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCombo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, combo.ErrNotFound
		}
		return nil, fmt.Errorf("getting combo %d: %w", id, err)
	}

	itemRows, err := r.pool.Query(ctx, getComboItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting items of combo %d: %w", id, err)
	}
	c.Items, err = pgx.CollectRows(itemRows, scanComboItem)
	if err != nil {
		return nil, fmt.Errorf("getting items of combo %d: %w", id, err)
	}
	return &c, nil
}

// List returns combos without their item lists, ordered by name.
func (r *ComboRepository) List(ctx context.Context, availableOnly bool) ([]combo.Combo, error) {
	rows, err := r.pool.Query(ctx, listCombosSQL, availableOnly)
	if err != nil {
		return nil, fmt.Errorf("listing combos: %w", err)
	}
	return pgx.CollectRows(rows, scanCombo)
}

// Delete removes a combo; its items go with it via ON DELETE CASCADE.
func (r *ComboRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteComboSQL, id)
	if err != nil {
		return fmt.Errorf("deleting combo %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return combo.ErrNotFound
	}
	return nil
}

func scanCombo(row pgx.CollectableRow) (combo.Combo, error) {
	var c combo.Combo
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.Available,
		&c.OriginalPrice, &c.DiscountAmount, &c.FinalPrice,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func scanComboItem(row pgx.CollectableRow) (combo.Item, error) {
	var it combo.Item
	err := row.Scan(&it.ProductID, &it.Quantity)
	return it, err
}
