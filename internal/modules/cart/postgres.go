package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Cart) error {
	lines, err := json.Marshal(c.Lines)
	if err != nil {
		return fmt.Errorf("encode cart lines: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO carts (id, currency, lines, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.Currency, lines, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Cart, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCartNotFound, id)
	}
	c := &Cart{}
	var lines []byte
	err = r.db.QueryRowContext(ctx, `
		SELECT id, currency, lines, created_at, updated_at
		FROM carts WHERE id=$1`, uid).
		Scan(&c.ID, &c.Currency, &lines, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCartNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	c.Lines = []Line{}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &c.Lines); err != nil {
			return nil, fmt.Errorf("decode cart lines: %w", err)
		}
	}
	return c, nil
}

func (r *postgresRepo) Update(ctx context.Context, c *Cart) error {
	lines, err := json.Marshal(c.Lines)
	if err != nil {
		return fmt.Errorf("encode cart lines: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE carts SET currency=$1, lines=$2, updated_at=$3 WHERE id=$4`,
		c.Currency, lines, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrCartNotFound, c.ID)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCartNotFound, id)
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM carts WHERE id=$1`, uid)
	return err
}
