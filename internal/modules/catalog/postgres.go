package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Get(ctx context.Context, id string) (json.RawMessage, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM product_documents WHERE id=$1`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]json.RawMessage, error) {
	query := `SELECT doc FROM product_documents WHERE 1=1`
	args := []interface{}{}
	n := 1
	if filter.CategoryID != "" {
		query += fmt.Sprintf(` AND category_id=$%d`, n)
		args = append(args, filter.CategoryID)
		n++
	}
	if len(filter.IDs) > 0 {
		query += fmt.Sprintf(` AND id = ANY($%d)`, n)
		args = append(args, pq.Array(filter.IDs))
		n++
	}
	if filter.ActiveOnly {
		query += ` AND is_active=true`
	}
	query += ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, n)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		docs = append(docs, json.RawMessage(body))
	}
	return docs, rows.Err()
}

func (r *postgresRepo) Save(ctx context.Context, doc *Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_documents (id, category_id, is_active, doc, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE
		SET category_id=EXCLUDED.category_id, is_active=EXCLUDED.is_active,
		    doc=EXCLUDED.doc, updated_at=EXCLUDED.updated_at`,
		doc.ID, doc.CategoryID, doc.IsActive, []byte(doc.Body), doc.UpdatedAt)
	return err
}
