package catalog

import (
	"context"
	"encoding/json"
)

// Repository stores raw backend product documents. Nothing outside this
// package reads them; consumers get normalized products from the Service.
type Repository interface {
	Get(ctx context.Context, id string) (json.RawMessage, error)
	List(ctx context.Context, filter ListFilter) ([]json.RawMessage, error)
	Save(ctx context.Context, doc *Document) error
}
