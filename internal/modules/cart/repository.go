package cart

import "context"

// Repository defines persistence for carts.
type Repository interface {
	Create(ctx context.Context, c *Cart) error
	GetByID(ctx context.Context, id string) (*Cart, error)
	Update(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id string) error
}
