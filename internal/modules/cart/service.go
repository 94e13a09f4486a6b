package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront-api/internal/modules/product"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrLineNotFound = errors.New("cart line not found")
	ErrInvalidLine  = errors.New("invalid cart line")
)

// ProductSource returns a fresh snapshot of the requested products. Ids that
// no longer exist are simply absent from the result.
type ProductSource interface {
	Snapshot(ctx context.Context, ids []string) (map[string]product.NormalizedProduct, error)
}

// Service defines cart business logic.
type Service interface {
	CreateCart(ctx context.Context, req CreateCartRequest) (*Cart, error)
	GetCart(ctx context.Context, id string) (*Cart, error)
	AddLine(ctx context.Context, id string, req AddLineRequest) (*Cart, error)
	UpdateQuantity(ctx context.Context, id string, index int, req UpdateQuantityRequest) (*Cart, error)
	RemoveLine(ctx context.Context, id string, index int) (*Cart, error)
	Clear(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	// Quote re-validates and prices every line against a freshly fetched
	// snapshot. Call it immediately before checkout.
	Quote(ctx context.Context, id string) (*Quote, error)
}

type service struct {
	repo            Repository
	products        ProductSource
	validate        *validator.Validate
	log             *zap.Logger
	defaultCurrency string
	now             func() time.Time
}

// NewService creates a new cart service.
func NewService(repo Repository, products ProductSource, log *zap.Logger, defaultCurrency string) Service {
	return &service{
		repo:            repo,
		products:        products,
		validate:        validator.New(),
		log:             log,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

func (s *service) CreateCart(ctx context.Context, req CreateCartRequest) (*Cart, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}
	now := s.now().UTC()
	c := &Cart{
		ID:        uuid.New(),
		Currency:  currency,
		Lines:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	s.log.Info("cart created", zap.String("cart_id", c.ID.String()), zap.String("currency", currency))
	return c, nil
}

func (s *service) GetCart(ctx context.Context, id string) (*Cart, error) {
	return s.repo.GetByID(ctx, id)
}

// AddLine merges the selection into an existing line with the same product
// and attributes, or appends a new one.
func (s *service) AddLine(ctx context.Context, id string, req AddLineRequest) (*Cart, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	productID := strings.TrimSpace(req.ProductID)
	snapshot, err := s.products.Snapshot(ctx, []string{productID})
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", productID, err)
	}
	p, ok := snapshot[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %s does not exist", ErrInvalidLine, productID)
	}

	attrs := map[string]string(product.NormalizeSelection(req.Attributes))
	line := Line{ProductID: productID, Attributes: attrs, Quantity: req.Quantity}
	if v := product.MatchVariant(p, attrs); v != nil {
		line.VariantID = v.ID
	}

	if idx := findLine(c.Lines, productID, attrs); idx >= 0 {
		c.Lines[idx].Quantity += req.Quantity
		c.Lines[idx].VariantID = line.VariantID
	} else {
		c.Lines = append(c.Lines, line)
	}
	return c, s.save(ctx, c)
}

func (s *service) UpdateQuantity(ctx context.Context, id string, index int, req UpdateQuantityRequest) (*Cart, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Lines) {
		return nil, fmt.Errorf("%w: index %d", ErrLineNotFound, index)
	}
	if req.Quantity == 0 {
		c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	} else {
		c.Lines[index].Quantity = req.Quantity
	}
	return c, s.save(ctx, c)
}

func (s *service) RemoveLine(ctx context.Context, id string, index int) (*Cart, error) {
	return s.UpdateQuantity(ctx, id, index, UpdateQuantityRequest{Quantity: 0})
}

func (s *service) Clear(ctx context.Context, id string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.Lines = []Line{}
	return s.save(ctx, c)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Quote(ctx context.Context, id string) (*Quote, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.products.Snapshot(ctx, productIDs(c.Lines))
	if err != nil {
		return nil, fmt.Errorf("load product snapshot: %w", err)
	}
	products := Products(snapshot)

	refreshed := ReconcileLines(c.Lines, products)
	if variantCacheChanged(c.Lines, refreshed) {
		c.Lines = refreshed
		if err := s.save(ctx, c); err != nil {
			s.log.Warn("failed to refresh cached variant ids", zap.String("cart_id", id), zap.Error(err))
		}
	}

	res := ValidateCart(c.Lines, products)
	q := &Quote{
		CartID:   c.ID,
		Currency: c.Currency,
		Valid:    res.Valid,
		Errors:   res.Errors,
		Lines:    PriceLines(c.Lines, products),
		Total:    CartTotal(c.Lines, products),
	}
	if q.Currency == "" {
		q.Currency = s.defaultCurrency
	}
	if !q.Valid {
		s.log.Info("cart failed validation",
			zap.String("cart_id", id), zap.Strings("errors", q.Errors))
	}
	return q, nil
}

func (s *service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func findLine(lines []Line, productID string, attrs map[string]string) int {
	for i, l := range lines {
		if l.ProductID != productID || len(l.Attributes) != len(attrs) {
			continue
		}
		same := true
		for k, v := range attrs {
			if l.Attributes[k] != v {
				same = false
				break
			}
		}
		if same {
			return i
		}
	}
	return -1
}

func productIDs(lines []Line) []string {
	seen := map[string]bool{}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}

func variantCacheChanged(before, after []Line) bool {
	for i := range before {
		if before[i].VariantID != after[i].VariantID {
			return true
		}
	}
	return false
}
