package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront-api/internal/modules/cart"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrCartInvalid       = errors.New("cart failed validation")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidRequest    = errors.New("invalid request")
)

// CartInvalidError carries every line problem found while re-validating a
// cart at checkout.
type CartInvalidError struct {
	Errors []string
}

func (e *CartInvalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCartInvalid, strings.Join(e.Errors, "; "))
}

func (e *CartInvalidError) Is(target error) bool { return target == ErrCartInvalid }

// Carts is the part of the cart service checkout depends on.
type Carts interface {
	Quote(ctx context.Context, id string) (*cart.Quote, error)
	Clear(ctx context.Context, id string) error
}

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder re-quotes the cart against fresh product data, refuses it if
	// any line fails, and persists the order with authoritative prices.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	// GetOrder retrieves a full order with its items by UUID.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListCartOrders returns the orders placed from a cart.
	ListCartOrders(ctx context.Context, cartID string) ([]*Order, error)

	// UpdateStatus advances an order to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// CancelOrder cancels a PENDING or CONFIRMED order.
	CancelOrder(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	carts    Carts
	log      *zap.Logger
	validate *validator.Validate
}

// NewService creates a new order service.
func NewService(repo Repository, carts Carts, log *zap.Logger) Service {
	return &service{repo: repo, carts: carts, log: log, validate: validator.New()}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	q, err := s.carts.Quote(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	if len(q.Lines) == 0 && q.Valid {
		return nil, ErrEmptyCart
	}
	if !q.Valid {
		return nil, &CartInvalidError{Errors: q.Errors}
	}

	o := &Order{
		ID:              uuid.New(),
		CartID:          q.CartID,
		OrderNumber:     generateOrderNumber(),
		Status:          StatusPending,
		Total:           q.Total,
		Currency:        q.Currency,
		Notes:           req.Notes,
		DeliveryAddress: req.DeliveryAddress,
	}
	for _, l := range q.Lines {
		o.Items = append(o.Items, &OrderItem{
			ID:         uuid.New(),
			OrderID:    o.ID,
			ProductID:  l.ProductID,
			VariantID:  l.VariantID,
			SKU:        l.SKU,
			Attributes: l.Attributes,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			LineTotal:  l.LineTotal,
		})
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	if err := s.carts.Clear(ctx, req.CartID); err != nil {
		s.log.Warn("order placed but cart not cleared",
			zap.String("order_id", o.ID.String()), zap.String("cart_id", req.CartID), zap.Error(err))
	}
	s.log.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.Float64("total", o.Total),
		zap.String("currency", o.Currency),
		zap.Int("items", len(o.Items)))
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

func (s *service) ListCartOrders(ctx context.Context, cartID string) ([]*Order, error) {
	return s.repo.ListOrdersByCart(ctx, cartID)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := OrderStatus(strings.ToUpper(req.Status))
	if !canTransition(o.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot transition order from %s to %s", ErrInvalidTransition, o.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, id string) error {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if !canTransition(o.Status, StatusCancelled) {
		return fmt.Errorf("%w: only PENDING or CONFIRMED orders can be cancelled (current: %s)", ErrInvalidTransition, o.Status)
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func canTransition(from, to OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}
