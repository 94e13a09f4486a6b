package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/storefront-api/internal/modules/pricing"
	"github.com/georgemunganga/storefront-api/internal/modules/product"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidDocument = errors.New("invalid product document")
	ErrInvalidRequest  = errors.New("invalid request")
)

// Service defines catalog business logic. Every product it hands out has been
// normalized from a freshly read document.
type Service interface {
	GetProduct(ctx context.Context, id string) (product.NormalizedProduct, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]Card, error)

	// Snapshot fetches the given products concurrently. Missing ids are left
	// out of the result rather than reported as errors.
	Snapshot(ctx context.Context, ids []string) (map[string]product.NormalizedProduct, error)

	Options(ctx context.Context, id string, selection map[string]string) (*OptionsView, error)
	Price(ctx context.Context, id string, req PriceRequest) (*PriceView, error)
	SaveDocument(ctx context.Context, id string, body json.RawMessage) (product.NormalizedProduct, error)
}

// Options configures a catalog service.
type Options struct {
	DefaultCurrency     string
	SnapshotConcurrency int
}

type service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
	opts     Options
	now      func() time.Time
}

// NewService creates a new catalog service.
func NewService(repo Repository, log *zap.Logger, opts Options) Service {
	if opts.SnapshotConcurrency <= 0 {
		opts.SnapshotConcurrency = 8
	}
	return &service{repo: repo, log: log, validate: validator.New(), opts: opts, now: time.Now}
}

func (s *service) GetProduct(ctx context.Context, id string) (product.NormalizedProduct, error) {
	body, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return product.NormalizedProduct{}, err
	}
	return product.NormalizeJSON(body), nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) ([]Card, error) {
	docs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(docs))
	for _, body := range docs {
		p := product.NormalizeJSON(body)
		if filter.ActiveOnly && !p.Visible() {
			continue
		}
		cards = append(cards, s.card(p))
	}
	return cards, nil
}

func (s *service) Snapshot(ctx context.Context, ids []string) (map[string]product.NormalizedProduct, error) {
	var mu sync.Mutex
	out := make(map[string]product.NormalizedProduct, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.SnapshotConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			p, err := s.GetProduct(gctx, id)
			if errors.Is(err, ErrProductNotFound) {
				s.log.Debug("product missing from snapshot", zap.String("product_id", id))
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetch product %s: %w", id, err)
			}
			mu.Lock()
			out[id] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Options(ctx context.Context, id string, selection map[string]string) (*OptionsView, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	sel := product.NormalizeSelection(selection)
	choices := product.AttributeOptions(p)

	view := &OptionsView{ProductID: p.ID, Selection: sel, Attributes: []AttributeView{}}
	seen := map[string]bool{}
	addAttr := func(name, display string, required bool) {
		seen[name] = true
		av := AttributeView{Name: name, DisplayName: display, Required: required, Options: []OptionView{}}
		for _, o := range choices[name] {
			av.Options = append(av.Options, OptionView{
				Value:     o,
				Available: product.IsOptionAvailable(p, name, o, sel),
				Selected:  sel[name] == o,
			})
		}
		view.Attributes = append(view.Attributes, av)
	}

	for _, d := range p.AttributeDefs {
		addAttr(d.Name, d.DisplayName, d.Required)
	}
	var extra []string
	for name := range choices {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		addAttr(name, name, false)
	}
	return view, nil
}

func (s *service) Price(ctx context.Context, id string, req PriceRequest) (*PriceView, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}

	var v *product.Variant
	if p.HasVariants() {
		v = product.MatchVariant(p, req.Attributes)
	}
	return &PriceView{
		ProductID: p.ID,
		Matched:   v != nil,
		Variant:   v,
		Price:     pricing.ResolvePrice(pricing.Input{Product: p, SelectedVariant: v, Currency: currency}),
	}, nil
}

// SaveDocument stores a backend payload as received after checking that it
// normalizes to a product with the expected id.
func (s *service) SaveDocument(ctx context.Context, id string, body json.RawMessage) (product.NormalizedProduct, error) {
	var probe map[string]any
	if err := json.Unmarshal(body, &probe); err != nil || probe == nil {
		return product.NormalizedProduct{}, fmt.Errorf("%w: body must be a JSON object", ErrInvalidDocument)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return product.NormalizedProduct{}, fmt.Errorf("%w: id is required", ErrInvalidDocument)
	}
	p := product.NormalizeJSON(body)
	switch {
	case p.ID == "":
		probe["_id"] = id
		patched, err := json.Marshal(probe)
		if err != nil {
			return product.NormalizedProduct{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		body = patched
		p = product.NormalizeJSON(body)
	case p.ID != id:
		return product.NormalizedProduct{}, fmt.Errorf("%w: document id %q does not match %q", ErrInvalidDocument, p.ID, id)
	}

	doc := &Document{
		ID:         id,
		CategoryID: p.CategoryID,
		IsActive:   p.Visible(),
		Body:       body,
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return product.NormalizedProduct{}, fmt.Errorf("failed to persist product %s: %w", id, err)
	}
	s.log.Info("product document saved",
		zap.String("product_id", id),
		zap.Int("variants", len(p.Variants)),
		zap.Bool("active", doc.IsActive))
	return p, nil
}

func (s *service) card(p product.NormalizedProduct) Card {
	c := Card{
		ID:           p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Price:        pricing.DisplayPrice(p),
		Currency:     s.opts.DefaultCurrency,
	}
	if len(p.Images) > 0 {
		c.Image = p.Images[0]
	}
	return c
}
