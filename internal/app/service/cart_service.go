package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/internal/app/store"
	"github.com/bhmida/bricodirect-backend/internal/cart"
	"github.com/bhmida/bricodirect-backend/internal/pricing"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

var ErrCartLineNotFound = errors.New("cart line not found")

// CartView is the read model returned to the basket screen. Totals are
// computed on every read, never stored.
type CartView struct {
	Lines      []cart.Line     `json:"lines"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	Total      decimal.Decimal `json:"total"`
}

type CartService interface {
	GetCart(ctx context.Context, cartID string) (*CartView, error)
	AddToCart(ctx context.Context, cartID string, productID uint, sizeID, packID *uint) (*CartView, error)
	UpdateQuantity(ctx context.Context, cartID, lineKey string, quantity int) (*CartView, error)
	RemoveLine(ctx context.Context, cartID, lineKey string) (*CartView, error)
	ClearCart(ctx context.Context, cartID string) error
}

type cartService struct {
	cartStore   store.CartStore
	productRepo repository.ProductRepository
	taxRate     decimal.Decimal
}

func NewCartService(cartStore store.CartStore, productRepo repository.ProductRepository, taxRate decimal.Decimal) CartService {
	return &cartService{
		cartStore:   cartStore,
		productRepo: productRepo,
		taxRate:     taxRate,
	}
}

func (s *cartService) view(aggregate *cart.Aggregate) *CartView {
	subtotal := aggregate.TotalPrice()
	tax := subtotal.Mul(s.taxRate).Round(3)
	lines := aggregate.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return &CartView{
		Lines:      lines,
		TotalItems: aggregate.TotalItems(),
		Subtotal:   subtotal,
		TaxAmount:  tax,
		Total:      subtotal.Add(tax),
	}
}

func (s *cartService) GetCart(ctx context.Context, cartID string) (*CartView, error) {
	aggregate, err := s.cartStore.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.view(aggregate), nil
}

// AddToCart adds one unit of a product+variant. An out-of-stock selection is
// a silent no-op: the cart is returned unchanged rather than erroring, which
// is the behavior the storefront expects.
func (s *cartService) AddToCart(ctx context.Context, cartID string, productID uint, sizeID, packID *uint) (*CartView, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	sel := pricing.Resolve(product, sizeID, packID)

	aggregate, err := s.cartStore.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	line := cart.Line{
		Key:          cart.LineKey(productID, sel.SizeID, sel.PackID),
		ProductID:    productID,
		SizeID:       sel.SizeID,
		PackID:       sel.PackID,
		ProductName:  product.Name,
		VariantLabel: sel.Label,
		UnitType:     sel.UnitType,
		UnitPrice:    sel.Price,
		Stock:        sel.Stock,
	}

	if !aggregate.AddLine(line) {
		logger.Warn("Add to cart had no effect", map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
			"stock":      sel.Stock,
		})
		return s.view(aggregate), nil
	}

	if err := s.cartStore.Save(ctx, cartID, aggregate); err != nil {
		return nil, err
	}

	logger.Info("Cart line added", map[string]interface{}{
		"cart_id":    cartID,
		"line_key":   line.Key,
		"product_id": productID,
	})
	return s.view(aggregate), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, cartID, lineKey string, quantity int) (*CartView, error) {
	aggregate, err := s.cartStore.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	line := findLine(aggregate, lineKey)
	if line == nil {
		return nil, ErrCartLineNotFound
	}

	// Refresh the stock ceiling from the live catalog before clamping. A
	// product that disappeared from the catalog keeps its captured ceiling.
	changed := s.refreshStock(aggregate, line)
	changed = aggregate.UpdateQuantity(lineKey, quantity) || changed

	if changed {
		if err := s.cartStore.Save(ctx, cartID, aggregate); err != nil {
			return nil, err
		}
	}
	return s.view(aggregate), nil
}

func (s *cartService) refreshStock(aggregate *cart.Aggregate, line *cart.Line) bool {
	product, err := s.productRepo.FindByID(line.ProductID)
	if err != nil {
		return false
	}
	sel := pricing.Resolve(product, line.SizeID, line.PackID)
	return aggregate.SetStock(line.Key, sel.Stock)
}

func (s *cartService) RemoveLine(ctx context.Context, cartID, lineKey string) (*CartView, error) {
	aggregate, err := s.cartStore.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	// Removing an absent key is a no-op.
	if aggregate.RemoveLine(lineKey) {
		if err := s.cartStore.Save(ctx, cartID, aggregate); err != nil {
			return nil, err
		}
	}
	return s.view(aggregate), nil
}

func (s *cartService) ClearCart(ctx context.Context, cartID string) error {
	if err := s.cartStore.Delete(ctx, cartID); err != nil {
		return err
	}
	logger.Info("Cart cleared", map[string]interface{}{
		"cart_id": cartID,
	})
	return nil
}

func findLine(aggregate *cart.Aggregate, key string) *cart.Line {
	for i := range aggregate.Lines {
		if aggregate.Lines[i].Key == key {
			return &aggregate.Lines[i]
		}
	}
	return nil
}
