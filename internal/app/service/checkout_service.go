package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/internal/app/store"
	"github.com/bhmida/bricodirect-backend/internal/cart"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
	"github.com/bhmida/bricodirect-backend/pkg/util"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrWrongChannel      = errors.New("document type does not match customer type")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Notifier pushes document events to the admin channel. A nil notifier is
// valid and skips notification.
type Notifier interface {
	NotifyDocumentSubmitted(order *model.Order)
	NotifyStatusChanged(order *model.Order)
}

type CheckoutInput struct {
	PaymentMethod string
	Notes         string
}

// CheckoutService turns a cart into an order (B2C) or a quotation (B2B).
// The caller states which document type it expects; a retail customer hitting
// the quotation endpoint, or a professional hitting the order endpoint, is
// rejected with ErrWrongChannel.
type CheckoutService interface {
	Submit(ctx context.Context, userID uint, cartID string, expected model.DocumentType, input CheckoutInput) (*model.Order, error)
}

type checkoutService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	cartStore store.CartStore
	db        *gorm.DB
	taxRate   decimal.Decimal
	notifier  Notifier
}

func NewCheckoutService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	cartStore store.CartStore,
	db *gorm.DB,
	taxRate decimal.Decimal,
	notifier Notifier,
) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		cartStore: cartStore,
		db:        db,
		taxRate:   taxRate,
		notifier:  notifier,
	}
}

func channelFor(customerType model.CustomerType) model.DocumentType {
	if customerType == model.CustomerB2B {
		return model.DocumentQuotation
	}
	return model.DocumentOrder
}

func (s *checkoutService) Submit(ctx context.Context, userID uint, cartID string, expected model.DocumentType, input CheckoutInput) (*model.Order, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if channelFor(user.CustomerType) != expected {
		logger.Warn("Checkout rejected: wrong channel for customer type", map[string]interface{}{
			"user_id":       userID,
			"customer_type": user.CustomerType,
			"expected":      expected,
		})
		return nil, ErrWrongChannel
	}

	aggregate, err := s.cartStore.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if aggregate.IsEmpty() {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
			"cart_id": cartID,
		})
		return nil, ErrEmptyCart
	}

	logger.Info("Submitting document from cart", map[string]interface{}{
		"user_id":       userID,
		"cart_id":       cartID,
		"document_type": expected,
		"line_count":    len(aggregate.Lines),
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during checkout, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		subtotal decimal.Decimal
		items    []model.OrderItem
	)

	for i := range aggregate.Lines {
		line := &aggregate.Lines[i]
		if err := s.reserveStock(tx, userID, line); err != nil {
			tx.Rollback()
			return nil, err
		}

		// Documents carry the prices captured when the line was added.
		items = append(items, model.OrderItem{
			ProductID:    line.ProductID,
			SizeID:       line.SizeID,
			PackID:       line.PackID,
			ProductName:  line.ProductName,
			VariantLabel: line.VariantLabel,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
		})
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	tax := subtotal.Mul(s.taxRate).Round(3)
	total := subtotal.Add(tax)

	order := &model.Order{
		UserID:       userID,
		DocumentType: expected,
		Subtotal:     subtotal,
		TaxAmount:    tax,
		TotalAmount:  total,
		Items:        items,
	}

	switch expected {
	case model.DocumentQuotation:
		order.Number = util.GenerateDocumentNumber("QUO")
		order.Status = model.StatusPendingApproval
		order.Notes = input.Notes
		// A credit overrun flags the quotation for the approver; it never
		// blocks submission.
		exposure := user.OutstandingBalance.Add(total)
		if exposure.GreaterThan(user.FinancialLimit) {
			order.CreditLimitExceeded = true
			logger.Warn("Quotation exceeds customer credit limit", map[string]interface{}{
				"user_id":         userID,
				"financial_limit": user.FinancialLimit.String(),
				"exposure":        exposure.String(),
			})
		}
	default:
		order.Number = util.GenerateDocumentNumber("ORD")
		order.Status = model.StatusPending
		order.PaymentMethod = input.PaymentMethod
		order.Notes = input.Notes
	}

	if err := s.orderRepo.Create(tx, order); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit checkout transaction", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	// The cart is cleared only once the document is durable. A failed clear
	// leaves a stale cart behind, which the TTL reaps.
	if err := s.cartStore.Delete(ctx, cartID); err != nil {
		logger.Warn("Failed to clear cart after checkout", map[string]interface{}{
			"cart_id": cartID,
			"error":   err.Error(),
		})
	}

	logger.Info("Document submitted successfully", map[string]interface{}{
		"user_id":       userID,
		"order_id":      order.ID,
		"number":        order.Number,
		"document_type": order.DocumentType,
		"status":        order.Status,
		"total_amount":  total.String(),
	})

	if s.notifier != nil {
		s.notifier.NotifyDocumentSubmitted(order)
	}

	return s.orderRepo.FindByID(order.ID)
}

// reserveStock locks the line's stock row and decrements it. The product row
// is locked first so concurrent checkouts of different variants of the same
// product serialize in one order.
func (s *checkoutService) reserveStock(tx *gorm.DB, userID uint, line *cart.Line) error {
	var product model.Product
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, line.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product disappeared during checkout", map[string]interface{}{
				"user_id":    userID,
				"product_id": line.ProductID,
			})
			return ErrProductNotFound
		}
		return err
	}

	switch {
	case line.PackID != nil:
		var pack model.ProductPack
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pack, *line.PackID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if pack.StockQuantity < line.Quantity {
			logger.Warn("Checkout failed: insufficient pack stock", map[string]interface{}{
				"user_id":   userID,
				"pack_id":   pack.ID,
				"requested": line.Quantity,
				"available": pack.StockQuantity,
			})
			return ErrInsufficientStock
		}
		return tx.Model(&model.ProductPack{}).
			Where("id = ?", pack.ID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity)).Error

	case line.SizeID != nil:
		var size model.ProductSize
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&size, *line.SizeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if size.StockQuantity < line.Quantity {
			logger.Warn("Checkout failed: insufficient size stock", map[string]interface{}{
				"user_id":   userID,
				"size_id":   size.ID,
				"requested": line.Quantity,
				"available": size.StockQuantity,
			})
			return ErrInsufficientStock
		}
		return tx.Model(&model.ProductSize{}).
			Where("id = ?", size.ID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity)).Error

	default:
		if product.StockQuantity < line.Quantity {
			logger.Warn("Checkout failed: insufficient product stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
				"requested":  line.Quantity,
				"available":  product.StockQuantity,
			})
			return ErrInsufficientStock
		}
		return tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity)).Error
	}
}
