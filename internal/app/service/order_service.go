package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotAQuotation           = errors.New("document is not a quotation")
)

// orderTransitions is the allowed lifecycle for B2C orders. Quotations move
// through Approve/Reject/expiry instead and are not listed here.
var orderTransitions = map[model.DocumentStatus][]model.DocumentStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusDelivered, model.StatusCancelled},
}

type OrderService interface {
	GetUserDocuments(userID uint, documentType model.DocumentType) ([]model.Order, error)
	GetDocumentByID(userID, orderID uint) (*model.Order, error)

	// Admin surface.
	ListDocuments(documentType model.DocumentType) ([]model.Order, error)
	GetDocument(orderID uint) (*model.Order, error)
	UpdateOrderStatus(orderID uint, status model.DocumentStatus) (*model.Order, error)
	ApproveQuotation(orderID uint) (*model.Order, error)
	RejectQuotation(orderID uint) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	db        *gorm.DB
	notifier  Notifier
}

func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, db *gorm.DB, notifier Notifier) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		db:        db,
		notifier:  notifier,
	}
}

func (s *orderService) GetUserDocuments(userID uint, documentType model.DocumentType) ([]model.Order, error) {
	return s.orderRepo.FindByUser(userID, documentType)
}

func (s *orderService) GetDocumentByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	// Ownership mismatch reads as not-found so ids cannot be probed.
	if order.UserID != userID {
		logger.Warn("Document access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListDocuments(documentType model.DocumentType) ([]model.Order, error) {
	return s.orderRepo.FindAll(documentType)
}

func (s *orderService) GetDocument(orderID uint) (*model.Order, error) {
	return s.findOrder(orderID)
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.DocumentStatus) (*model.Order, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(order.Status, status) {
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, ErrInvalidStatusTransition
	}

	if err := s.orderRepo.UpdateStatus(nil, orderID, status); err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"from":     order.Status,
		"to":       status,
	})

	order.Status = status
	if s.notifier != nil {
		s.notifier.NotifyStatusChanged(order)
	}
	return order, nil
}

// ApproveQuotation moves a pending quotation to APPROVED and books its total
// onto the customer's outstanding balance in the same transaction.
func (s *orderService) ApproveQuotation(orderID uint) (*model.Order, error) {
	order, err := s.findQuotation(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.StatusPendingApproval {
		return nil, ErrInvalidStatusTransition
	}

	err = s.inTransaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateStatus(tx, orderID, model.StatusApproved); err != nil {
			return err
		}
		return s.userRepo.AddToOutstandingBalance(tx, order.UserID, order.TotalAmount)
	})
	if err != nil {
		logger.Error("Failed to approve quotation", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Quotation approved", map[string]interface{}{
		"order_id":     orderID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount.String(),
	})

	order.Status = model.StatusApproved
	if s.notifier != nil {
		s.notifier.NotifyStatusChanged(order)
	}
	return order, nil
}

// RejectQuotation refuses a quotation. Rejecting one that was already
// approved releases its amount from the customer's outstanding balance.
func (s *orderService) RejectQuotation(orderID uint) (*model.Order, error) {
	order, err := s.findQuotation(orderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case model.StatusPendingApproval:
		if err := s.orderRepo.UpdateStatus(nil, orderID, model.StatusRejected); err != nil {
			return nil, err
		}
	case model.StatusApproved:
		err = s.inTransaction(func(tx *gorm.DB) error {
			if err := s.orderRepo.UpdateStatus(tx, orderID, model.StatusRejected); err != nil {
				return err
			}
			return s.userRepo.AddToOutstandingBalance(tx, order.UserID, order.TotalAmount.Neg())
		})
		if err != nil {
			logger.Error("Failed to reject approved quotation", err, map[string]interface{}{
				"order_id": orderID,
			})
			return nil, err
		}
	default:
		return nil, ErrInvalidStatusTransition
	}

	logger.Info("Quotation rejected", map[string]interface{}{
		"order_id": orderID,
		"from":     order.Status,
	})

	order.Status = model.StatusRejected
	if s.notifier != nil {
		s.notifier.NotifyStatusChanged(order)
	}
	return order, nil
}

func (s *orderService) findOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) findQuotation(orderID uint) (*model.Order, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.DocumentType != model.DocumentQuotation {
		return nil, ErrNotAQuotation
	}
	return order, nil
}

func (s *orderService) inTransaction(fn func(tx *gorm.DB) error) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic in document transaction, rolling back", fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func transitionAllowed(from, to model.DocumentStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
