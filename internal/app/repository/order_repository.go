package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUser(userID uint, documentType model.DocumentType) ([]model.Order, error)
	FindAll(documentType model.DocumentType) ([]model.Order, error)
	UpdateStatus(tx *gorm.DB, orderID uint, status model.DocumentStatus) error
	ExpireStaleQuotations(before time.Time) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(tx *gorm.DB, order *model.Order) error {
	db := tx
	if db == nil {
		db = r.db
	}
	if err := db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":       order.UserID,
			"document_type": order.DocumentType,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("User").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUser(userID uint, documentType model.DocumentType) ([]model.Order, error) {
	var orders []model.Order
	query := r.db.Where("user_id = ?", userID)
	if documentType != "" {
		query = query.Where("document_type = ?", documentType)
	}
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindAll(documentType model.DocumentType) ([]model.Order, error) {
	var orders []model.Order
	query := r.db
	if documentType != "" {
		query = query.Where("document_type = ?", documentType)
	}
	err := query.
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to fetch orders", err)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(tx *gorm.DB, orderID uint, status model.DocumentStatus) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

// ExpireStaleQuotations marks quotations that sat unanswered past the
// configured window. Returns the number of rows touched.
func (r *orderRepository) ExpireStaleQuotations(before time.Time) (int64, error) {
	result := r.db.Model(&model.Order{}).
		Where("document_type = ?", model.DocumentQuotation).
		Where("status = ?", model.StatusPendingApproval).
		Where("created_at < ?", before).
		Update("status", model.StatusExpired)
	if result.Error != nil {
		logger.Error("Failed to expire stale quotations", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
