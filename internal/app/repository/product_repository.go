package repository

import (
	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

type ProductRepository interface {
	FindByID(id uint) (*model.Product, error)
	FindByCategoryIDs(categoryIDs []uint) ([]model.Product, error)
	Search(query string) ([]model.Product, error)
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// FindByID loads the product with its size table and pack list; the price
// resolver needs both.
func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Sizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Packs").
		Preload("Category").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByCategoryIDs(categoryIDs []uint) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("category_id IN ?", categoryIDs).
		Preload("Sizes").
		Preload("Packs").
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to fetch products by category", err, map[string]interface{}{
			"category_ids": categoryIDs,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Search(query string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("name LIKE ? OR sku LIKE ?", "%"+query+"%", "%"+query+"%").
		Preload("Sizes").
		Preload("Packs").
		Order("name ASC").
		Limit(50).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to search products", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"sku":  product.SKU,
		})
		return err
	}
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product in database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}
