package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

type CatalogService interface {
	ListCategories() ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	ListSubcategories(categoryID uint) ([]model.Category, error)
	ListCategoryProducts(categoryID uint) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	SearchProducts(query string) ([]model.Product, error)

	CreateCategory(category *model.Category) error
	UpdateCategory(category *model.Category) error
	DeleteCategory(id uint) error
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindRoots()
}

func (s *catalogService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) ListSubcategories(categoryID uint) ([]model.Category, error) {
	if _, err := s.GetCategory(categoryID); err != nil {
		return nil, err
	}
	return s.categoryRepo.FindSubcategories(categoryID)
}

// ListCategoryProducts returns the products of a category. For a parent
// category the listing is transitive over its subcategories, so a category
// that skips the subcategory screen still shows everything beneath it.
func (s *catalogService) ListCategoryProducts(categoryID uint) ([]model.Product, error) {
	category, err := s.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}

	ids := []uint{category.ID}
	for _, child := range category.Children {
		ids = append(ids, child.ID)
	}

	return s.productRepo.FindByCategoryIDs(ids)
}

func (s *catalogService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) SearchProducts(query string) ([]model.Product, error) {
	if query == "" {
		return []model.Product{}, nil
	}
	return s.productRepo.Search(query)
}

func (s *catalogService) CreateCategory(category *model.Category) error {
	if category.ParentID != nil {
		if _, err := s.GetCategory(*category.ParentID); err != nil {
			return err
		}
	}
	return s.categoryRepo.Create(category)
}

func (s *catalogService) UpdateCategory(category *model.Category) error {
	if _, err := s.GetCategory(category.ID); err != nil {
		return err
	}
	return s.categoryRepo.Update(category)
}

func (s *catalogService) DeleteCategory(id uint) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(id)
}

func (s *catalogService) CreateProduct(product *model.Product) error {
	if _, err := s.GetCategory(product.CategoryID); err != nil {
		return err
	}

	logger.Info("Creating product", map[string]interface{}{
		"name":        product.Name,
		"sku":         product.SKU,
		"category_id": product.CategoryID,
		"sizes":       len(product.Sizes),
		"packs":       len(product.Packs),
	})
	return s.productRepo.Create(product)
}

func (s *catalogService) UpdateProduct(product *model.Product) error {
	if _, err := s.GetProduct(product.ID); err != nil {
		return err
	}
	return s.productRepo.Update(product)
}

func (s *catalogService) DeleteProduct(id uint) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}
