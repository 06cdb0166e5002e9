package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/internal/db"
)

func setupCatalogServiceTest(t *testing.T) (CatalogService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	return NewCatalogService(categoryRepo, productRepo), testDB
}

func createTestCategory(t *testing.T, testDB *gorm.DB, name string, parentID *uint) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, ParentID: parentID}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name, sku string, categoryID uint) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		SKU:           sku,
		BasePrice:     decimal.RequireFromString("9.900"),
		StockQuantity: 10,
		Unit:          "pièce",
		CategoryID:    categoryID,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestCatalogService_ListCategories_RootsOnly(t *testing.T) {
	svc, testDB := setupCatalogServiceTest(t)

	root := createTestCategory(t, testDB, "Quincaillerie", nil)
	createTestCategory(t, testDB, "Visserie", &root.ID)

	roots, err := svc.ListCategories()
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Quincaillerie", roots[0].Name)
}

func TestCatalogService_GetCategory_NotFound(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	_, err := svc.GetCategory(9999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_ListSubcategories(t *testing.T) {
	svc, testDB := setupCatalogServiceTest(t)

	root := createTestCategory(t, testDB, "Quincaillerie", nil)
	createTestCategory(t, testDB, "Visserie", &root.ID)
	createTestCategory(t, testDB, "Fixations", &root.ID)

	subs, err := svc.ListSubcategories(root.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestCatalogService_ListCategoryProducts_IncludesSubcategories(t *testing.T) {
	svc, testDB := setupCatalogServiceTest(t)

	root := createTestCategory(t, testDB, "Quincaillerie", nil)
	sub := createTestCategory(t, testDB, "Visserie", &root.ID)
	createTestProduct(t, testDB, "Marteau", "MAR-001", root.ID)
	createTestProduct(t, testDB, "Vis à bois", "VIS-001", sub.ID)

	products, err := svc.ListCategoryProducts(root.ID)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = svc.ListCategoryProducts(sub.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Vis à bois", products[0].Name)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	_, err := svc.GetProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_SearchProducts(t *testing.T) {
	svc, testDB := setupCatalogServiceTest(t)

	category := createTestCategory(t, testDB, "Peinture", nil)
	createTestProduct(t, testDB, "Peinture acrylique blanche", "PEI-001", category.ID)
	createTestProduct(t, testDB, "Rouleau de peintre", "ROU-001", category.ID)

	results, err := svc.SearchProducts("acrylique")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Peinture acrylique blanche", results[0].Name)

	results, err = svc.SearchProducts("")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCatalogService_CreateCategory_UnknownParent(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	parentID := uint(9999)
	err := svc.CreateCategory(&model.Category{Name: "Orpheline", ParentID: &parentID})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	err := svc.CreateProduct(&model.Product{
		Name:       "Sans rayon",
		SKU:        "XXX-001",
		BasePrice:  decimal.RequireFromString("1.000"),
		CategoryID: 9999,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	svc, testDB := setupCatalogServiceTest(t)

	category := createTestCategory(t, testDB, "Outillage", nil)
	product := createTestProduct(t, testDB, "Tournevis", "TOU-001", category.ID)

	require.NoError(t, svc.DeleteProduct(product.ID))

	_, err := svc.GetProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
