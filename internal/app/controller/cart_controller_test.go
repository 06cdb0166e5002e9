package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/internal/app/service"
	"github.com/bhmida/bricodirect-backend/internal/cart"
	"github.com/bhmida/bricodirect-backend/internal/db"
)

// memoryCartStore keeps aggregates in a map so controller tests run
// without Redis.
type memoryCartStore struct {
	carts map[string]*cart.Aggregate
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: make(map[string]*cart.Aggregate)}
}

func (s *memoryCartStore) Load(_ context.Context, cartID string) (*cart.Aggregate, error) {
	if aggregate, ok := s.carts[cartID]; ok {
		return aggregate, nil
	}
	return cart.New(), nil
}

func (s *memoryCartStore) Save(_ context.Context, cartID string, aggregate *cart.Aggregate) error {
	s.carts[cartID] = aggregate
	return nil
}

func (s *memoryCartStore) Delete(_ context.Context, cartID string) error {
	delete(s.carts, cartID)
	return nil
}

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(newMemoryCartStore(), productRepo, decimal.RequireFromString("0.19"))
	cartController := NewCartController(cartService)

	category := &model.Category{Name: "Quincaillerie"}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		Name:          "Marteau de charpentier",
		SKU:           "MAR-001",
		BasePrice:     decimal.RequireFromString("25.000"),
		StockQuantity: 5,
		Unit:          "pièce",
		CategoryID:    category.ID,
	}
	require.NoError(t, testDB.Create(product).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, product
}

// Helper function to set user ID in context
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func assertDecimalEqual(t *testing.T, expected string, actual interface{}) {
	t.Helper()
	got, err := decimal.NewFromString(actual.(string))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString(expected)),
		"expected %s, got %s", expected, got)
}

func TestCartController_GetCart_Empty(t *testing.T) {
	controller, router, _, _ := setupCartControllerTest(t)

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	cartView := response["cart"].(map[string]interface{})
	assert.Equal(t, float64(0), cartView["total_items"])
	assert.Empty(t, cartView["lines"])
}

func TestCartController_AddToCart_Success(t *testing.T) {
	controller, router, _, product := setupCartControllerTest(t)

	router.POST("/cart/lines", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.AddToCart(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: product.ID})
	req := httptest.NewRequest(http.MethodPost, "/cart/lines", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	cartView := response["cart"].(map[string]interface{})
	assert.Equal(t, float64(1), cartView["total_items"])
	assertDecimalEqual(t, "25", cartView["subtotal"])
	assertDecimalEqual(t, "4.75", cartView["tax_amount"])
	assertDecimalEqual(t, "29.75", cartView["total"])

	lines := cartView["lines"].([]interface{})
	require.Len(t, lines, 1)
	line := lines[0].(map[string]interface{})
	assert.Equal(t, "Marteau de charpentier", line["product_name"])
}

func TestCartController_AddToCart_ProductNotFound(t *testing.T) {
	controller, router, _, _ := setupCartControllerTest(t)

	router.POST("/cart/lines", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.AddToCart(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: 9999})
	req := httptest.NewRequest(http.MethodPost, "/cart/lines", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_AddToCart_InvalidBody(t *testing.T) {
	controller, router, _, _ := setupCartControllerTest(t)

	router.POST("/cart/lines", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.AddToCart(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/cart/lines", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateLine_ZeroRemoves(t *testing.T) {
	controller, router, _, product := setupCartControllerTest(t)

	router.POST("/cart/lines", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.AddToCart(c)
	})
	router.PUT("/cart/lines/:key", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.UpdateLine(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: product.ID})
	req := httptest.NewRequest(http.MethodPost, "/cart/lines", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	lineKey := cart.LineKey(product.ID, nil, nil)
	updateBody, _ := json.Marshal(UpdateLineRequest{Quantity: 0})
	req = httptest.NewRequest(http.MethodPut, "/cart/lines/"+lineKey, bytes.NewReader(updateBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	cartView := response["cart"].(map[string]interface{})
	assert.Equal(t, float64(0), cartView["total_items"])
}

func TestCartController_UpdateLine_NotFound(t *testing.T) {
	controller, router, _, _ := setupCartControllerTest(t)

	router.PUT("/cart/lines/:key", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.UpdateLine(c)
	})

	updateBody, _ := json.Marshal(UpdateLineRequest{Quantity: 2})
	req := httptest.NewRequest(http.MethodPut, "/cart/lines/p42", bytes.NewReader(updateBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	controller, router, _, product := setupCartControllerTest(t)

	router.POST("/cart/lines", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.AddToCart(c)
	})
	router.DELETE("/cart", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.ClearCart(c)
	})
	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, 1)
		controller.GetCart(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: product.ID})
	req := httptest.NewRequest(http.MethodPost, "/cart/lines", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	cartView := response["cart"].(map[string]interface{})
	assert.Equal(t, float64(0), cartView["total_items"])
}
