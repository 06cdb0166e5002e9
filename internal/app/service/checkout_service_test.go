package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/internal/db"
)

type recordingNotifier struct {
	submitted []*model.Order
	changed   []*model.Order
}

func (n *recordingNotifier) NotifyDocumentSubmitted(order *model.Order) {
	n.submitted = append(n.submitted, order)
}

func (n *recordingNotifier) NotifyStatusChanged(order *model.Order) {
	n.changed = append(n.changed, order)
}

type checkoutFixture struct {
	checkout  CheckoutService
	carts     CartService
	cartStore *memoryCartStore
	notifier  *recordingNotifier
	b2cUser   *model.User
	b2bUser   *model.User
	product   *model.Product
	db        *gorm.DB
}

func setupCheckoutTest(t *testing.T) *checkoutFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartStore := newMemoryCartStore()
	notifier := &recordingNotifier{}
	taxRate := decimal.NewFromFloat(0.19)

	b2cUser := &model.User{
		Email:        "client@example.com",
		PasswordHash: "hash",
		Name:         "Client Détail",
		Role:         model.RoleCustomer,
		CustomerType: model.CustomerB2C,
	}
	testDB.Create(b2cUser)

	b2bUser := &model.User{
		Email:          "pro@example.com",
		PasswordHash:   "hash",
		Name:           "Entreprise BTP",
		CompanyName:    "BTP Construction SARL",
		Role:           model.RoleCustomer,
		CustomerType:   model.CustomerB2B,
		FinancialLimit: decimal.NewFromInt(1000),
	}
	testDB.Create(b2bUser)

	category := &model.Category{Name: "Matériaux"}
	testDB.Create(category)

	product := &model.Product{
		Name:          "Ciment 50kg",
		SKU:           "CIM-050",
		BasePrice:     decimal.NewFromInt(10),
		StockQuantity: 100,
		Unit:          "sac",
		CategoryID:    category.ID,
	}
	testDB.Create(product)

	return &checkoutFixture{
		checkout:  NewCheckoutService(orderRepo, userRepo, cartStore, testDB, taxRate, notifier),
		carts:     NewCartService(cartStore, productRepo, taxRate),
		cartStore: cartStore,
		notifier:  notifier,
		b2cUser:   b2cUser,
		b2bUser:   b2bUser,
		product:   product,
		db:        testDB,
	}
}

func (f *checkoutFixture) fillCart(t *testing.T, cartID string, quantity int) {
	t.Helper()
	ctx := context.Background()
	view, err := f.carts.AddToCart(ctx, cartID, f.product.ID, nil, nil)
	require.NoError(t, err)
	_, err = f.carts.UpdateQuantity(ctx, cartID, view.Lines[0].Key, quantity)
	require.NoError(t, err)
}

func TestCheckoutService_SubmitOrder_Success(t *testing.T) {
	f := setupCheckoutTest(t)
	f.fillCart(t, "cart-b2c", 3)

	order, err := f.checkout.Submit(context.Background(), f.b2cUser.ID, "cart-b2c", model.DocumentOrder, CheckoutInput{PaymentMethod: "cash"})
	require.NoError(t, err)

	assert.Equal(t, model.DocumentOrder, order.DocumentType)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.Number, "ORD-"))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Ciment 50kg", order.Items[0].ProductName)
	assert.Equal(t, 3, order.Items[0].Quantity)

	// 30.000 + 19% VAT
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(30)))
	assert.True(t, order.TaxAmount.Equal(decimal.NewFromFloat(5.7)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(35.7)))
}

func TestCheckoutService_SubmitOrder_DecrementsStock(t *testing.T) {
	f := setupCheckoutTest(t)
	f.fillCart(t, "cart-b2c", 3)

	_, err := f.checkout.Submit(context.Background(), f.b2cUser.ID, "cart-b2c", model.DocumentOrder, CheckoutInput{})
	require.NoError(t, err)

	var product model.Product
	f.db.First(&product, f.product.ID)
	assert.Equal(t, 97, product.StockQuantity)
}

func TestCheckoutService_SubmitOrder_ClearsCart(t *testing.T) {
	f := setupCheckoutTest(t)
	f.fillCart(t, "cart-b2c", 1)

	_, err := f.checkout.Submit(context.Background(), f.b2cUser.ID, "cart-b2c", model.DocumentOrder, CheckoutInput{})
	require.NoError(t, err)

	view, err := f.carts.GetCart(context.Background(), "cart-b2c")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 0)
}

func TestCheckoutService_Submit_EmptyCart(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.checkout.Submit(context.Background(), f.b2cUser.ID, "cart-empty", model.DocumentOrder, CheckoutInput{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutService_Submit_WrongChannel(t *testing.T) {
	f := setupCheckoutTest(t)
	f.fillCart(t, "cart-b2c", 1)
	f.fillCart(t, "cart-b2b", 1)

	// Retail customer on the quotation endpoint.
	_, err := f.checkout.Submit(context.Background(), f.b2cUser.ID, "cart-b2c", model.DocumentQuotation, CheckoutInput{})
	assert.ErrorIs(t, err, ErrWrongChannel)

	// Professional customer on the order endpoint.
	_, err = f.checkout.Submit(context.Background(), f.b2bUser.ID, "cart-b2b", model.DocumentOrder, CheckoutInput{})
	assert.ErrorIs(t, err, ErrWrongChannel)
}

func TestCheckoutService_Submit_InsufficientStock(t *testing.T) {
	f := setupCheckoutTest(t)
	f.fillCart(t, "cart-b2c", 50)

	// Stock drained between cart fill and checkout.
	f.db.Model(f.product).Update("stock_quantity", 10)

	_, err := f.checkout.Submit(context.Background(), f.b2cUser.ID, "cart-b2c", model.DocumentOrder, CheckoutInput{})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was decremented and the cart survives for retry.
	var product model.Product
	f.db.First(&product, f.product.ID)
	assert.Equal(t, 10, product.StockQuantity)

	view, _ := f.carts.GetCart(context.Background(), "cart-b2c")
	assert.Len(t, view.Lines, 1)
}

func TestCheckoutService_Submit_CapturedPricesUsed(t *testing.T) {
	f := setupCheckoutTest(t)
	f.fillCart(t, "cart-b2c", 2)

	// A price change after the line was added must not affect the document.
	f.db.Model(f.product).Update("base_price", decimal.NewFromInt(99))

	order, err := f.checkout.Submit(context.Background(), f.b2cUser.ID, "cart-b2c", model.DocumentOrder, CheckoutInput{})
	require.NoError(t, err)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
}

func TestCheckoutService_SubmitQuotation_Success(t *testing.T) {
	f := setupCheckoutTest(t)
	f.fillCart(t, "cart-b2b", 2)

	order, err := f.checkout.Submit(context.Background(), f.b2bUser.ID, "cart-b2b", model.DocumentQuotation, CheckoutInput{Notes: "Livraison chantier Sousse"})
	require.NoError(t, err)

	assert.Equal(t, model.DocumentQuotation, order.DocumentType)
	assert.Equal(t, model.StatusPendingApproval, order.Status)
	assert.True(t, strings.HasPrefix(order.Number, "QUO-"))
	assert.False(t, order.CreditLimitExceeded)
	assert.Equal(t, "Livraison chantier Sousse", order.Notes)
}

func TestCheckoutService_SubmitQuotation_CreditLimitFlagsButNeverBlocks(t *testing.T) {
	f := setupCheckoutTest(t)

	// Limit 1000, outstanding 950: a 100 TND quotation overruns the limit
	// but must still go through as PENDING_APPROVAL, only flagged.
	f.db.Model(f.b2bUser).Update("outstanding_balance", decimal.NewFromInt(950))
	f.fillCart(t, "cart-b2b", 9) // 90.000 + 17.100 VAT = 107.100

	order, err := f.checkout.Submit(context.Background(), f.b2bUser.ID, "cart-b2b", model.DocumentQuotation, CheckoutInput{})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendingApproval, order.Status)
	assert.True(t, order.CreditLimitExceeded)
}

func TestCheckoutService_SubmitQuotation_WithinCreditLimit(t *testing.T) {
	f := setupCheckoutTest(t)

	f.db.Model(f.b2bUser).Update("outstanding_balance", decimal.NewFromInt(100))
	f.fillCart(t, "cart-b2b", 1)

	order, err := f.checkout.Submit(context.Background(), f.b2bUser.ID, "cart-b2b", model.DocumentQuotation, CheckoutInput{})
	require.NoError(t, err)
	assert.False(t, order.CreditLimitExceeded)
}

func TestCheckoutService_Submit_NotifiesAdmins(t *testing.T) {
	f := setupCheckoutTest(t)
	f.fillCart(t, "cart-b2c", 1)

	_, err := f.checkout.Submit(context.Background(), f.b2cUser.ID, "cart-b2c", model.DocumentOrder, CheckoutInput{})
	require.NoError(t, err)
	require.Len(t, f.notifier.submitted, 1)
	assert.Equal(t, model.DocumentOrder, f.notifier.submitted[0].DocumentType)
}

func TestCheckoutService_Submit_NilNotifier(t *testing.T) {
	f := setupCheckoutTest(t)
	f.fillCart(t, "cart-b2c", 1)

	checkout := NewCheckoutService(
		repository.NewOrderRepository(f.db),
		repository.NewUserRepository(f.db),
		f.cartStore,
		f.db,
		decimal.NewFromFloat(0.19),
		nil,
	)

	_, err := checkout.Submit(context.Background(), f.b2cUser.ID, "cart-b2c", model.DocumentOrder, CheckoutInput{})
	assert.NoError(t, err)
}

func TestCheckoutService_Submit_SizeVariantStock(t *testing.T) {
	f := setupCheckoutTest(t)
	ctx := context.Background()

	size := &model.ProductSize{
		ProductID:     f.product.ID,
		Label:         "12mm",
		Price:         decimal.NewFromFloat(6.200),
		StockQuantity: 5,
	}
	f.db.Create(size)

	view, err := f.carts.AddToCart(ctx, "cart-b2c", f.product.ID, &size.ID, nil)
	require.NoError(t, err)
	_, err = f.carts.UpdateQuantity(ctx, "cart-b2c", view.Lines[0].Key, 4)
	require.NoError(t, err)

	_, err = f.checkout.Submit(ctx, f.b2cUser.ID, "cart-b2c", model.DocumentOrder, CheckoutInput{})
	require.NoError(t, err)

	// Only the size row is decremented, not the base product.
	var reloaded model.ProductSize
	f.db.First(&reloaded, size.ID)
	assert.Equal(t, 1, reloaded.StockQuantity)

	var product model.Product
	f.db.First(&product, f.product.ID)
	assert.Equal(t, 100, product.StockQuantity)
}
