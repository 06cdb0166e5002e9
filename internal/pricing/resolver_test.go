package pricing

import (
	"testing"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

// testProduct builds a rebar-style product with two sizes, a pack scoped to
// the first size and a sizeless pack.
func testProduct() *model.Product {
	return &model.Product{
		ID:            1,
		Name:          "Rond à béton",
		BasePrice:     decimal.NewFromFloat(4.500),
		StockQuantity: 100,
		Sizes: []model.ProductSize{
			{ID: 10, ProductID: 1, Label: "10mm", UnitType: "barre", Price: decimal.NewFromFloat(6.200), StockQuantity: 40},
			{ID: 11, ProductID: 1, Label: "16mm", UnitType: "barre", Price: decimal.NewFromFloat(12.800), StockQuantity: 15},
		},
		Packs: []model.ProductPack{
			{ID: 20, ProductID: 1, SizeID: uintPtr(10), Label: "Botte de 25 (10mm)", UnitType: "botte", PackQuantity: 25, Price: decimal.NewFromFloat(145.000), StockQuantity: 8},
			{ID: 21, ProductID: 1, SizeID: nil, Label: "Palette mixte", UnitType: "palette", PackQuantity: 50, Price: decimal.NewFromFloat(210.000), StockQuantity: 3},
		},
	}
}

func TestResolve_Base(t *testing.T) {
	p := testProduct()

	sel := Resolve(p, nil, nil)

	assert.Equal(t, KindBase, sel.Kind)
	assert.True(t, sel.Price.Equal(decimal.NewFromFloat(4.500)))
	assert.Equal(t, 100, sel.Stock)
	assert.Nil(t, sel.SizeID)
	assert.Nil(t, sel.PackID)
}

func TestResolve_SizeOnly(t *testing.T) {
	p := testProduct()

	sel := Resolve(p, uintPtr(11), nil)

	assert.Equal(t, KindSize, sel.Kind)
	assert.Equal(t, "16mm", sel.Label)
	assert.True(t, sel.Price.Equal(decimal.NewFromFloat(12.800)))
	assert.Equal(t, 15, sel.Stock)
}

func TestResolve_PackMatchingSize(t *testing.T) {
	p := testProduct()

	sel := Resolve(p, uintPtr(10), uintPtr(20))

	assert.Equal(t, KindPack, sel.Kind)
	assert.Equal(t, "Botte de 25 (10mm)", sel.Label)
	assert.Equal(t, 25, sel.PackQuantity)
	assert.Equal(t, 8, sel.Stock)
	assert.Equal(t, uint(10), *sel.SizeID)
}

func TestResolve_SizelessPack(t *testing.T) {
	p := testProduct()

	sel := Resolve(p, nil, uintPtr(21))

	assert.Equal(t, KindPack, sel.Kind)
	assert.Equal(t, "Palette mixte", sel.Label)
	assert.Nil(t, sel.SizeID)
}

// A pack id combined with a size it is not scoped to falls back to the
// sizeless pack with the same id, and failing that, to the size itself.
func TestResolve_PackSizeMismatchFallsThrough(t *testing.T) {
	p := testProduct()

	// Pack 20 is scoped to size 10; requesting it with size 11 has no sized
	// match and no sizeless pack 20, so the size wins.
	sel := Resolve(p, uintPtr(11), uintPtr(20))
	assert.Equal(t, KindSize, sel.Kind)
	assert.Equal(t, "16mm", sel.Label)

	// Pack 21 is sizeless, so it still applies with any size selected.
	sel = Resolve(p, uintPtr(11), uintPtr(21))
	assert.Equal(t, KindPack, sel.Kind)
	assert.Equal(t, "Palette mixte", sel.Label)
}

func TestResolve_StaleIDsFallThrough(t *testing.T) {
	p := testProduct()

	// Stale pack id: size still resolves.
	sel := Resolve(p, uintPtr(10), uintPtr(999))
	assert.Equal(t, KindSize, sel.Kind)

	// Stale size and pack ids: base resolves.
	sel = Resolve(p, uintPtr(999), uintPtr(999))
	assert.Equal(t, KindBase, sel.Kind)

	// Stale size id alone: base resolves.
	sel = Resolve(p, uintPtr(999), nil)
	assert.Equal(t, KindBase, sel.Kind)
}

func TestResolve_IsTotal(t *testing.T) {
	p := &model.Product{ID: 2, BasePrice: decimal.Zero, StockQuantity: 0}

	// No sizes, no packs, arbitrary ids: still returns a base selection.
	sel := Resolve(p, uintPtr(1), uintPtr(1))
	assert.Equal(t, KindBase, sel.Kind)
	assert.Equal(t, 0, sel.Stock)
}

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		stock    int
		want     int
	}{
		{"within range", 3, 10, 3},
		{"above stock reduces to stock", 12, 10, 10},
		{"zero becomes one while stock remains", 0, 10, 1},
		{"negative becomes one", -5, 10, 1},
		{"no stock clamps to zero", 4, 0, 0},
		{"exactly at stock", 10, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampQuantity(tt.quantity, Selection{Stock: tt.stock})
			assert.Equal(t, tt.want, got)
		})
	}
}
