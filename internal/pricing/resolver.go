package pricing

import (
	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindBase Kind = "base"
	KindSize Kind = "size"
	KindPack Kind = "pack"
)

// Selection is the resolved price/stock source for a product-detail view.
// Exactly one kind is active at a time.
type Selection struct {
	Kind         Kind            `json:"kind"`
	SizeID       *uint           `json:"size_id,omitempty"`
	PackID       *uint           `json:"pack_id,omitempty"`
	Label        string          `json:"label,omitempty"`
	UnitType     string          `json:"unit_type,omitempty"`
	PackQuantity int             `json:"pack_quantity,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
}

// Resolve picks the effective price/stock for a product given the requested
// size and pack ids. Total: it always returns a selection, defaulting to the
// base product. Precedence: pack matching the requested size, then pack with
// no size requirement, then size-only, then base. Ids that no longer exist
// in the catalog fall through silently to the next level.
func Resolve(product *model.Product, sizeID, packID *uint) Selection {
	if packID != nil {
		if sizeID != nil {
			if pack := findPack(product.Packs, *packID, sizeID); pack != nil {
				return packSelection(pack)
			}
		}
		if pack := findPack(product.Packs, *packID, nil); pack != nil {
			return packSelection(pack)
		}
	}

	if sizeID != nil {
		for i := range product.Sizes {
			size := &product.Sizes[i]
			if size.ID == *sizeID {
				id := size.ID
				return Selection{
					Kind:     KindSize,
					SizeID:   &id,
					Label:    size.Label,
					UnitType: size.UnitType,
					Price:    size.Price,
					Stock:    size.StockQuantity,
				}
			}
		}
	}

	return Selection{
		Kind:  KindBase,
		Price: product.BasePrice,
		Stock: product.StockQuantity,
	}
}

// findPack matches a pack by id and size scope. A nil sizeID matches only
// packs without a size requirement.
func findPack(packs []model.ProductPack, packID uint, sizeID *uint) *model.ProductPack {
	for i := range packs {
		pack := &packs[i]
		if pack.ID != packID {
			continue
		}
		if sizeID == nil {
			if pack.SizeID == nil {
				return pack
			}
			continue
		}
		if pack.SizeID != nil && *pack.SizeID == *sizeID {
			return pack
		}
	}
	return nil
}

func packSelection(pack *model.ProductPack) Selection {
	id := pack.ID
	sel := Selection{
		Kind:         KindPack,
		PackID:       &id,
		Label:        pack.Label,
		UnitType:     pack.UnitType,
		PackQuantity: pack.PackQuantity,
		Price:        pack.Price,
		Stock:        pack.StockQuantity,
	}
	if pack.SizeID != nil {
		sizeID := *pack.SizeID
		sel.SizeID = &sizeID
	}
	return sel
}

// ClampQuantity pulls a previously chosen quantity into the valid range of a
// selection. A variant change invalidates the old choice: the result is never
// zero while the selection has stock, and never above the stock ceiling.
func ClampQuantity(quantity int, sel Selection) int {
	if sel.Stock <= 0 {
		return 0
	}
	if quantity < 1 {
		return 1
	}
	if quantity > sel.Stock {
		return sel.Stock
	}
	return quantity
}
