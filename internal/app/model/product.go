package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	SKU           string          `gorm:"uniqueIndex" json:"sku"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"base_price"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	Unit          string          `gorm:"type:varchar(20)" json:"unit"` // piece, kg, m, L
	ImageURL      string          `json:"image_url"`
	CategoryID    uint            `gorm:"not null;index" json:"category_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Category Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Sizes    []ProductSize `gorm:"foreignKey:ProductID" json:"sizes,omitempty"`
	Packs    []ProductPack `gorm:"foreignKey:ProductID" json:"packs,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductSize is a size-table entry overriding the base price and stock
// (e.g. a 10mm vs 16mm rebar, sold per bar).
type ProductSize struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	ProductID     uint            `gorm:"index;not null" json:"product_id"`
	Label         string          `gorm:"not null" json:"label"`
	UnitType      string          `gorm:"type:varchar(20)" json:"unit_type"`
	Price         decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"price"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	Position      int             `gorm:"default:0" json:"position"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductSize) TableName() string {
	return "product_sizes"
}

// ProductPack is a pack-size entry (e.g. carton of 25). SizeID scopes a pack
// to one size entry; a nil SizeID means the pack applies to the base product.
type ProductPack struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	ProductID     uint            `gorm:"index;not null" json:"product_id"`
	SizeID        *uint           `gorm:"index" json:"size_id,omitempty"`
	Label         string          `gorm:"not null" json:"label"`
	UnitType      string          `gorm:"type:varchar(20)" json:"unit_type"`
	PackQuantity  int             `gorm:"not null;default:1" json:"pack_quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"price"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Product Product      `gorm:"foreignKey:ProductID" json:"-"`
	Size    *ProductSize `gorm:"foreignKey:SizeID" json:"size,omitempty"`
}

func (ProductPack) TableName() string {
	return "product_packs"
}
