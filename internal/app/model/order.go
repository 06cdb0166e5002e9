package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DocumentType string

type DocumentStatus string

const (
	DocumentOrder     DocumentType = "order"     // B2C, immediate
	DocumentQuotation DocumentType = "quotation" // B2B, needs admin approval

	// Order lifecycle
	StatusPending   DocumentStatus = "PENDING"
	StatusConfirmed DocumentStatus = "CONFIRMED"
	StatusDelivered DocumentStatus = "DELIVERED"
	StatusCancelled DocumentStatus = "CANCELLED"

	// Quotation lifecycle
	StatusPendingApproval DocumentStatus = "PENDING_APPROVAL"
	StatusApproved        DocumentStatus = "APPROVED"
	StatusRejected        DocumentStatus = "REJECTED"
	StatusExpired         DocumentStatus = "EXPIRED"
)

// Order stores both B2C orders and B2B quotations, discriminated by
// DocumentType. Status strings are returned verbatim to the confirmation
// screen.
type Order struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	Number              string          `gorm:"uniqueIndex;not null" json:"number"`
	UserID              uint            `gorm:"not null;index" json:"user_id"`
	DocumentType        DocumentType    `gorm:"type:varchar(20);not null;index" json:"document_type"`
	Status              DocumentStatus  `gorm:"type:varchar(20);not null" json:"status"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"subtotal"`
	TaxAmount           decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"tax_amount"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"total_amount"`
	PaymentMethod       string          `gorm:"type:varchar(50)" json:"payment_method"`
	Notes               string          `gorm:"type:text" json:"notes"`
	CreditLimitExceeded bool            `gorm:"default:false" json:"credit_limit_exceeded"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots name, variant label and unit price at submission time,
// so documents stay stable when the catalog changes later.
type OrderItem struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	SizeID       *uint           `gorm:"index" json:"size_id,omitempty"`
	PackID       *uint           `gorm:"index" json:"pack_id,omitempty"`
	ProductName  string          `gorm:"not null" json:"product_name"`
	VariantLabel string          `json:"variant_label,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"unit_price"`
	CreatedAt    time.Time       `json:"created_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
