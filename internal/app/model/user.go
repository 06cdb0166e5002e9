package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRole string

type CustomerType string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"

	// CustomerB2C places immediate orders; CustomerB2B submits quotations
	// against credit terms instead.
	CustomerB2C CustomerType = "b2c"
	CustomerB2B CustomerType = "b2b"
)

type User struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	Email        string       `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	Name         string       `gorm:"not null" json:"name"`
	CompanyName  string       `json:"company_name,omitempty"`
	Phone        string       `json:"phone"`
	Address      string       `json:"address"`
	Role         UserRole     `gorm:"type:varchar(20);default:'customer'" json:"role"`
	CustomerType CustomerType `gorm:"type:varchar(10);default:'b2c'" json:"customer_type"`

	// Credit terms; only meaningful for b2b customers. The checkout compares
	// outstanding balance + cart total against the limit and flags, never blocks.
	FinancialLimit     decimal.Decimal `gorm:"type:decimal(12,3);default:0" json:"financial_limit"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(12,3);default:0" json:"outstanding_balance"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Orders []Order `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
