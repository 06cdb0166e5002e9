package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
)

func TestOrdersWorkbook(t *testing.T) {
	orders := []model.Order{
		{
			Number:       "ORD-20260829-AB12CD",
			DocumentType: model.DocumentOrder,
			Status:       model.StatusPending,
			Subtotal:     decimal.NewFromInt(30),
			TaxAmount:    decimal.NewFromFloat(5.7),
			TotalAmount:  decimal.NewFromFloat(35.7),
			CreatedAt:    time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
			User:         model.User{Name: "Client Détail"},
		},
		{
			Number:              "QUO-20260829-EF34GH",
			DocumentType:        model.DocumentQuotation,
			Status:              model.StatusPendingApproval,
			Subtotal:            decimal.NewFromInt(90),
			TaxAmount:           decimal.NewFromFloat(17.1),
			TotalAmount:         decimal.NewFromFloat(107.1),
			CreditLimitExceeded: true,
			CreatedAt:           time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC),
			User:                model.User{Name: "Entreprise BTP", CompanyName: "BTP Construction SARL"},
		},
	}

	f, err := OrdersWorkbook(orders)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Numéro", rows[0][0])
	assert.Equal(t, "ORD-20260829-AB12CD", rows[1][0])
	assert.Equal(t, "Commande", rows[1][1])
	assert.Equal(t, "QUO-20260829-EF34GH", rows[2][0])
	assert.Equal(t, "Devis", rows[2][1])
	assert.Equal(t, "BTP Construction SARL", rows[2][4])
	assert.Equal(t, "Oui", rows[2][8])
}

func TestOrdersWorkbook_Empty(t *testing.T) {
	f, err := OrdersWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Documents")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "commandes_2026-08-29.xlsx", Filename(model.DocumentOrder, "2026-08-29"))
	assert.Equal(t, "devis_2026-08-29.xlsx", Filename(model.DocumentQuotation, "2026-08-29"))
	assert.Equal(t, "documents_2026-08-29.xlsx", Filename("", "2026-08-29"))
}
