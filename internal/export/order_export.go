// Package export renders admin reports as XLSX workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
)

var orderHeaders = []string{
	"Numéro", "Type", "Statut", "Client", "Société", "Sous-total (TND)",
	"TVA (TND)", "Total (TND)", "Dépassement crédit", "Date",
}

// OrdersWorkbook builds a one-sheet workbook listing orders and quotations.
// The caller owns the returned file and must Close it.
func OrdersWorkbook(orders []model.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Documents"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range orderHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, order := range orders {
		row := i + 2
		values := []interface{}{
			order.Number,
			documentTypeLabel(order.DocumentType),
			string(order.Status),
			order.User.Name,
			order.User.CompanyName,
			order.Subtotal.InexactFloat64(),
			order.TaxAmount.InexactFloat64(),
			order.TotalAmount.InexactFloat64(),
			creditFlagLabel(order.CreditLimitExceeded),
			order.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// Filename derives the download name for a document export.
func Filename(documentType model.DocumentType, date string) string {
	switch documentType {
	case model.DocumentOrder:
		return fmt.Sprintf("commandes_%s.xlsx", date)
	case model.DocumentQuotation:
		return fmt.Sprintf("devis_%s.xlsx", date)
	default:
		return fmt.Sprintf("documents_%s.xlsx", date)
	}
}

func documentTypeLabel(documentType model.DocumentType) string {
	if documentType == model.DocumentQuotation {
		return "Devis"
	}
	return "Commande"
}

func creditFlagLabel(exceeded bool) string {
	if exceeded {
		return "Oui"
	}
	return "Non"
}
