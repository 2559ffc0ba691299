package views

import (
	"html/template"

	"edupayhub/internal/core/domain"
	"edupayhub/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// Row is one rendered line of the transaction table
type Row struct {
	Number int
	Tx     domain.PaymentTransaction
}

// Rows numbers items as rows of page
func Rows(items []domain.PaymentTransaction, page, perPage int) []Row {
	rows := make([]Row, len(items))
	for i, item := range items {
		rows[i] = Row{Number: pagination.RowNumber(page, perPage, i), Tx: item}
	}
	return rows
}

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":        money,
		"statusClass":  statusClass,
		"variantClass": variantClass,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func statusClass(status string) string {
	switch status {
	case domain.StatusSuccess:
		return "badge badge-success"
	case domain.StatusPending:
		return "badge badge-pending"
	default:
		return "badge badge-failed"
	}
}

func variantClass(variant string) string {
	if variant == domain.VariantDestructive {
		return "toast toast-destructive"
	}
	return "toast"
}
