package ingest

import (
	"strings"

	"github.com/jedmarcnocum/spendledger-backend/internal/decode"
	"github.com/shopspring/decimal"
)

// Unified is one transaction joined to its product and customer. It exists
// only in memory for aggregation and is never persisted.
type Unified struct {
	CustomerID   string
	CustomerName string
	ProductCode  string
	Category     string
	Amount       decimal.Decimal
	// AmountValid is false when the source cell did not parse as a number;
	// such rows stay in the unified set but are excluded from every sum.
	AmountValid bool
}

// ReconcileResult carries the unified rows plus the count of transactions the
// inner joins dropped. Dropping unmatched rows is a property of the pipeline,
// not a defect: they contribute nothing to any total.
type ReconcileResult struct {
	Rows    []Unified
	Dropped int
}

// Reconcile inner-joins transactions to products on product_code, then to the
// decoded customers on customer_id. Amount coercion happens after the joins.
func Reconcile(transactions, products *Table, customers []decode.Record) (*ReconcileResult, error) {
	if err := transactions.Require("customer_id", "product_code", "amount"); err != nil {
		return nil, err
	}
	if err := products.Require("product_code", "category"); err != nil {
		return nil, err
	}

	categoryByCode := make(map[string]string, products.Len())
	for _, row := range products.Rows() {
		code := strings.TrimSpace(products.Value(row, "product_code"))
		if code == "" {
			continue
		}
		categoryByCode[code] = strings.TrimSpace(products.Value(row, "category"))
	}

	nameByCustomer := make(map[string]string, len(customers))
	for _, c := range customers {
		nameByCustomer[c.CustomerID] = c.Name
	}

	result := &ReconcileResult{}
	for _, row := range transactions.Rows() {
		customerID := strings.TrimSpace(transactions.Value(row, "customer_id"))
		productCode := strings.TrimSpace(transactions.Value(row, "product_code"))

		category, productOK := categoryByCode[productCode]
		name, customerOK := nameByCustomer[customerID]
		if !productOK || !customerOK {
			result.Dropped++
			continue
		}

		unified := Unified{
			CustomerID:   customerID,
			CustomerName: name,
			ProductCode:  productCode,
			Category:     category,
		}
		raw := strings.TrimSpace(transactions.Value(row, "amount"))
		if amount, err := decimal.NewFromString(raw); err == nil {
			unified.Amount = amount
			unified.AmountValid = true
		}
		result.Rows = append(result.Rows, unified)
	}
	return result, nil
}
