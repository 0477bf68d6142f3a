package ingest

import (
	"fmt"
	"io"

	"github.com/jedmarcnocum/spendledger-backend/pkg/config"
	pkgerrors "github.com/jedmarcnocum/spendledger-backend/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Workbook holds the raw rows of the three sheets one batch extract carries.
type Workbook struct {
	Transactions [][]string
	Customers    [][]string
	Products     [][]string
}

// ReadWorkbook parses an uploaded .xlsx stream into the three required sheets.
// A workbook missing any of them fails before any further processing.
func ReadWorkbook(r io.Reader, cfg config.UploadConfig) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is not a readable workbook")
	}
	defer f.Close()

	present := map[string]bool{}
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	required := []string{cfg.TransactionsSheet, cfg.CustomersSheet, cfg.ProductsSheet}
	missing := []string{}
	for _, name := range required {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("workbook must contain %s, %s, and %s sheets",
				cfg.TransactionsSheet, cfg.CustomersSheet, cfg.ProductsSheet)).
			WithDetails(map[string]any{"missing_sheets": missing})
	}

	wb := &Workbook{}
	if wb.Transactions, err = f.GetRows(cfg.TransactionsSheet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading transactions sheet")
	}
	if wb.Customers, err = f.GetRows(cfg.CustomersSheet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading customers sheet")
	}
	if wb.Products, err = f.GetRows(cfg.ProductsSheet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading products sheet")
	}
	return wb, nil
}

// CustomerLines extracts the single packed-string column from the customers
// sheet, skipping its header row.
func (w *Workbook) CustomerLines() []string {
	if len(w.Customers) <= 1 {
		return nil
	}
	lines := make([]string, 0, len(w.Customers)-1)
	for _, row := range w.Customers[1:] {
		if len(row) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, row[0])
	}
	return lines
}
