package ingest

import (
	"fmt"
	"strings"

	pkgerrors "github.com/jedmarcnocum/spendledger-backend/pkg/errors"
)

// Table is a canonical view over one tabular sheet: lower-cased column names,
// header row stripped from the data. Column lookups are case-insensitive.
type Table struct {
	columns map[string]int
	rows    [][]string
}

// NewTable promotes the first row of a header-less sheet to column headers,
// lower-cases them, and drops that row from the data.
func NewTable(raw [][]string) (*Table, error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sheet has no header row")
	}
	return NewTableWithHeader(raw[0], raw[1:])
}

// NewTableWithHeader builds a table from an already-separated header row.
func NewTableWithHeader(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sheet has no columns")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	return &Table{columns: columns, rows: rows}, nil
}

// Require fails with a schema error when any named column is absent.
func (t *Table) Require(names ...string) error {
	missing := []string{}
	for _, name := range names {
		if _, ok := t.columns[strings.ToLower(name)]; !ok {
			missing = append(missing, strings.ToLower(name))
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("required columns missing after normalization: %s", strings.Join(missing, ", "))).
			WithDetails(map[string]any{"missing_columns": missing})
	}
	return nil
}

// Value returns the named cell of a row, or "" when the column is absent or
// the row is short (trailing empty cells are trimmed by the workbook reader).
func (t *Table) Value(row []string, name string) string {
	idx, ok := t.columns[strings.ToLower(name)]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Rows returns the data rows (header excluded).
func (t *Table) Rows() [][]string {
	return t.rows
}

// Len reports the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}
