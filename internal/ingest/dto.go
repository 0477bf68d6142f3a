package ingest

// CategoryTotalDTO is one (customer, category) spend line of the batch report.
type CategoryTotalDTO struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Category     string `json:"category"`
	TotalAmount  string `json:"total_amount"`
}

// TopSpenderDTO names the highest spender within one category.
type TopSpenderDTO struct {
	Category     string `json:"category"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	TotalAmount  string `json:"total_amount"`
}

// RankedCustomerDTO is one leaderboard entry, densely ranked.
type RankedCustomerDTO struct {
	Rank         int    `json:"rank"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	TotalAmount  string `json:"total_amount"`
}

// SkippedLineDTO reports one customer line the packed decoder rejected.
type SkippedLineDTO struct {
	LineIndex int    `json:"line_index"`
	Reason    string `json:"reason"`
}

// BatchReport is the full outcome of one ingested workbook. It is computed
// entirely in memory and returned even when the directory write fails, in
// which case Persisted is false and BatchID is zero.
type BatchReport struct {
	BatchID              int64               `json:"batch_id,omitempty"`
	Filename             string              `json:"filename"`
	DecoderMode          string              `json:"decoder_mode"`
	TransactionsRowCount int                 `json:"transactions_row_count"`
	CustomersRowCount    int                 `json:"customers_row_count"`
	ProductsRowCount     int                 `json:"products_row_count"`
	SkippedLines         []SkippedLineDTO    `json:"skipped_lines,omitempty"`
	DroppedRows          int                 `json:"dropped_rows"`
	AddressChanges       int                 `json:"address_changes"`
	Persisted            bool                `json:"persisted"`
	CategoryTotals       []CategoryTotalDTO  `json:"category_totals"`
	TopSpenders          []TopSpenderDTO     `json:"top_spenders"`
	CustomerRanking      []RankedCustomerDTO `json:"customer_ranking"`
}

func toReportViews(agg *AggregateResult) ([]CategoryTotalDTO, []TopSpenderDTO, []RankedCustomerDTO) {
	totals := make([]CategoryTotalDTO, 0, len(agg.CategoryTotals))
	for _, ct := range agg.CategoryTotals {
		totals = append(totals, CategoryTotalDTO{
			CustomerID:   ct.CustomerID,
			CustomerName: ct.CustomerName,
			Category:     ct.Category,
			TotalAmount:  ct.Total.StringFixed(2),
		})
	}

	spenders := make([]TopSpenderDTO, 0, len(agg.TopSpenders))
	for _, ts := range agg.TopSpenders {
		spenders = append(spenders, TopSpenderDTO{
			Category:     ts.Category,
			CustomerID:   ts.CustomerID,
			CustomerName: ts.CustomerName,
			TotalAmount:  ts.Total.StringFixed(2),
		})
	}

	ranking := make([]RankedCustomerDTO, 0, len(agg.Ranking))
	for _, rc := range agg.Ranking {
		ranking = append(ranking, RankedCustomerDTO{
			Rank:         rc.Rank,
			CustomerID:   rc.CustomerID,
			CustomerName: rc.CustomerName,
			TotalAmount:  rc.Total.StringFixed(2),
		})
	}
	return totals, spenders, ranking
}
