package ingest

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryTotal is a customer's spend within one category.
type CategoryTotal struct {
	CustomerID   string
	CustomerName string
	Category     string
	Total        decimal.Decimal
}

// TopSpender is the single highest-spending customer within one category.
type TopSpender struct {
	Category     string
	CustomerID   string
	CustomerName string
	Total        decimal.Decimal
}

// RankedCustomer is one leaderboard entry. Rank is dense: ties share a rank
// and occupied ranks have no gaps.
type RankedCustomer struct {
	CustomerID   string
	CustomerName string
	Total        decimal.Decimal
	Rank         int
}

// AggregateResult bundles the three derived views of one batch.
type AggregateResult struct {
	CategoryTotals []CategoryTotal
	TopSpenders    []TopSpender
	Ranking        []RankedCustomer
}

// Aggregate computes the reporting views from unified rows. Pure; rows with an
// invalid amount contribute nothing to any sum. Totals stay unrounded here and
// ranks are computed on the unrounded values; display rounding belongs to the
// outward DTOs.
func Aggregate(rows []Unified) *AggregateResult {
	type groupKey struct {
		customerID string
		category   string
	}

	totals := map[groupKey]decimal.Decimal{}
	names := map[string]string{}
	for _, row := range rows {
		names[row.CustomerID] = row.CustomerName
		key := groupKey{customerID: row.CustomerID, category: row.Category}
		// A group whose every amount failed coercion still appears, with a
		// zero total.
		if _, ok := totals[key]; !ok {
			totals[key] = decimal.Zero
		}
		if !row.AmountValid {
			continue
		}
		totals[key] = totals[key].Add(row.Amount)
	}

	categoryTotals := make([]CategoryTotal, 0, len(totals))
	for key, total := range totals {
		categoryTotals = append(categoryTotals, CategoryTotal{
			CustomerID:   key.customerID,
			CustomerName: names[key.customerID],
			Category:     key.category,
			Total:        total,
		})
	}
	// Grouped-and-sorted iteration order; the top-spender tie-break below
	// depends on it being deterministic.
	sort.Slice(categoryTotals, func(i, j int) bool {
		if categoryTotals[i].CustomerID != categoryTotals[j].CustomerID {
			return categoryTotals[i].CustomerID < categoryTotals[j].CustomerID
		}
		return categoryTotals[i].Category < categoryTotals[j].Category
	})

	return &AggregateResult{
		CategoryTotals: categoryTotals,
		TopSpenders:    topSpenders(categoryTotals),
		Ranking:        rankCustomers(categoryTotals, names),
	}
}

// topSpenders picks, per category, the first row holding the maximum total in
// the sorted category-totals order. Ties keep the first occurrence, not an
// arbitrary pick.
func topSpenders(categoryTotals []CategoryTotal) []TopSpender {
	best := map[string]CategoryTotal{}
	order := []string{}
	for _, ct := range categoryTotals {
		current, seen := best[ct.Category]
		if !seen {
			best[ct.Category] = ct
			order = append(order, ct.Category)
			continue
		}
		if ct.Total.GreaterThan(current.Total) {
			best[ct.Category] = ct
		}
	}

	sort.Strings(order)
	result := make([]TopSpender, 0, len(order))
	for _, category := range order {
		ct := best[category]
		result = append(result, TopSpender{
			Category:     category,
			CustomerID:   ct.CustomerID,
			CustomerName: ct.CustomerName,
			Total:        ct.Total,
		})
	}
	return result
}

// rankCustomers sums each customer across categories and dense-ranks the sums
// descending: equal totals share a rank, and rank values start at 1 with no
// gaps. Output is ascending by rank, customer id breaking ties stably.
func rankCustomers(categoryTotals []CategoryTotal, names map[string]string) []RankedCustomer {
	sums := map[string]decimal.Decimal{}
	for _, ct := range categoryTotals {
		sums[ct.CustomerID] = sums[ct.CustomerID].Add(ct.Total)
	}

	ranking := make([]RankedCustomer, 0, len(sums))
	for customerID, total := range sums {
		ranking = append(ranking, RankedCustomer{
			CustomerID:   customerID,
			CustomerName: names[customerID],
			Total:        total,
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if !ranking[i].Total.Equal(ranking[j].Total) {
			return ranking[i].Total.GreaterThan(ranking[j].Total)
		}
		return ranking[i].CustomerID < ranking[j].CustomerID
	})

	rank := 0
	for i := range ranking {
		if i == 0 || !ranking[i].Total.Equal(ranking[i-1].Total) {
			rank++
		}
		ranking[i].Rank = rank
	}
	return ranking
}
