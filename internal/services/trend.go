package services

import (
	"sort"

	"github.com/seojun-park/naverboard/internal/models"
)

// MergeTrend reshapes independent per-group time series into one wide table
// aligned on the period axis via outer join, sorted ascending by period.
// Samples missing their period or ratio are dropped; a group with no usable
// samples contributes no column. Zero surviving groups yield an empty
// table, which callers treat as "no data" rather than an error.
func MergeTrend(groups []models.TrendGroup) models.TrendTable {
	var table models.TrendTable
	periodSet := map[string]struct{}{}
	// column index -> period -> ratio
	columns := []map[string]*float64{}

	for _, g := range groups {
		values := map[string]*float64{}
		for _, p := range g.Data {
			if p.Period == "" || p.Ratio == nil {
				continue
			}
			values[p.Period] = p.Ratio
		}
		if len(values) == 0 {
			continue
		}

		table.Columns = append(table.Columns, groupName(g))
		columns = append(columns, values)
		for period := range values {
			periodSet[period] = struct{}{}
		}
	}
	if len(columns) == 0 {
		return models.TrendTable{}
	}

	periods := make([]string, 0, len(periodSet))
	for p := range periodSet {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	for _, period := range periods {
		row := models.TrendRow{Period: period, Ratios: make([]*float64, len(columns))}
		for i, values := range columns {
			row.Ratios[i] = values[period]
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// groupName picks a display name for a series: the response title, else the
// first keyword, else a generic placeholder.
func groupName(g models.TrendGroup) string {
	if g.Title != "" {
		return g.Title
	}
	if len(g.Keywords) > 0 && g.Keywords[0] != "" {
		return g.Keywords[0]
	}
	return "keyword"
}
