package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojun-park/naverboard/internal/models"
)

func ratio(v float64) *float64 { return &v }

func TestMergeTrendOuterJoin(t *testing.T) {
	groups := []models.TrendGroup{
		{Title: "A", Data: []models.TrendPoint{
			{Period: "2026-01-01", Ratio: ratio(10)},
			{Period: "2026-01-02", Ratio: ratio(20)},
		}},
		{Title: "B", Data: []models.TrendPoint{
			{Period: "2026-01-02", Ratio: ratio(30)},
			{Period: "2026-01-03", Ratio: ratio(40)},
		}},
	}

	table := MergeTrend(groups)
	require.Equal(t, []string{"A", "B"}, table.Columns)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, "2026-01-01", table.Rows[0].Period)
	assert.Equal(t, "2026-01-02", table.Rows[1].Period)
	assert.Equal(t, "2026-01-03", table.Rows[2].Period)

	// B has no sample at d1, A none at d3.
	assert.Equal(t, 10.0, *table.Rows[0].Ratios[0])
	assert.Nil(t, table.Rows[0].Ratios[1])
	assert.Equal(t, 20.0, *table.Rows[1].Ratios[0])
	assert.Equal(t, 30.0, *table.Rows[1].Ratios[1])
	assert.Nil(t, table.Rows[2].Ratios[0])
	assert.Equal(t, 40.0, *table.Rows[2].Ratios[1])
}

func TestMergeTrendDropsUnusableGroups(t *testing.T) {
	groups := []models.TrendGroup{
		{Title: "empty"},
		{Title: "no usable points", Data: []models.TrendPoint{
			{Period: "", Ratio: ratio(1)},
			{Period: "2026-01-01", Ratio: nil},
		}},
		{Title: "ok", Data: []models.TrendPoint{
			{Period: "2026-01-01", Ratio: ratio(5)},
		}},
	}

	table := MergeTrend(groups)
	assert.Equal(t, []string{"ok"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 5.0, *table.Rows[0].Ratios[0])
}

func TestMergeTrendEmpty(t *testing.T) {
	assert.True(t, MergeTrend(nil).Empty())
	assert.True(t, MergeTrend([]models.TrendGroup{{Title: "a"}}).Empty())
}

func TestMergeTrendGroupNameFallback(t *testing.T) {
	pts := []models.TrendPoint{{Period: "2026-01-01", Ratio: ratio(1)}}

	table := MergeTrend([]models.TrendGroup{
		{Title: "titled", Data: pts},
		{Keywords: []string{"kw1", "kw2"}, Data: pts},
		{Data: pts},
	})
	assert.Equal(t, []string{"titled", "kw1", "keyword"}, table.Columns)
}

func TestMergeTrendSortsPeriods(t *testing.T) {
	table := MergeTrend([]models.TrendGroup{
		{Title: "A", Data: []models.TrendPoint{
			{Period: "2026-02-01", Ratio: ratio(2)},
			{Period: "2025-12-01", Ratio: ratio(1)},
			{Period: "2026-01-01", Ratio: ratio(3)},
		}},
	})
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "2025-12-01", table.Rows[0].Period)
	assert.Equal(t, "2026-01-01", table.Rows[1].Period)
	assert.Equal(t, "2026-02-01", table.Rows[2].Period)
}
