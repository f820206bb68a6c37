package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/seojun-park/naverboard/internal/models"
)

// CSV exports mirror the dashboard tables: Korean headers, emphasis markup
// stripped, one row per item. Output is plain UTF-8.

// WriteBlogCSV writes blog results as 제목/요약/블로거/작성일/URL.
func WriteBlogCSV(w io.Writer, items []*models.BlogItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"제목", "요약", "블로거", "작성일", "URL"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range items {
		row := []string{StripBTags(it.Title), StripBTags(it.Description), it.BloggerName, it.PostDate, it.Link}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCafeCSV writes cafe results. Cafe articles carry no date, so the
// 작성일 column stays empty to keep the layout aligned with the blog export.
func WriteCafeCSV(w io.Writer, items []*models.CafeItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"제목", "요약", "카페", "작성일", "URL"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range items {
		row := []string{StripBTags(it.Title), StripBTags(it.Description), it.CafeName, "", it.Link}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLocalCSV writes local business results with both address forms and
// the raw map coordinates.
func WriteLocalCSV(w io.Writer, items []*models.LocalItem) error {
	cw := csv.NewWriter(w)
	header := []string{"업체명", "카테고리", "설명", "지번주소", "도로명주소", "URL", "mapx", "mapy"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range items {
		row := []string{
			StripBTags(it.Title), StripBTags(it.Category), StripBTags(it.Description),
			it.Address, it.RoadAddress, it.Link, it.MapX, it.MapY,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrendCSV writes a merged trend table: period first, then one column
// per group. Missing samples become empty cells.
func WriteTrendCSV(w io.Writer, table models.TrendTable) error {
	cw := csv.NewWriter(w)
	header := append([]string{"period"}, table.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range table.Rows {
		row := make([]string, 0, len(r.Ratios)+1)
		row = append(row, r.Period)
		for _, v := range r.Ratios {
			if v == nil {
				row = append(row, "")
			} else {
				row = append(row, strconv.FormatFloat(*v, 'f', -1, 64))
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
