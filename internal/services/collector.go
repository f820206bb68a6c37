package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/seojun-park/naverboard/internal/models"
	"github.com/seojun-park/naverboard/internal/utils"
)

// FetchBlock retrieves one raw block of up to display items at the given
// 1-based start offset, in backend order.
type FetchBlock func(ctx context.Context, start, display int) ([]models.Document, error)

// CollectPage materializes page pageIndex (1-based, pageSize items wide) of
// the items whose markup-stripped title or description contains query
// verbatim, case-sensitive. The backend only offers unfiltered offset/limit
// pagination in blocks of 100 with offsets capped at 1000, so the collector
// probes raw blocks in order, accumulating matches until it has one more
// than the requested page needs (the extra match proves a next page
// exists), the backend runs out of items, or the offset cap is reached.
//
// A fetch error on the very first block propagates to the caller. An error
// after at least one successful block stops the probe and returns what was
// accumulated, with Truncated set so callers can tell a cut-short probe
// from an exhausted backend.
func CollectPage(ctx context.Context, fetch FetchBlock, query string, pageSize, pageIndex int) (*models.PageResult, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("pageSize must be >= 1, got %d", pageSize)
	}
	if pageIndex < 1 {
		return nil, fmt.Errorf("pageIndex must be >= 1, got %d", pageIndex)
	}

	needed := pageIndex*pageSize + 1
	var matched []models.Document
	truncated := false

	for start := 1; start <= APIStartMax; start += APIPageSize {
		docs, err := fetch(ctx, start, APIPageSize)
		if err != nil {
			if start == 1 {
				return nil, err
			}
			truncated = true
			break
		}
		if len(docs) == 0 {
			break
		}

		for _, doc := range docs {
			title := utils.StripBTags(doc.DocTitle())
			desc := utils.StripBTags(doc.DocDescription())
			if strings.Contains(title, query) || strings.Contains(desc, query) {
				matched = append(matched, doc)
				if len(matched) >= needed {
					break
				}
			}
		}
		if len(matched) >= needed || len(docs) < APIPageSize {
			break
		}
	}

	lo := (pageIndex - 1) * pageSize
	hi := lo + pageSize
	var page []models.Document
	if lo < len(matched) {
		if hi > len(matched) {
			hi = len(matched)
		}
		page = matched[lo:hi]
	}

	return &models.PageResult{
		Items:        page,
		HasNext:      len(matched) > pageIndex*pageSize,
		MatchedCount: len(matched),
		Truncated:    truncated,
	}, nil
}
