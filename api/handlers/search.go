package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"

	"github.com/seojun-park/naverboard/internal/models"
	"github.com/seojun-park/naverboard/internal/services"
	"github.com/seojun-park/naverboard/internal/session"
	"github.com/seojun-park/naverboard/internal/utils"
)

const defaultPageSize = 20

// searchDomain carries the per-tab specifics of the shared blog/cafe flow.
type searchDomain struct {
	endpoint string
	sorts    map[string]bool
	paging   func(*session.State) *session.PagingState
}

var blogDomain = searchDomain{
	endpoint: services.EndpointBlog,
	sorts:    map[string]bool{"sim": true, "date": true},
	paging:   func(st *session.State) *session.PagingState { return &st.Blog },
}

var cafeDomain = searchDomain{
	endpoint: services.EndpointCafe,
	sorts:    map[string]bool{"sim": true, "date": true},
	paging:   func(st *session.State) *session.PagingState { return &st.Cafe },
}

// HandleBlogSearch serves POST /api/search/blog.
func (h *Handler) HandleBlogSearch(c *gin.Context) {
	h.handleSearch(c, blogDomain)
}

// HandleCafeSearch serves POST /api/search/cafe.
func (h *Handler) HandleCafeSearch(c *gin.Context) {
	h.handleSearch(c, cafeDomain)
}

func (h *Handler) handleSearch(c *gin.Context, domain searchDomain) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다.", "details": err.Error()})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "검색어를 입력하세요."})
		return
	}
	if req.Sort == "" {
		req.Sort = "sim"
	}
	if !domain.sorts[req.Sort] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("지원하지 않는 정렬입니다: %s", req.Sort)})
		return
	}
	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > services.APIPageSize {
		req.PageSize = services.APIPageSize
	}
	exact := true
	if req.Exact != nil {
		exact = *req.Exact
	}

	creds, err := h.credentials(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	st := session.FromContext(c)
	st.SyncQuery(req.Query)

	var page, start int
	st.Update(func(s *session.State) {
		ps := domain.paging(s)
		switch req.Nav {
		case "run":
			ps.Page, ps.Start = 1, 1
		case "next":
			if exact {
				ps.Page++
			} else {
				ps.Start += req.PageSize
			}
		case "prev":
			if exact {
				if ps.Page > 1 {
					ps.Page--
				}
			} else {
				ps.Start -= req.PageSize
				if ps.Start < 1 {
					ps.Start = 1
				}
			}
		}
		page, start = ps.Page, ps.Start
	})

	log.Printf("[INFO] search %s query=%q sort=%s pageSize=%d exact=%v nav=%q page=%d start=%d",
		domain.endpoint, req.Query, req.Sort, req.PageSize, exact, req.Nav, page, start)

	startTime := time.Now()
	highlight := utils.BuildHighlighter(req.Query)
	ctx := c.Request.Context()

	if exact {
		fetch := func(ctx context.Context, blockStart, display int) ([]models.Document, error) {
			payload, err := h.Search.Search(ctx, creds, domain.endpoint, req.Query, blockStart, display, req.Sort)
			if err != nil {
				return nil, err
			}
			return payload.Docs, nil
		}

		pr, err := services.CollectPage(ctx, fetch, req.Query, req.PageSize, page)
		if err != nil {
			abortWithError(c, err)
			return
		}
		renderDocs(pr.Items, highlight)

		notice := fmt.Sprintf("필터 모드 · 정확 일치 누적 %d건(≤1,000) · %d 페이지", pr.MatchedCount, page)
		if pr.Truncated {
			notice += " · 원격 오류로 일부 결과가 누락되었을 수 있습니다"
		}
		if len(pr.Items) == 0 {
			notice += " · 표시할 결과가 없습니다"
		}

		c.JSON(http.StatusOK, models.SearchResponse{
			Items:        pr.Items,
			Mode:         "exact",
			Page:         page,
			MatchedCount: pr.MatchedCount,
			HasPrev:      page > 1,
			HasNext:      pr.HasNext,
			Truncated:    pr.Truncated,
			Notice:       notice,
			ElapsedTime:  time.Since(startTime).Seconds(),
		})
		return
	}

	payload, err := h.Search.Search(ctx, creds, domain.endpoint, req.Query, start, req.PageSize, req.Sort)
	if err != nil {
		abortWithError(c, err)
		return
	}
	renderDocs(payload.Docs, highlight)

	reachable := payload.Total
	if reachable > services.APIStartMax {
		reachable = services.APIStartMax
	}
	shownTo := start + req.PageSize - 1
	if shownTo > payload.Total {
		shownTo = payload.Total
	}
	notice := fmt.Sprintf("일반 모드 · API 총 %d건 · 표시 %d~%d", payload.Total, start, shownTo)
	if len(payload.Docs) == 0 {
		notice += " · 표시할 결과가 없습니다"
	}

	c.JSON(http.StatusOK, models.SearchResponse{
		Items:       payload.Docs,
		Mode:        "plain",
		Start:       start,
		Total:       payload.Total,
		HasPrev:     start > 1,
		HasNext:     start+req.PageSize <= reachable,
		Notice:      notice,
		ElapsedTime: time.Since(startTime).Seconds(),
	})
}

// HandleLocalSearch serves GET /api/search/local. The local endpoint caps
// out at five items and offers no paging, so the handler is a single call.
func (h *Handler) HandleLocalSearch(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "검색어를 입력하세요."})
		return
	}
	sort := c.DefaultQuery("sort", "random")
	if sort != "random" && sort != "comment" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("지원하지 않는 정렬입니다: %s", sort)})
		return
	}

	creds, err := h.credentials(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	startTime := time.Now()
	payload, err := h.Search.Search(c.Request.Context(), creds, services.EndpointLocal,
		query, services.LocalStart, services.LocalDisplayMax, sort)
	if err != nil {
		abortWithError(c, err)
		return
	}

	highlight := utils.BuildHighlighter(query)
	renderDocs(payload.Docs, highlight)

	items := make([]*models.LocalItem, 0, len(payload.Docs))
	for _, d := range payload.Docs {
		if it, ok := d.(*models.LocalItem); ok {
			items = append(items, it)
		}
	}

	notice := "지역 API는 문서 기준으로 최대 5건만 반환하며 페이징을 제공하지 않습니다."
	if len(items) == 0 {
		notice = "표시할 결과가 없습니다."
	}

	c.JSON(http.StatusOK, models.LocalResponse{
		Items:       items,
		Total:       payload.Total,
		Notice:      notice,
		ElapsedTime: time.Since(startTime).Seconds(),
	})
}

// renderDocs fills the display HTML fields of each item. Rendering happens
// after match filtering and never influences it.
func renderDocs(docs []models.Document, highlight func(string) string) {
	for _, d := range docs {
		switch it := d.(type) {
		case *models.BlogItem:
			it.TitleHTML = highlight(it.Title)
			it.DescriptionHTML = highlight(it.Description)
		case *models.CafeItem:
			it.TitleHTML = highlight(it.Title)
			it.DescriptionHTML = highlight(it.Description)
		case *models.LocalItem:
			it.TitleHTML = highlight(it.Title)
			it.DescriptionHTML = highlight(it.Description)
			it.CategoryHTML = utils.MarkEmphasis(it.Category)
		}
	}
}
