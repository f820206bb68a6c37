package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/seojun-park/naverboard/internal/models"
	"github.com/seojun-park/naverboard/internal/services"
	"github.com/seojun-park/naverboard/internal/utils"
)

// CSV exports are stateless: the parameters arrive with the request and the
// view is recomputed through the response cache, so a download right after
// a search does not spend extra quota.

// HandleExportBlog serves GET /api/export/blog.csv.
func (h *Handler) HandleExportBlog(c *gin.Context) {
	docs, ok := h.exportSearchDocs(c, blogDomain)
	if !ok {
		return
	}
	items := make([]*models.BlogItem, 0, len(docs))
	for _, d := range docs {
		if it, isBlog := d.(*models.BlogItem); isBlog {
			items = append(items, it)
		}
	}
	writeCSVHeader(c, "naver_blog_results.csv")
	if err := utils.WriteBlogCSV(c.Writer, items); err != nil {
		abortWithError(c, err)
	}
}

// HandleExportCafe serves GET /api/export/cafe.csv.
func (h *Handler) HandleExportCafe(c *gin.Context) {
	docs, ok := h.exportSearchDocs(c, cafeDomain)
	if !ok {
		return
	}
	items := make([]*models.CafeItem, 0, len(docs))
	for _, d := range docs {
		if it, isCafe := d.(*models.CafeItem); isCafe {
			items = append(items, it)
		}
	}
	writeCSVHeader(c, "naver_cafe_results.csv")
	if err := utils.WriteCafeCSV(c.Writer, items); err != nil {
		abortWithError(c, err)
	}
}

// exportSearchDocs recomputes the currently shown blog/cafe page from query
// parameters. Reports false when it already wrote an error response.
func (h *Handler) exportSearchDocs(c *gin.Context, domain searchDomain) ([]models.Document, bool) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "검색어를 입력하세요."})
		return nil, false
	}
	sort := c.DefaultQuery("sort", "sim")
	if !domain.sorts[sort] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("지원하지 않는 정렬입니다: %s", sort)})
		return nil, false
	}
	pageSize := intQuery(c, "pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > services.APIPageSize {
		pageSize = services.APIPageSize
	}
	exact := c.DefaultQuery("exact", "true") == "true"

	creds, err := h.credentials(c)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	ctx := c.Request.Context()

	if exact {
		page := intQuery(c, "page", 1)
		if page < 1 {
			page = 1
		}
		fetch := func(ctx context.Context, blockStart, display int) ([]models.Document, error) {
			payload, err := h.Search.Search(ctx, creds, domain.endpoint, query, blockStart, display, sort)
			if err != nil {
				return nil, err
			}
			return payload.Docs, nil
		}
		pr, err := services.CollectPage(ctx, fetch, query, pageSize, page)
		if err != nil {
			abortWithError(c, err)
			return nil, false
		}
		return pr.Items, true
	}

	start := intQuery(c, "start", 1)
	if start < 1 {
		start = 1
	}
	payload, err := h.Search.Search(ctx, creds, domain.endpoint, query, start, pageSize, sort)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return payload.Docs, true
}

// HandleExportLocal serves GET /api/export/local.csv.
func (h *Handler) HandleExportLocal(c *gin.Context) {
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

	payload, err := h.Search.Search(c.Request.Context(), creds, services.EndpointLocal,
		query, services.LocalStart, services.LocalDisplayMax, sort)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items := make([]*models.LocalItem, 0, len(payload.Docs))
	for _, d := range payload.Docs {
		if it, ok := d.(*models.LocalItem); ok {
			items = append(items, it)
		}
	}
	writeCSVHeader(c, "naver_local_results.csv")
	if err := utils.WriteLocalCSV(c.Writer, items); err != nil {
		abortWithError(c, err)
	}
}

// trendExportRequest selects which DataLab view to export and carries the
// union of that view's parameters.
type trendExportRequest struct {
	Source string `json:"source"` // "search" (default), "categories", "keywords"

	Query      string              `json:"query,omitempty"`
	Keywords   []string            `json:"keywords,omitempty"`
	Categories []models.NamedParam `json:"categories,omitempty"`
	CategoryID string              `json:"categoryId,omitempty"`
	Pairs      []models.NamedParam `json:"pairs,omitempty"`

	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	TimeUnit  string   `json:"timeUnit,omitempty"`
	Device    string   `json:"device,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Ages      []string `json:"ages,omitempty"`
}

// HandleExportTrend serves POST /api/export/trend.csv for all three DataLab
// views.
func (h *Handler) HandleExportTrend(c *gin.Context) {
	var req trendExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다.", "details": err.Error()})
		return
	}

	w, err := validateTrendWindow(req.StartDate, req.EndDate, req.TimeUnit, req.Device, req.Gender, req.Ages)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creds, err := h.credentials(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ctx := c.Request.Context()

	var groups []models.TrendGroup
	filename := "naver_trend.csv"

	switch req.Source {
	case "", "search":
		keywords := req.Keywords
		if len(keywords) == 0 && strings.TrimSpace(req.Query) != "" {
			keywords = []string{strings.TrimSpace(req.Query)}
		}
		if len(keywords) == 0 || len(keywords) > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "키워드는 1~5개여야 합니다."})
			return
		}
		dlReq := services.TrendRequest{
			StartDate: w.startDate, EndDate: w.endDate, TimeUnit: w.timeUnit,
			Device: w.device, Ages: w.ages, Gender: w.gender,
		}
		for _, kw := range keywords {
			dlReq.KeywordGroups = append(dlReq.KeywordGroups, services.KeywordGroup{GroupName: kw, Keywords: []string{kw}})
		}
		groups, err = h.DataLab.SearchTrend(ctx, creds, dlReq)

	case "categories":
		cats := trimNamedParams(req.Categories)
		if len(cats) == 0 || len(cats) > 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "분야는 1~3개여야 합니다."})
			return
		}
		groups, err = h.DataLab.ShoppingCategories(ctx, creds, models.ShoppingCategoriesRequest{
			Categories: cats,
			StartDate:  w.startDate, EndDate: w.endDate, TimeUnit: w.timeUnit,
			Device: w.device, Ages: w.ages, Gender: w.gender,
		})
		filename = "naver_shopping_categories.csv"

	case "keywords":
		pairs := trimNamedParams(req.Pairs)
		if req.CategoryID == "" || len(pairs) == 0 || len(pairs) > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "카테고리 코드와 키워드(1~5개)가 필요합니다."})
			return
		}
		groups, err = h.DataLab.ShoppingKeywords(ctx, creds, models.ShoppingKeywordsRequest{
			CategoryID: req.CategoryID,
			Keywords:   pairs,
			StartDate:  w.startDate, EndDate: w.endDate, TimeUnit: w.timeUnit,
			Device: w.device, Ages: w.ages, Gender: w.gender,
		})
		filename = "naver_shopping_keywords.csv"

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("지원하지 않는 내보내기 유형입니다: %s", req.Source)})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	writeCSVHeader(c, filename)
	if err := utils.WriteTrendCSV(c.Writer, services.MergeTrend(groups)); err != nil {
		abortWithError(c, err)
	}
}

func writeCSVHeader(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
