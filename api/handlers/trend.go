package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"

	"github.com/seojun-park/naverboard/internal/models"
	"github.com/seojun-park/naverboard/internal/services"
)

const dateLayout = "2006-01-02"

// trendWindow holds the validated common parameters of every DataLab call.
type trendWindow struct {
	startDate string
	endDate   string
	timeUnit  string
	device    string
	gender    string
	ages      []string
}

var validAges = map[string]bool{"10": true, "20": true, "30": true, "40": true, "50": true, "60": true}

// validateTrendWindow normalizes dates (defaulting to the last 90 days),
// and checks the enumerated fields, accumulating every problem instead of
// stopping at the first.
func validateTrendWindow(startDate, endDate, timeUnit, device, gender string, ages []string) (trendWindow, error) {
	var result *multierror.Error
	today := time.Now().Truncate(24 * time.Hour)

	w := trendWindow{startDate: startDate, endDate: endDate, timeUnit: timeUnit, device: device, gender: gender, ages: ages}
	if w.startDate == "" {
		w.startDate = today.AddDate(0, 0, -90).Format(dateLayout)
	}
	if w.endDate == "" {
		w.endDate = today.Format(dateLayout)
	}
	if w.timeUnit == "" {
		w.timeUnit = "date"
	}

	start, err := time.Parse(dateLayout, w.startDate)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("시작일 형식이 올바르지 않습니다 (YYYY-MM-DD): %s", w.startDate))
	}
	end, err := time.Parse(dateLayout, w.endDate)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("종료일 형식이 올바르지 않습니다 (YYYY-MM-DD): %s", w.endDate))
	} else {
		if end.After(today) {
			result = multierror.Append(result, fmt.Errorf("종료일은 오늘 이후일 수 없습니다: %s", w.endDate))
		}
		if !start.IsZero() && start.After(end) {
			result = multierror.Append(result, fmt.Errorf("시작일이 종료일보다 늦습니다: %s > %s", w.startDate, w.endDate))
		}
	}

	switch w.timeUnit {
	case "date", "week", "month":
	default:
		result = multierror.Append(result, fmt.Errorf("단위는 date/week/month 중 하나여야 합니다: %s", w.timeUnit))
	}
	switch w.device {
	case "", "pc", "mo":
	default:
		result = multierror.Append(result, fmt.Errorf("디바이스는 pc/mo 중 하나여야 합니다: %s", w.device))
	}
	switch w.gender {
	case "", "m", "f":
	default:
		result = multierror.Append(result, fmt.Errorf("성별은 m/f 중 하나여야 합니다: %s", w.gender))
	}
	for _, a := range w.ages {
		if !validAges[a] {
			result = multierror.Append(result, fmt.Errorf("지원하지 않는 연령대입니다: %s", a))
		}
	}

	return w, result.ErrorOrNil()
}

// HandleTrend serves POST /api/trend: search volume trend for up to five
// keywords, merged into one table on the period axis.
func (h *Handler) HandleTrend(c *gin.Context) {
	var req models.TrendAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다.", "details": err.Error()})
		return
	}

	keywords := make([]string, 0, len(req.Keywords))
	for _, k := range req.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 && strings.TrimSpace(req.Query) != "" {
		keywords = []string{strings.TrimSpace(req.Query)}
	}

	var result *multierror.Error
	if len(keywords) == 0 {
		result = multierror.Append(result, fmt.Errorf("키워드를 입력하세요"))
	}
	if len(keywords) > 5 {
		result = multierror.Append(result, fmt.Errorf("키워드는 최대 5개까지 지원합니다 (현재 %d개)", len(keywords)))
	}
	w, err := validateTrendWindow(req.StartDate, req.EndDate, req.TimeUnit, req.Device, req.Gender, req.Ages)
	if err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creds, err := h.credentials(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	dlReq := services.TrendRequest{
		StartDate: w.startDate,
		EndDate:   w.endDate,
		TimeUnit:  w.timeUnit,
		Device:    w.device,
		Ages:      w.ages,
		Gender:    w.gender,
	}
	for _, kw := range keywords {
		dlReq.KeywordGroups = append(dlReq.KeywordGroups, services.KeywordGroup{GroupName: kw, Keywords: []string{kw}})
	}

	startTime := time.Now()
	groups, err := h.DataLab.SearchTrend(c.Request.Context(), creds, dlReq)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.respondTrend(c, groups, startTime)
}

// HandleShoppingCategories serves POST /api/shopping/categories: click
// trends for up to three shopping categories.
func (h *Handler) HandleShoppingCategories(c *gin.Context) {
	var req models.ShoppingCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다.", "details": err.Error()})
		return
	}

	var result *multierror.Error
	req.Categories = trimNamedParams(req.Categories)
	if len(req.Categories) == 0 {
		result = multierror.Append(result, fmt.Errorf("'분야 이름=코드' 형식으로 1개 이상 입력하세요"))
	}
	if len(req.Categories) > 3 {
		result = multierror.Append(result, fmt.Errorf("분야는 최대 3개까지 지원합니다 (현재 %d개)", len(req.Categories)))
	}
	w, err := validateTrendWindow(req.StartDate, req.EndDate, req.TimeUnit, req.Device, req.Gender, req.Ages)
	if err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creds, err := h.credentials(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	req.StartDate, req.EndDate, req.TimeUnit = w.startDate, w.endDate, w.timeUnit

	startTime := time.Now()
	groups, err := h.DataLab.ShoppingCategories(c.Request.Context(), creds, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.respondTrend(c, groups, startTime)
}

// HandleShoppingKeywords serves POST /api/shopping/keywords: click trends
// for up to five keywords within one shopping category.
func (h *Handler) HandleShoppingKeywords(c *gin.Context) {
	var req models.ShoppingKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다.", "details": err.Error()})
		return
	}

	var result *multierror.Error
	req.CategoryID = strings.TrimSpace(req.CategoryID)
	req.Keywords = trimNamedParams(req.Keywords)
	if req.CategoryID == "" {
		result = multierror.Append(result, fmt.Errorf("카테고리 코드(cat_id)를 입력하세요"))
	}
	if len(req.Keywords) == 0 {
		result = multierror.Append(result, fmt.Errorf("'그룹이름=검색어' 형식으로 1개 이상 입력하세요"))
	}
	if len(req.Keywords) > 5 {
		result = multierror.Append(result, fmt.Errorf("키워드는 최대 5개까지 지원합니다 (현재 %d개)", len(req.Keywords)))
	}
	w, err := validateTrendWindow(req.StartDate, req.EndDate, req.TimeUnit, req.Device, req.Gender, req.Ages)
	if err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creds, err := h.credentials(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	req.StartDate, req.EndDate, req.TimeUnit = w.startDate, w.endDate, w.timeUnit

	startTime := time.Now()
	groups, err := h.DataLab.ShoppingKeywords(c.Request.Context(), creds, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.respondTrend(c, groups, startTime)
}

func (h *Handler) respondTrend(c *gin.Context, groups []models.TrendGroup, startTime time.Time) {
	table := services.MergeTrend(groups)
	resp := models.TrendResponse{
		Table:       table,
		Groups:      groups,
		ElapsedTime: time.Since(startTime).Seconds(),
	}
	if table.Empty() {
		resp.Notice = "표시할 트렌드 데이터가 없습니다. (키워드/기간 확인)"
	}
	c.JSON(http.StatusOK, resp)
}

func trimNamedParams(in []models.NamedParam) []models.NamedParam {
	out := make([]models.NamedParam, 0, len(in))
	for _, p := range in {
		p.Name = strings.TrimSpace(p.Name)
		p.Param = strings.TrimSpace(p.Param)
		if p.Name != "" && p.Param != "" {
			out = append(out, p)
		}
	}
	return out
}
