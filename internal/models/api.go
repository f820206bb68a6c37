package models

// SearchRequest is the incoming blog/cafe search request.
type SearchRequest struct {
	Query    string `json:"query"`
	Sort     string `json:"sort"`
	PageSize int    `json:"pageSize,omitempty"`
	Exact    *bool  `json:"exact,omitempty"`
	Nav      string `json:"nav,omitempty"` // "", "run", "prev", "next"
}

// SearchResponse is the blog/cafe search response. Page/MatchedCount are set
// in exact mode, Start/Total in plain mode.
type SearchResponse struct {
	Items        interface{} `json:"items"`
	Mode         string      `json:"mode"` // "exact" or "plain"
	Page         int         `json:"page,omitempty"`
	Start        int         `json:"start,omitempty"`
	Total        int         `json:"total,omitempty"`
	MatchedCount int         `json:"matchedCount,omitempty"`
	HasPrev      bool        `json:"hasPrev"`
	HasNext      bool        `json:"hasNext"`
	Truncated    bool        `json:"truncated,omitempty"`
	Notice       string      `json:"notice"`
	ElapsedTime  float64     `json:"elapsedTime"`
}

// LocalResponse is the local business search response. The local endpoint
// returns at most five items and offers no paging.
type LocalResponse struct {
	Items       []*LocalItem `json:"items"`
	Total       int          `json:"total"`
	Notice      string       `json:"notice"`
	ElapsedTime float64      `json:"elapsedTime"`
}

// TrendAPIRequest is the incoming search trend request. Empty Keywords fall
// back to Query; empty dates default to the last 90 days.
type TrendAPIRequest struct {
	Query     string   `json:"query,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	TimeUnit  string   `json:"timeUnit,omitempty"`
	Device    string   `json:"device,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Ages      []string `json:"ages,omitempty"`
}

// NamedParam is a display name bound to one request parameter, e.g. a
// shopping category label and its cat_id, or a keyword group label and its
// search term.
type NamedParam struct {
	Name  string `json:"name"`
	Param string `json:"param"`
}

// ShoppingCategoriesRequest compares up to three shopping categories.
type ShoppingCategoriesRequest struct {
	Categories []NamedParam `json:"categories"`
	StartDate  string       `json:"startDate,omitempty"`
	EndDate    string       `json:"endDate,omitempty"`
	TimeUnit   string       `json:"timeUnit,omitempty"`
	Device     string       `json:"device,omitempty"`
	Gender     string       `json:"gender,omitempty"`
	Ages       []string     `json:"ages,omitempty"`
}

// ShoppingKeywordsRequest compares up to five keywords inside one category.
type ShoppingKeywordsRequest struct {
	CategoryID string       `json:"categoryId"`
	Keywords   []NamedParam `json:"keywords"`
	StartDate  string       `json:"startDate,omitempty"`
	EndDate    string       `json:"endDate,omitempty"`
	TimeUnit   string       `json:"timeUnit,omitempty"`
	Device     string       `json:"device,omitempty"`
	Gender     string       `json:"gender,omitempty"`
	Ages       []string     `json:"ages,omitempty"`
}

// TrendResponse carries the merged table plus the raw per-group series.
type TrendResponse struct {
	Table       TrendTable   `json:"table"`
	Groups      []TrendGroup `json:"groups"`
	Notice      string       `json:"notice,omitempty"`
	ElapsedTime float64      `json:"elapsedTime"`
}
