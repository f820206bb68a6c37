package models

// Document is the narrow view of a search result the filtering core is
// allowed to inspect. Everything else on an item passes through untouched.
type Document interface {
	DocTitle() string
	DocDescription() string
}

// BlogItem is one result from the blog search endpoint.
type BlogItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	BloggerName string `json:"bloggername"`
	BloggerLink string `json:"bloggerlink"`
	PostDate    string `json:"postdate"`

	// Server-rendered display HTML, populated at the handler edge.
	TitleHTML       string `json:"titleHtml,omitempty"`
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
}

func (b *BlogItem) DocTitle() string       { return b.Title }
func (b *BlogItem) DocDescription() string { return b.Description }

// CafeItem is one result from the cafe article search endpoint. Cafe
// articles carry no post date.
type CafeItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	CafeName    string `json:"cafename"`
	CafeURL     string `json:"cafeurl"`

	TitleHTML       string `json:"titleHtml,omitempty"`
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
}

func (c *CafeItem) DocTitle() string       { return c.Title }
func (c *CafeItem) DocDescription() string { return c.Description }

// LocalItem is one result from the local business search endpoint.
type LocalItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Telephone   string `json:"telephone"`
	Address     string `json:"address"`
	RoadAddress string `json:"roadAddress"`
	MapX        string `json:"mapx"`
	MapY        string `json:"mapy"`

	TitleHTML       string `json:"titleHtml,omitempty"`
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
	CategoryHTML    string `json:"categoryHtml,omitempty"`
}

func (l *LocalItem) DocTitle() string       { return l.Title }
func (l *LocalItem) DocDescription() string { return l.Description }

// PageResult is the outcome of one exact-match aggregation run.
// MatchedCount is the number of matches discovered during the run, a lower
// bound on the true total since probing stops at the backend's 1000-item cap
// or as soon as the requested page is satisfied. Truncated reports that the
// probe was cut short by a failed block fetch rather than by exhaustion.
type PageResult struct {
	Items        []Document `json:"items"`
	HasNext      bool       `json:"hasNext"`
	MatchedCount int        `json:"matchedCount"`
	Truncated    bool       `json:"truncated"`
}

// TrendPoint is one sample of a DataLab time series. Ratio is a pointer so
// a sample missing its value can be told apart from a genuine zero.
type TrendPoint struct {
	Period string   `json:"period"`
	Ratio  *float64 `json:"ratio"`
}

// TrendGroup is one named series from a DataLab response.
type TrendGroup struct {
	Title    string       `json:"title"`
	Keywords []string     `json:"keyword,omitempty"`
	Data     []TrendPoint `json:"data"`
}

// TrendRow is one period of the merged trend table. Ratios is indexed by
// the table's Columns; nil means the group has no sample for the period.
type TrendRow struct {
	Period string     `json:"period"`
	Ratios []*float64 `json:"ratios"`
}

// TrendTable is the outer join of several trend series on the period axis.
// An empty table (no columns, no rows) is a valid "no data" result.
type TrendTable struct {
	Columns []string   `json:"columns"`
	Rows    []TrendRow `json:"rows"`
}

// Empty reports whether the table carries no data at all.
func (t TrendTable) Empty() bool {
	return len(t.Columns) == 0 || len(t.Rows) == 0
}
