package exa

// SearchType selects the retrieval strategy.
type SearchType string

const (
	SearchTypeAuto    SearchType = "auto"
	SearchTypeNeural  SearchType = "neural"
	SearchTypeKeyword SearchType = "keyword"
	SearchTypeHybrid  SearchType = "hybrid"
	SearchTypeFast    SearchType = "fast"
	SearchTypeDeep    SearchType = "deep"
	SearchTypeInstant SearchType = "instant"
)

// Livecrawl controls when page contents are fetched live instead of served
// from the index.
type Livecrawl string

const (
	LivecrawlNever     Livecrawl = "never"
	LivecrawlAlways    Livecrawl = "always"
	LivecrawlFallback  Livecrawl = "fallback"
	LivecrawlAuto      Livecrawl = "auto"
	LivecrawlPreferred Livecrawl = "preferred"
)

// Result is a single search, contents, or similarity hit. Content fields are
// only populated when the corresponding contents option was requested.
type Result struct {
	ID string `json:"id"`

	URL   string `json:"url"`
	Title string `json:"title"`

	Score         float64 `json:"score,omitempty"`
	PublishedDate string  `json:"publishedDate,omitempty"`
	Author        string  `json:"author,omitempty"`
	Image         string  `json:"image,omitempty"`
	Favicon       string  `json:"favicon,omitempty"`

	Text            string    `json:"text,omitempty"`
	Highlights      []string  `json:"highlights,omitempty"`
	HighlightScores []float64 `json:"highlightScores,omitempty"`
	Summary         string    `json:"summary,omitempty"`

	Subpages []Result      `json:"subpages,omitempty"`
	Extras   *ResultExtras `json:"extras,omitempty"`
}

// ResultExtras carries extra page artifacts requested via ExtrasOptions.
type ResultExtras struct {
	Links      []string `json:"links,omitempty"`
	ImageLinks []string `json:"imageLinks,omitempty"`
}

// ContentStatus reports per-URL retrieval outcome on the contents endpoint.
type ContentStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Source string `json:"source,omitempty"`

	Error *ContentStatusError `json:"error,omitempty"`
}

type ContentStatusError struct {
	Tag            string `json:"tag,omitempty"`
	HTTPStatusCode int    `json:"httpStatusCode,omitempty"`
}

// CostDollars is the API's cost breakdown for a request.
type CostDollars struct {
	Total float64 `json:"total"`

	BreakDown        []CostBreakdown    `json:"breakDown,omitempty"`
	PerRequestPrices map[string]float64 `json:"perRequestPrices,omitempty"`
	PerPagePrices    map[string]float64 `json:"perPagePrices,omitempty"`
}

type CostBreakdown struct {
	Search   float64 `json:"search,omitempty"`
	Contents float64 `json:"contents,omitempty"`

	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

// SearchResponse is the result envelope shared by search, contents, and
// similarity calls. Optional fields are zero when the API omits them.
type SearchResponse struct {
	Results []Result `json:"results"`

	Context            string `json:"context,omitempty"`
	AutopromptString   string `json:"autopromptString,omitempty"`
	AutoDate           string `json:"autoDate,omitempty"`
	ResolvedSearchType string `json:"resolvedSearchType,omitempty"`
	RequestID          string `json:"requestId,omitempty"`

	Statuses    []ContentStatus `json:"statuses,omitempty"`
	CostDollars *CostDollars    `json:"costDollars,omitempty"`
}

// SearchOptions are the filters accepted by Search and SearchAndContents.
// Domain filters and URL filters express the same concern two ways and cannot
// be combined; the client rejects that before sending.
type SearchOptions struct {
	Type     SearchType
	Category string

	NumResults int

	IncludeDomains []string
	ExcludeDomains []string
	IncludeURLs    []string
	ExcludeURLs    []string

	StartCrawlDate     string
	EndCrawlDate       string
	StartPublishedDate string
	EndPublishedDate   string

	IncludeText []string
	ExcludeText []string

	UseAutoprompt bool
	Moderation    bool
	UserLocation  string

	Flags []string
}

// FindSimilarOptions are the filters accepted by FindSimilar and
// FindSimilarAndContents.
type FindSimilarOptions struct {
	Category string

	NumResults int

	IncludeDomains []string
	ExcludeDomains []string

	StartCrawlDate     string
	EndCrawlDate       string
	StartPublishedDate string
	EndPublishedDate   string

	IncludeText []string
	ExcludeText []string

	ExcludeSourceDomain bool

	Flags []string
}

// TextOptions requests page text. The zero value requests full text.
type TextOptions struct {
	MaxCharacters   int
	IncludeHTMLTags bool
}

// HighlightsOptions requests query-relevant snippets.
type HighlightsOptions struct {
	NumSentences     int
	HighlightsPerURL int
	Query            string
}

// SummaryOptions requests an LLM summary of each page. Schema accepts a raw
// JSON-Schema map, a *jsonschema.Schema, or a Go value to generate one from;
// when set, the summary is structured JSON.
type SummaryOptions struct {
	Query  string
	Schema any
}

// ContextOptions requests a single context string aggregated over all
// results, suitable for stuffing into an LLM prompt. The zero value requests
// it without a length cap.
type ContextOptions struct {
	MaxCharacters int
}

// ExtrasOptions requests extra page artifacts per result.
type ExtrasOptions struct {
	Links      int
	ImageLinks int
}

// ContentsOptions selects which page contents come back with results. A nil
// sub-option means that kind of content is not requested.
type ContentsOptions struct {
	Text       *TextOptions
	Highlights *HighlightsOptions
	Summary    *SummaryOptions
	Context    *ContextOptions
	Extras     *ExtrasOptions

	Livecrawl        Livecrawl
	LivecrawlTimeout int // milliseconds

	Subpages      int
	SubpageTarget []string

	FilterEmptyResults bool
}
